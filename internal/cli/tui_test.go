package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/dotforge/pkg/dot"
)

func inspectText(lines []inspectLine) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestBuildInspectLines(t *testing.T) {
	g := dot.New(true, true, "G", nil)
	g.AddNode("A", nil)
	g.AddCluster("backend", "Backend", nil)
	g.AddNodeIn("backend", "api", nil)
	g.AddSubgraphIn("backend", "inner", "", nil)
	g.AddEdge(dot.Edge{From: "A", To: "api", ToPort: "in"}, dot.Attrs{{Key: "weight", Value: 2}})

	text := inspectText(buildInspectLines(g))

	for _, want := range []string{
		`strict digraph "G"`,
		"cluster backend (Backend)",
		"subgraph inner",
		"api",
		"A -> api:in",
		"weight=2",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("inspect lines missing %q:\n%s", want, text)
		}
	}
}

func TestBuildInspectLinesGroupCycleTerminates(t *testing.T) {
	g := dot.New(false, false, "G", nil)
	g.AddClusterIn("b", "a", "", nil)
	g.AddClusterIn("a", "b", "", nil)

	// Must not recurse forever on a cyclic embedding.
	lines := buildInspectLines(g)
	if len(lines) == 0 {
		t.Fatal("expected lines")
	}
}

func TestInspectModelNavigation(t *testing.T) {
	g := dot.New(true, false, "G", nil)
	for _, n := range []string{"a", "b", "c", "d"} {
		g.AddNode(n, nil)
	}
	m := newInspectModel("test", g)

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	model, _ := m.Update(down)
	m = model.(InspectModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after one down, want 1", m.Cursor)
	}

	up := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	model, _ = m.Update(up)
	m = model.(InspectModel)
	model, _ = m.Update(up)
	m = model.(InspectModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0 (clamped at top)", m.Cursor)
	}

	view := m.View()
	if !strings.Contains(view, "Inspect: test") {
		t.Errorf("view missing title:\n%s", view)
	}
}
