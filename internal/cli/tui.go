package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dotforge/pkg/dot"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listSectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
)

// InspectModel is the bubbletea model for browsing a graph's contents.
type InspectModel struct {
	Title  string
	Lines  []inspectLine
	Cursor int
	Height int
	Offset int
}

// inspectLine is one row in the browser.
type inspectLine struct {
	text    string
	section bool // section headers are styled and not selectable targets
}

// newInspectModel flattens the graph into browsable lines.
func newInspectModel(title string, g *dot.Graph) InspectModel {
	return InspectModel{
		Title:  title,
		Lines:  buildInspectLines(g),
		Height: 20,
	}
}

// buildInspectLines renders the graph structure as indented text lines:
// a summary, the group tree with nodes, and the edge sequences.
func buildInspectLines(g *dot.Graph) []inspectLine {
	var lines []inspectLine
	section := func(text string) {
		lines = append(lines, inspectLine{text: text, section: true})
	}
	row := func(depth int, format string, args ...any) {
		lines = append(lines, inspectLine{text: strings.Repeat("  ", depth) + fmt.Sprintf(format, args...)})
	}

	kind := "graph"
	if g.Directed() {
		kind = "digraph"
	}
	if g.Strict() {
		kind = "strict " + kind
	}
	nodes, edges := graphStats(g)
	section("Summary")
	row(1, "%s %q", kind, g.Name())
	row(1, "%d nodes, %d edges, %d groups", nodes, edges, len(g.Groups()))

	section("Nodes")
	row(1, "%s", dot.DefaultGroup)
	for _, name := range g.NodesIn(dot.DefaultGroup) {
		row(2, "%s", name)
	}
	visited := map[string]bool{}
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if visited[id] {
			return
		}
		visited[id] = true

		label := id
		if info, isCluster := g.Group(id); info != nil {
			groupKind := "subgraph"
			if isCluster {
				groupKind = "cluster"
			}
			if info.Title != "" {
				label = fmt.Sprintf("%s %s (%s)", groupKind, id, info.Title)
			} else {
				label = fmt.Sprintf("%s %s", groupKind, id)
			}
		}
		row(depth, "%s", label)
		for _, name := range g.NodesIn(id) {
			row(depth+1, "%s", name)
		}
		for _, child := range g.ChildrenOf(id) {
			walk(child, depth+1)
		}
	}
	for _, id := range g.TopGroups() {
		if id == dot.DefaultGroup {
			continue
		}
		walk(id, 1)
	}

	section("Edges")
	sep := " -- "
	if g.Directed() {
		sep = " -> "
	}
	g.EachEdge(func(from, to string, id int, rec *dot.EdgeRecord) {
		left, right := from, to
		if rec.FromPort != "" {
			left += ":" + rec.FromPort
		}
		if rec.ToPort != "" {
			right += ":" + rec.ToPort
		}
		line := fmt.Sprintf("%s%s%s", left, sep, right)
		if rec.Attrs != nil && rec.Attrs.Len() > 0 {
			var attrs []string
			for p := rec.Attrs.Oldest(); p != nil; p = p.Next() {
				attrs = append(attrs, fmt.Sprintf("%s=%v", p.Key, p.Value))
			}
			line += "  [" + strings.Join(attrs, ", ") + "]"
		}
		row(1, "%s", line)
	})

	return lines
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Lines)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g":
			m.Cursor, m.Offset = 0, 0
		case "G":
			m.Cursor = len(m.Lines) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 5
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect: " + m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Lines) {
		end = len(m.Lines)
	}

	for i := m.Offset; i < end; i++ {
		line := m.Lines[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		style := listNormalStyle
		if line.section {
			style = listSectionStyle
		}
		if i == m.Cursor {
			style = listSelectedStyle
		}

		b.WriteString(cursor + style.Render(line.text))
		b.WriteString("\n")
	}

	return b.String()
}
