package dot

import (
	"errors"
	"strings"
	"testing"
)

func TestSerializeScenario(t *testing.T) {
	g := New(true, true, "G", nil)
	g.AddNode("A", Attrs{{Key: "shape", Value: "box"}})
	g.AddNode("B", nil)
	g.AddEdge(Edge{From: "A", To: "B"}, Attrs{{Key: "label", Value: "Edge Label"}})

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "strict digraph G {\n    A [ shape=box ];\n    B;\n    A -> B [ label=\"Edge Label\" ];\n}\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	g := New(false, false, "net", Attrs{{Key: "overlap", Value: false}})
	g.AddCluster("core", "Core", Attrs{{Key: "color", Value: "blue"}})
	g.AddNodeIn("core", "db", Attrs{{Key: "shape", Value: "cylinder"}})
	g.AddNode("web", nil)
	g.AddEdge(Edge{From: "web", To: "db", ToPort: "in"}, nil)
	g.AddEdge(Edge{From: "web", To: "db"}, Attrs{{Key: "style", Value: "dashed"}})

	first, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	second, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if first != second {
		t.Errorf("serialization not deterministic:\nfirst  %q\nsecond %q", first, second)
	}
}

func TestSerializeUndirected(t *testing.T) {
	g := New(false, false, "G", nil)
	g.AddEdge(Edge{From: "a", To: "b"}, nil)

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "graph G {\n    a -- b;\n}\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestSerializeClusterPrefix(t *testing.T) {
	tests := []struct {
		name    string
		cluster string
		want    string
	}{
		{name: "Prefixed", cluster: "foo", want: `subgraph "cluster_foo" {`},
		{name: "AlreadyPrefixed", cluster: "clusterFoo", want: `subgraph "clusterFoo" {`},
		{name: "CaseInsensitive", cluster: "ClusterBar", want: `subgraph "ClusterBar" {`},
		{name: "UnderscoreForm", cluster: "cluster_baz", want: `subgraph "cluster_baz" {`},
		{name: "ShorterThanPrefix", cluster: "clu", want: `subgraph "cluster_clu" {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(true, false, "G", nil)
			g.AddCluster(tt.cluster, "", nil)

			out, err := g.Serialize()
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestSerializeNestedGroups(t *testing.T) {
	g := New(true, false, "G", Attrs{{Key: "rankdir", Value: "LR"}})
	g.AddCluster("top", "Top Cluster", Attrs{{Key: "style", Value: "filled"}})
	g.AddNodeIn("top", "A", nil)
	g.AddSubgraphIn("top", "inner", "", nil)
	g.AddNodeIn("inner", "B", nil)
	g.AddEdge(Edge{From: "A", To: "B"}, nil)

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := strings.Join([]string{
		"digraph G {",
		"    rankdir=LR;",
		`    subgraph "cluster_top" {`,
		`        graph [ style=filled,label="Top Cluster" ];`,
		"        A;",
		`        subgraph "inner" {`,
		"            B;",
		"        }",
		"    }",
		"    A -> B;",
		"}",
	}, "\n") + "\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeGroupAttrLineOmittedWhenEmpty(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddSubgraph("plain", "", nil)
	g.AddNodeIn("plain", "n", nil)

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if strings.Contains(got, "graph [") {
		t.Errorf("empty group attribute line emitted:\n%s", got)
	}
}

func TestSerializeEdgePorts(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddEdge(Edge{From: "a", To: "b", FromPort: "out", ToPort: "in port"}, nil)

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "digraph G {\n    a:out -> b:\"in port\";\n}\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestSerializeLheadLtailPrefix(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddCluster("foo", "", nil)
	g.AddEdge(Edge{From: "a", To: "b"}, Attrs{
		{Key: "lhead", Value: "foo"},
		{Key: "ltail", Value: "clusterBar"},
	})

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.Contains(got, "lhead=cluster_foo") {
		t.Errorf("lhead not prefixed: %q", got)
	}
	if !strings.Contains(got, "ltail=clusterBar") {
		t.Errorf("ltail double-prefixed: %q", got)
	}
}

func TestSerializeUngroupedBucket(t *testing.T) {
	// A node bucket whose id was never registered as a cluster or subgraph
	// is emitted at top level, like the default bucket.
	g := New(true, false, "G", nil)
	g.AddNodeIn("misc", "stray", nil)

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "digraph G {\n    stray;\n}\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestSerializeGroupCycle(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddCluster("x", "", nil)
	g.AddClusterIn("x", DefaultGroup, "", nil)

	_, err := g.Serialize()
	if !errors.Is(err, ErrGroupCycle) {
		t.Errorf("err = %v, want ErrGroupCycle", err)
	}
}

func TestSerializeOrphanCycleOmitted(t *testing.T) {
	// A cycle not reachable from the default group is simply never visited.
	g := New(true, false, "G", nil)
	g.AddClusterIn("b", "a", "", nil)
	g.AddClusterIn("a", "b", "", nil)
	g.AddNode("n", nil)

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "digraph G {\n    n;\n}\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestSerializeDualRegistryPrefersCluster(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddCluster("dual", "", nil)
	g.AddSubgraph("dual", "", nil)

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.Contains(got, `subgraph "cluster_dual" {`) {
		t.Errorf("dual-registered id not emitted as cluster: %q", got)
	}
	if strings.Count(got, "subgraph ") != 1 {
		t.Errorf("dual-registered id emitted more than once: %q", got)
	}
}

func TestSerializeReservedGraphName(t *testing.T) {
	g := New(true, false, "graph", nil)

	got, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.HasPrefix(got, `digraph "graph" {`) {
		t.Errorf("reserved graph name not quoted: %q", got)
	}
}
