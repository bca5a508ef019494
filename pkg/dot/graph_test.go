package dot

import (
	"testing"
)

func TestAddEdgeStrictCollapse(t *testing.T) {
	g := New(true, true, "G", nil)

	id1 := g.AddEdge(Edge{From: "A", To: "B"}, Attrs{{Key: "color", Value: "red"}, {Key: "weight", Value: "1"}})
	id2 := g.AddEdge(Edge{From: "A", To: "B", ToPort: "p"}, Attrs{{Key: "color", Value: "blue"}})

	if id1 != 0 || id2 != 0 {
		t.Errorf("ids = %d, %d, want 0, 0", id1, id2)
	}

	var count int
	g.EachEdge(func(from, to string, id int, rec *EdgeRecord) {
		count++
		if from != "A" || to != "B" {
			t.Errorf("edge = %s -> %s, want A -> B", from, to)
		}
		if v, _ := rec.Attrs.Get("color"); v != "blue" {
			t.Errorf("color = %v, want blue (later call wins)", v)
		}
		if v, _ := rec.Attrs.Get("weight"); v != "1" {
			t.Errorf("weight = %v, want 1 (union keeps earlier keys)", v)
		}
		if rec.ToPort != "p" {
			t.Errorf("toPort = %q, want p (port overwritten when provided)", rec.ToPort)
		}
	})
	if count != 1 {
		t.Errorf("records = %d, want 1", count)
	}
}

func TestAddEdgeNonStrictAccumulates(t *testing.T) {
	g := New(true, false, "G", nil)

	for i := 0; i < 3; i++ {
		if id := g.AddEdge(Edge{From: "A", To: "B"}, nil); id != i {
			t.Errorf("call %d returned id %d, want %d", i, id, i)
		}
	}

	var ids []int
	g.EachEdge(func(_, _ string, id int, _ *EdgeRecord) { ids = append(ids, id) })
	if len(ids) != 3 {
		t.Fatalf("records = %d, want 3", len(ids))
	}
	for i, id := range ids {
		if id != i {
			t.Errorf("record %d has id %d", i, id)
		}
	}
}

func TestRemoveEdge(t *testing.T) {
	tests := []struct {
		name   string
		remove func(g *Graph)
		want   int
	}{
		{
			name:   "WholeSequence",
			remove: func(g *Graph) { g.RemoveEdge("A", "B") },
			want:   0,
		},
		{
			name:   "SingleRecord",
			remove: func(g *Graph) { g.RemoveEdgeByID("A", "B", 0) },
			want:   1,
		},
		{
			name:   "OutOfRangeIsNoop",
			remove: func(g *Graph) { g.RemoveEdgeByID("A", "B", 5) },
			want:   2,
		},
		{
			name:   "UnknownPairIsNoop",
			remove: func(g *Graph) { g.RemoveEdgeByID("X", "Y", 0) },
			want:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(true, false, "G", nil)
			g.AddEdge(Edge{From: "A", To: "B"}, nil)
			g.AddEdge(Edge{From: "A", To: "B"}, nil)

			tt.remove(g)

			var count int
			g.EachEdge(func(_, _ string, _ int, _ *EdgeRecord) { count++ })
			if count != tt.want {
				t.Errorf("records = %d, want %d", count, tt.want)
			}
		})
	}
}

func TestRemoveNodeLeavesEdges(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddNode("A", nil)
	g.AddNode("B", nil)
	g.AddEdge(Edge{From: "A", To: "B"}, nil)

	g.RemoveNode("B")

	if g.HasNode(DefaultGroup, "B") {
		t.Error("node B still present after removal")
	}
	var count int
	g.EachEdge(func(_, _ string, _ int, _ *EdgeRecord) { count++ })
	if count != 1 {
		t.Errorf("records = %d, want 1 (dangling edge kept)", count)
	}
}

func TestAttributes(t *testing.T) {
	g := New(true, false, "G", Attrs{{Key: "rankdir", Value: "LR"}})

	g.AddAttributes(Attrs{{Key: "rankdir", Value: "TB"}, {Key: "bgcolor", Value: "white"}})
	out, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "digraph G {\n    rankdir=TB;\n    bgcolor=white;\n}\n"
	if out != want {
		t.Errorf("merged attributes:\ngot  %q\nwant %q", out, want)
	}

	g.SetAttributes(Attrs{{Key: "splines", Value: true}})
	out, err = g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want = "digraph G {\n    splines=true;\n}\n"
	if out != want {
		t.Errorf("replaced attributes:\ngot  %q\nwant %q", out, want)
	}
}

func TestNodeOverwrite(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddNode("A", Attrs{{Key: "shape", Value: "circle"}})
	g.AddNode("A", Attrs{{Key: "shape", Value: "box"}})

	out, err := g.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := "digraph G {\n    A [ shape=box ];\n}\n"
	if out != want {
		t.Errorf("got  %q\nwant %q", out, want)
	}
}

func TestGroupResolver(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddSubgraph("s1", "", nil)
	g.AddCluster("c1", "", nil)
	g.AddClusterIn("c1", "c2", "", nil)
	g.AddSubgraphIn("c1", "s2", "", nil)
	g.AddClusterIn("c1", "c3", "", nil)

	gotGroups := g.Groups()
	wantGroups := []string{"c1", "c2", "c3", "s1", "s2"}
	assertStrings(t, "Groups", gotGroups, wantGroups)

	gotTop := g.TopGroups()
	wantTop := []string{"c1", "s1"}
	assertStrings(t, "TopGroups", gotTop, wantTop)

	gotChildren := g.ChildrenOf("c1")
	wantChildren := []string{"c2", "c3", "s2"}
	assertStrings(t, "ChildrenOf", gotChildren, wantChildren)
}

func TestGroupCreatesNodeBucket(t *testing.T) {
	g := New(true, false, "G", nil)
	g.AddCluster("empty", "", nil)

	found := false
	for _, id := range g.NodeGroups() {
		if id == "empty" {
			found = true
		}
	}
	if !found {
		t.Error("cluster registration did not create a node bucket")
	}
}

func assertStrings(t *testing.T, what string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", what, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %q, want %q", what, i, got[i], want[i])
		}
	}
}
