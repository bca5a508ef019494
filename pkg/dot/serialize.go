package dot

import (
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrGroupCycle is returned by [Graph.Serialize] when the group embedding
// relation contains a cycle. The relation is supposed to form a tree rooted
// at the default group, but nothing enforces that at insertion time.
var ErrGroupCycle = errors.New("group embedding contains a cycle")

// indentUnit is one level of block indentation in the output.
const indentUnit = "    "

// clusterPrefix is prepended to emitted cluster names so GraphViz draws an
// enclosing boundary. Names that already start with "cluster" (any case) are
// left alone.
const clusterPrefix = "cluster"

// Serialize produces the DOT text for the graph's current state. It is a
// pure read pass: calling it twice without mutation yields byte-identical
// output. The only failure mode is a cyclic group embedding.
func (g *Graph) Serialize() (string, error) {
	var b strings.Builder

	if g.strict {
		b.WriteString("strict ")
	}
	if g.directed {
		b.WriteString("digraph ")
	} else {
		b.WriteString("graph ")
	}
	b.WriteString(Escape(g.name))
	b.WriteString(" {\n")

	for _, item := range escapeAttrItems(g.attrs) {
		b.WriteString(indentUnit)
		b.WriteString(item)
		b.WriteString(";\n")
	}

	// Ungrouped node buckets: every bucket whose id is not itself a cluster
	// or subgraph, principally the default group.
	groups := g.groupSet()
	for bp := g.nodes.Oldest(); bp != nil; bp = bp.Next() {
		if groups[bp.Key] {
			continue
		}
		writeNodes(&b, bp.Value, 1)
	}

	for _, id := range g.TopGroups() {
		if err := g.writeGroup(&b, id, 1, map[string]bool{}); err != nil {
			return "", err
		}
	}

	sep := " -- "
	if g.directed {
		sep = " -> "
	}
	g.EachEdge(func(from, to string, _ int, rec *EdgeRecord) {
		b.WriteString(indentUnit)
		b.WriteString(Escape(from))
		if rec.FromPort != "" {
			b.WriteString(":")
			b.WriteString(Escape(rec.FromPort))
		}
		b.WriteString(sep)
		b.WriteString(Escape(to))
		if rec.ToPort != "" {
			b.WriteString(":")
			b.WriteString(Escape(rec.ToPort))
		}
		if items := edgeAttrItems(rec.Attrs); len(items) > 0 {
			b.WriteString(" [ ")
			b.WriteString(strings.Join(items, ","))
			b.WriteString(" ]")
		}
		b.WriteString(";\n")
	})

	b.WriteString("}\n")
	return b.String(), nil
}

// writeGroup emits one group block and recurses into its children, clusters
// before subgraphs. The indentation depth is threaded explicitly; path holds
// the ids on the current recursion path so a cyclic embedding surfaces as
// ErrGroupCycle instead of unbounded recursion.
//
// The default group is never wrapped in a subgraph block itself, but its
// children are still recursed.
func (g *Graph) writeGroup(b *strings.Builder, id string, depth int, path map[string]bool) error {
	if path[id] {
		return fmt.Errorf("%w: %q", ErrGroupCycle, id)
	}
	path[id] = true
	defer delete(path, id)

	indent := strings.Repeat(indentUnit, depth)
	inner := depth

	if id != DefaultGroup {
		info, isCluster := g.groupInfo(id)
		name := id
		if isCluster {
			name = clusterName(id)
		}
		b.WriteString(indent)
		b.WriteString("subgraph ")
		b.WriteString(quote(name))
		b.WriteString(" {\n")
		inner = depth + 1

		if items := groupAttrItems(info); len(items) > 0 {
			b.WriteString(strings.Repeat(indentUnit, inner))
			b.WriteString("graph [ ")
			b.WriteString(strings.Join(items, ","))
			b.WriteString(" ];\n")
		}
	}

	if bucket, ok := g.nodes.Get(id); ok {
		writeNodes(b, bucket, inner)
	}

	for _, child := range g.ChildrenOf(id) {
		if err := g.writeGroup(b, child, inner, path); err != nil {
			return err
		}
	}

	if id != DefaultGroup {
		b.WriteString(indent)
		b.WriteString("}\n")
	}
	return nil
}

// writeNodes emits one declaration line per node in bucket order. Nodes with
// no attributes omit the bracket clause.
func writeNodes(b *strings.Builder, bucket *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, any]], depth int) {
	indent := strings.Repeat(indentUnit, depth)
	for p := bucket.Oldest(); p != nil; p = p.Next() {
		b.WriteString(indent)
		b.WriteString(Escape(p.Key))
		if items := escapeAttrItems(p.Value); len(items) > 0 {
			b.WriteString(" [ ")
			b.WriteString(strings.Join(items, ","))
			b.WriteString(" ]")
		}
		b.WriteString(";\n")
	}
}

// groupAttrItems renders a group's attribute line: its own attributes plus a
// label derived from the title when present. A pre-existing label key keeps
// its position and is overwritten by the title.
func groupAttrItems(info *GroupInfo) []string {
	if info == nil {
		return nil
	}
	attrs := info.Attrs
	if info.Title != "" {
		combined := orderedmap.New[string, any]()
		for p := attrs.Oldest(); p != nil; p = p.Next() {
			combined.Set(p.Key, p.Value)
		}
		combined.Set("label", info.Title)
		attrs = combined
	}
	return escapeAttrItems(attrs)
}

// edgeAttrItems renders an edge's attribute clause. lhead and ltail values
// name clusters, so they get the same cluster_ prefixing as emitted cluster
// names before escaping.
func edgeAttrItems(m *orderedmap.OrderedMap[string, any]) []string {
	items := make([]string, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		switch {
		case p.Key == "lhead" || p.Key == "ltail":
			items = append(items, p.Key+"="+Escape(clusterName(attrString(p.Value))))
		case htmlLabelKeys[p.Key]:
			items = append(items, p.Key+"="+EscapeLabel(p.Value))
		default:
			items = append(items, Escape(p.Key)+"="+Escape(p.Value))
		}
	}
	return items
}

// clusterName prefixes an id with "cluster_" unless its first seven
// characters already spell "cluster" in any case. The stored id is never
// rewritten; only emitted names and lhead/ltail values go through this.
func clusterName(id string) string {
	if len(id) >= len(clusterPrefix) && strings.EqualFold(id[:len(clusterPrefix)], clusterPrefix) {
		return id
	}
	return clusterPrefix + "_" + id
}
