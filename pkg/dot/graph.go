package dot

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultGroup is the implicit root group. Nodes added without an explicit
// group land here, and top-level clusters and subgraphs are embedded in it.
const DefaultGroup = "default"

// Attr is a single attribute key/value pair. Values may be strings, booleans,
// or numbers; see [Escape] for how each is rendered.
type Attr struct {
	Key   string
	Value any
}

// Attrs is an ordered attribute list. Order is preserved through to the
// serialized output, and later entries with the same key overwrite earlier
// ones on merge.
type Attrs []Attr

// Edge identifies a directed connection between two nodes, optionally with
// ports. Nodes do not need to be declared before an edge references them;
// GraphViz tolerates edges to undeclared nodes.
type Edge struct {
	From     string
	To       string
	FromPort string
	ToPort   string
}

// EdgeRecord is one stored edge between an ordered node pair. A pair can hold
// several records (multi-edges); a record's position in the sequence is its
// edge id, used for removal.
type EdgeRecord struct {
	FromPort string
	ToPort   string
	Attrs    *orderedmap.OrderedMap[string, any]
}

// GroupInfo describes a cluster or subgraph: its display title, attributes,
// and the id of the group it is embedded in.
type GroupInfo struct {
	Title   string
	Attrs   *orderedmap.OrderedMap[string, any]
	EmbedIn string
}

// Graph is the aggregate root of the model. The zero value is not usable;
// use [New].
//
// Graph is not safe for concurrent mutation without external synchronization.
type Graph struct {
	directed bool
	strict   bool
	name     string
	attrs    *orderedmap.OrderedMap[string, any]

	// group id -> node id -> attribute map
	nodes *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, any]]]
	// from id -> to id -> edge records
	edges *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, []*EdgeRecord]]

	clusters  *orderedmap.OrderedMap[string, *GroupInfo]
	subgraphs *orderedmap.OrderedMap[string, *GroupInfo]
}

// New creates a Graph. The directed flag selects digraph output and the
// " -> " edge separator; strict collapses multi-edges (see [Graph.AddEdge]).
// Initial attributes may be nil.
func New(directed, strict bool, name string, attrs Attrs) *Graph {
	g := &Graph{
		directed:  directed,
		strict:    strict,
		name:      name,
		attrs:     newAttrMap(attrs),
		nodes:     orderedmap.New[string, *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, any]]](),
		edges:     orderedmap.New[string, *orderedmap.OrderedMap[string, []*EdgeRecord]](),
		clusters:  orderedmap.New[string, *GroupInfo](),
		subgraphs: orderedmap.New[string, *GroupInfo](),
	}
	g.ensureBucket(DefaultGroup)
	return g
}

// Directed reports whether the graph is directed.
func (g *Graph) Directed() bool { return g.directed }

// Strict reports whether the graph collapses multi-edges.
func (g *Graph) Strict() bool { return g.strict }

// Name returns the graph name used in the output header.
func (g *Graph) Name() string { return g.name }

// SetDirected switches between graph and digraph output.
func (g *Graph) SetDirected(directed bool) { g.directed = directed }

// SetName sets the graph name used in the output header.
func (g *Graph) SetName(name string) { g.name = name }

// SetAttributes replaces the graph-level attributes wholesale.
func (g *Graph) SetAttributes(attrs Attrs) {
	g.attrs = newAttrMap(attrs)
}

// AddAttributes merges attrs into the graph-level attributes. Incoming keys
// overwrite existing ones; new keys append in order.
func (g *Graph) AddAttributes(attrs Attrs) {
	mergeAttrs(g.attrs, attrs)
}

// AddNode inserts or overwrites a node in the default group.
func (g *Graph) AddNode(name string, attrs Attrs) {
	g.AddNodeIn(DefaultGroup, name, attrs)
}

// AddNodeIn inserts or overwrites a node in the given group bucket. The
// bucket is created if it does not exist yet.
func (g *Graph) AddNodeIn(group, name string, attrs Attrs) {
	bucket := g.ensureBucket(group)
	bucket.Set(name, newAttrMap(attrs))
}

// RemoveNode deletes a node from the default group, if present.
func (g *Graph) RemoveNode(name string) {
	g.RemoveNodeFrom(DefaultGroup, name)
}

// RemoveNodeFrom deletes a node from the given group, if present. Edges
// referencing the node are left untouched; GraphViz accepts edges to
// undeclared nodes, so dangling edges remain in the output.
func (g *Graph) RemoveNodeFrom(group, name string) {
	if bucket, ok := g.nodes.Get(group); ok {
		bucket.Delete(name)
	}
}

// HasNode reports whether the node exists in the given group.
func (g *Graph) HasNode(group, name string) bool {
	bucket, ok := g.nodes.Get(group)
	if !ok {
		return false
	}
	_, ok = bucket.Get(name)
	return ok
}

// NodeGroups returns all node bucket ids in insertion order. This includes
// the implicit default bucket and buckets created for clusters or subgraphs.
func (g *Graph) NodeGroups() []string {
	out := make([]string, 0, g.nodes.Len())
	for p := g.nodes.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// NodesIn returns the node ids of a group bucket in insertion order.
func (g *Graph) NodesIn(group string) []string {
	bucket, ok := g.nodes.Get(group)
	if !ok {
		return nil
	}
	out := make([]string, 0, bucket.Len())
	for p := bucket.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// AddEdge stores an edge record and returns its id.
//
// In strict mode there is at most one record per ordered pair: the first call
// stores the record, later calls merge into it (attributes key-wise, with the
// later call winning on conflicts; ports overwritten when provided) and the
// returned id is always 0. Otherwise each call appends a new record and
// returns its position in the sequence.
func (g *Graph) AddEdge(e Edge, attrs Attrs) int {
	byTo, ok := g.edges.Get(e.From)
	if !ok {
		byTo = orderedmap.New[string, []*EdgeRecord]()
		g.edges.Set(e.From, byTo)
	}
	recs, _ := byTo.Get(e.To)

	if g.strict && len(recs) > 0 {
		rec := recs[0]
		if e.FromPort != "" {
			rec.FromPort = e.FromPort
		}
		if e.ToPort != "" {
			rec.ToPort = e.ToPort
		}
		mergeAttrs(rec.Attrs, attrs)
		return 0
	}

	rec := &EdgeRecord{FromPort: e.FromPort, ToPort: e.ToPort, Attrs: newAttrMap(attrs)}
	id := len(recs)
	byTo.Set(e.To, append(recs, rec))
	return id
}

// RemoveEdge deletes every record between the ordered pair.
func (g *Graph) RemoveEdge(from, to string) {
	if byTo, ok := g.edges.Get(from); ok {
		byTo.Delete(to)
	}
}

// RemoveEdgeByID deletes a single record by its id. Later records shift down,
// so their ids change; this matches removal-by-position semantics. The pair's
// sequence is dropped entirely once it becomes empty.
func (g *Graph) RemoveEdgeByID(from, to string, id int) {
	byTo, ok := g.edges.Get(from)
	if !ok {
		return
	}
	recs, ok := byTo.Get(to)
	if !ok || id < 0 || id >= len(recs) {
		return
	}
	recs = append(recs[:id], recs[id+1:]...)
	if len(recs) == 0 {
		byTo.Delete(to)
		return
	}
	byTo.Set(to, recs)
}

// EachEdge calls fn for every edge record in emission order: by from-node
// insertion, then to-node insertion, then record id.
func (g *Graph) EachEdge(fn func(from, to string, id int, rec *EdgeRecord)) {
	for fp := g.edges.Oldest(); fp != nil; fp = fp.Next() {
		for tp := fp.Value.Oldest(); tp != nil; tp = tp.Next() {
			for i, rec := range tp.Value {
				fn(fp.Key, tp.Key, i, rec)
			}
		}
	}
}

// AddCluster registers a top-level cluster. See [Graph.AddClusterIn].
func (g *Graph) AddCluster(id, title string, attrs Attrs) {
	g.AddClusterIn(DefaultGroup, id, title, attrs)
}

// AddClusterIn registers or updates a cluster embedded in the given parent
// group. A node bucket for the cluster id is created if none exists, so the
// cluster can be referenced as a node-attachment point even while empty.
func (g *Graph) AddClusterIn(parent, id, title string, attrs Attrs) {
	g.clusters.Set(id, &GroupInfo{Title: title, Attrs: newAttrMap(attrs), EmbedIn: parent})
	g.ensureBucket(id)
}

// AddSubgraph registers a top-level subgraph. See [Graph.AddSubgraphIn].
func (g *Graph) AddSubgraph(id, title string, attrs Attrs) {
	g.AddSubgraphIn(DefaultGroup, id, title, attrs)
}

// AddSubgraphIn registers or updates a subgraph embedded in the given parent
// group. Unlike clusters, subgraph names are emitted without the "cluster_"
// prefix, so GraphViz draws no enclosing boundary.
func (g *Graph) AddSubgraphIn(parent, id, title string, attrs Attrs) {
	g.subgraphs.Set(id, &GroupInfo{Title: title, Attrs: newAttrMap(attrs), EmbedIn: parent})
	g.ensureBucket(id)
}

// ensureBucket returns the node bucket for group, creating it if needed.
func (g *Graph) ensureBucket(group string) *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, any]] {
	if bucket, ok := g.nodes.Get(group); ok {
		return bucket
	}
	bucket := orderedmap.New[string, *orderedmap.OrderedMap[string, any]]()
	g.nodes.Set(group, bucket)
	return bucket
}

// newAttrMap builds an ordered map from an attribute list. Nil input yields
// an empty map.
func newAttrMap(attrs Attrs) *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	for _, a := range attrs {
		m.Set(a.Key, a.Value)
	}
	return m
}

// mergeAttrs merges attrs into dst. Existing keys keep their position and
// take the new value; new keys append in order.
func mergeAttrs(dst *orderedmap.OrderedMap[string, any], attrs Attrs) {
	for _, a := range attrs {
		dst.Set(a.Key, a.Value)
	}
}
