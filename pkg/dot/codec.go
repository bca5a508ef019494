package dot

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrInvalidBlob is returned by [Decode] when the input does not deserialize
// to a graph object. The caller's model is left untouched.
var ErrInvalidBlob = errors.New("blob does not decode to a graph")

// graphBlob is the persisted wire form of a Graph. Ordered maps marshal in
// insertion order, so encode/decode round-trips preserve emission order.
//
// The legacy fields hold the older flat edge schema: a sequence of one-entry
// {from: to} objects with a parallel attribute array indexed by position.
// Decode replays them through AddEdge and drops them.
type graphBlob struct {
	Directed   bool                                                                                            `json:"directed"`
	Strict     bool                                                                                            `json:"strict"`
	Name       string                                                                                          `json:"name"`
	Attributes *orderedmap.OrderedMap[string, any]                                                             `json:"attributes,omitempty"`
	Nodes      *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, any]]] `json:"nodes,omitempty"`
	EdgesFrom  *orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, []edgeRecordBlob]]                `json:"edgesFrom,omitempty"`
	Clusters   *orderedmap.OrderedMap[string, groupInfoBlob]                                                   `json:"clusters,omitempty"`
	Subgraphs  *orderedmap.OrderedMap[string, groupInfoBlob]                                                   `json:"subgraphs,omitempty"`

	// Legacy schema, replayed and discarded on load.
	Edges          []map[string]string `json:"edges,omitempty"`
	EdgeAttributes []map[string]any    `json:"edgeAttributes,omitempty"`
}

type edgeRecordBlob struct {
	PortFrom   string                              `json:"portFrom,omitempty"`
	PortTo     string                              `json:"portTo,omitempty"`
	Attributes *orderedmap.OrderedMap[string, any] `json:"attributes,omitempty"`
}

type groupInfoBlob struct {
	Title      string                              `json:"title"`
	Attributes *orderedmap.OrderedMap[string, any] `json:"attributes,omitempty"`
	EmbedIn    string                              `json:"embedIn"`
}

// Encode serializes the graph's internal structure as a JSON blob suitable
// for [Decode]. The blob is an opaque persistence format, not DOT text.
func Encode(g *Graph) ([]byte, error) {
	blob := graphBlob{
		Directed:   g.directed,
		Strict:     g.strict,
		Name:       g.name,
		Attributes: g.attrs,
		Nodes:      g.nodes,
		EdgesFrom:  orderedmap.New[string, *orderedmap.OrderedMap[string, []edgeRecordBlob]](),
		Clusters:   orderedmap.New[string, groupInfoBlob](),
		Subgraphs:  orderedmap.New[string, groupInfoBlob](),
	}

	for fp := g.edges.Oldest(); fp != nil; fp = fp.Next() {
		byTo := orderedmap.New[string, []edgeRecordBlob]()
		for tp := fp.Value.Oldest(); tp != nil; tp = tp.Next() {
			recs := make([]edgeRecordBlob, len(tp.Value))
			for i, rec := range tp.Value {
				recs[i] = edgeRecordBlob{PortFrom: rec.FromPort, PortTo: rec.ToPort, Attributes: rec.Attrs}
			}
			byTo.Set(tp.Key, recs)
		}
		blob.EdgesFrom.Set(fp.Key, byTo)
	}
	for p := g.clusters.Oldest(); p != nil; p = p.Next() {
		blob.Clusters.Set(p.Key, groupInfoBlob{Title: p.Value.Title, Attributes: p.Value.Attrs, EmbedIn: p.Value.EmbedIn})
	}
	for p := g.subgraphs.Oldest(); p != nil; p = p.Next() {
		blob.Subgraphs.Set(p.Key, groupInfoBlob{Title: p.Value.Title, Attributes: p.Value.Attrs, EmbedIn: p.Value.EmbedIn})
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return data, nil
}

// Decode reconstructs a Graph from a blob produced by [Encode], or from the
// older schema that stored edges as a flat pair list. Input that does not
// deserialize to a graph object returns ErrInvalidBlob.
func Decode(data []byte) (*Graph, error) {
	var blob graphBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}

	g := New(blob.Directed, blob.Strict, blob.Name, nil)
	if blob.Attributes != nil {
		g.attrs = blob.Attributes
	}
	if blob.Nodes != nil {
		g.nodes = blob.Nodes
		g.ensureBucket(DefaultGroup)
		// Foreign blobs may carry null buckets or attribute maps.
		for bp := g.nodes.Oldest(); bp != nil; bp = bp.Next() {
			if bp.Value == nil {
				g.nodes.Set(bp.Key, orderedmap.New[string, *orderedmap.OrderedMap[string, any]]())
				continue
			}
			for np := bp.Value.Oldest(); np != nil; np = np.Next() {
				if np.Value == nil {
					bp.Value.Set(np.Key, orderedmap.New[string, any]())
				}
			}
		}
	}
	if blob.EdgesFrom != nil {
		for fp := blob.EdgesFrom.Oldest(); fp != nil; fp = fp.Next() {
			byTo := orderedmap.New[string, []*EdgeRecord]()
			for tp := fp.Value.Oldest(); tp != nil; tp = tp.Next() {
				recs := make([]*EdgeRecord, len(tp.Value))
				for i, rb := range tp.Value {
					attrs := rb.Attributes
					if attrs == nil {
						attrs = orderedmap.New[string, any]()
					}
					recs[i] = &EdgeRecord{FromPort: rb.PortFrom, ToPort: rb.PortTo, Attrs: attrs}
				}
				byTo.Set(tp.Key, recs)
			}
			g.edges.Set(fp.Key, byTo)
		}
	}
	if blob.Clusters != nil {
		for p := blob.Clusters.Oldest(); p != nil; p = p.Next() {
			g.clusters.Set(p.Key, groupInfoFromBlob(p.Value))
			g.ensureBucket(p.Key)
		}
	}
	if blob.Subgraphs != nil {
		for p := blob.Subgraphs.Oldest(); p != nil; p = p.Next() {
			g.subgraphs.Set(p.Key, groupInfoFromBlob(p.Value))
			g.ensureBucket(p.Key)
		}
	}

	// Replay the legacy flat edge list through AddEdge so the current
	// merge/append semantics apply, then drop the legacy fields.
	for i, pair := range blob.Edges {
		for from, to := range pair {
			g.AddEdge(Edge{From: from, To: to}, legacyAttrs(blob.EdgeAttributes, i))
		}
	}

	return g, nil
}

// legacyAttrs converts the i-th entry of the legacy parallel attribute array
// into an ordered attribute list. JSON objects decode into unordered Go maps,
// so keys are sorted to keep the replay deterministic.
func legacyAttrs(attrsByIndex []map[string]any, i int) Attrs {
	if i >= len(attrsByIndex) || len(attrsByIndex[i]) == 0 {
		return nil
	}
	m := attrsByIndex[i]
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make(Attrs, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, Attr{Key: k, Value: m[k]})
	}
	return attrs
}

func groupInfoFromBlob(b groupInfoBlob) *GroupInfo {
	attrs := b.Attributes
	if attrs == nil {
		attrs = orderedmap.New[string, any]()
	}
	return &GroupInfo{Title: b.Title, Attrs: attrs, EmbedIn: b.EmbedIn}
}
