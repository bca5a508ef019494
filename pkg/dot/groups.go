package dot

// Groups returns the union of cluster and subgraph ids, clusters first,
// deduplicated in first-seen order. Nothing prevents an id from being
// registered as both; emission resolves the ambiguity in favor of the
// cluster entry (see groupInfo).
func (g *Graph) Groups() []string {
	seen := make(map[string]bool)
	var out []string
	for p := g.clusters.Oldest(); p != nil; p = p.Next() {
		if !seen[p.Key] {
			seen[p.Key] = true
			out = append(out, p.Key)
		}
	}
	for p := g.subgraphs.Oldest(); p != nil; p = p.Next() {
		if !seen[p.Key] {
			seen[p.Key] = true
			out = append(out, p.Key)
		}
	}
	return out
}

// TopGroups returns the groups embedded directly in the default group, in
// [Graph.Groups] order. The default group itself is included in the abnormal
// case that it was registered as a group id.
func (g *Graph) TopGroups() []string {
	var out []string
	for _, id := range g.Groups() {
		if id == DefaultGroup {
			out = append(out, id)
			continue
		}
		if info, _ := g.groupInfo(id); info != nil && info.EmbedIn == DefaultGroup {
			out = append(out, id)
		}
	}
	return out
}

// ChildrenOf returns the groups embedded in parent, clusters before
// subgraphs, each in registration order.
func (g *Graph) ChildrenOf(parent string) []string {
	var out []string
	for p := g.clusters.Oldest(); p != nil; p = p.Next() {
		if p.Value.EmbedIn == parent {
			out = append(out, p.Key)
		}
	}
	for p := g.subgraphs.Oldest(); p != nil; p = p.Next() {
		if p.Value.EmbedIn != parent {
			continue
		}
		// An id in both registries resolves as a cluster; skip the shadowed
		// subgraph entry so it is not emitted twice.
		if _, isCluster := g.clusters.Get(p.Key); !isCluster {
			out = append(out, p.Key)
		}
	}
	return out
}

// Group resolves a group id to its info. When the id is registered as both a
// cluster and a subgraph, the cluster entry wins, consistent with emission.
// The second return reports whether the id is a cluster.
func (g *Graph) Group(id string) (*GroupInfo, bool) {
	return g.groupInfo(id)
}

// groupInfo resolves a group id to its info, preferring the cluster registry
// when the id exists in both. The second return reports whether the id is a
// cluster.
func (g *Graph) groupInfo(id string) (*GroupInfo, bool) {
	if info, ok := g.clusters.Get(id); ok {
		return info, true
	}
	if info, ok := g.subgraphs.Get(id); ok {
		return info, false
	}
	return nil, false
}

// groupSet returns the set of all registered group ids.
func (g *Graph) groupSet() map[string]bool {
	set := make(map[string]bool, g.clusters.Len()+g.subgraphs.Len())
	for p := g.clusters.Oldest(); p != nil; p = p.Next() {
		set[p.Key] = true
	}
	for p := g.subgraphs.Oldest(); p != nil; p = p.Next() {
		set[p.Key] = true
	}
	return set
}
