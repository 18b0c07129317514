package ancestry

// LeafGroups groups every thread by the immediate parent of its leaf.
// Threads are sorted within a group and groups are ordered by their
// smallest thread. Every thread appears in exactly one group.
func LeafGroups(t *Tree) [][]ThreadID {
	var groups [][]ThreadID
	index := make(map[NodeID]int)
	for th := range t.threads {
		p := t.nodes[t.Leaf(ThreadID(th))].Parent
		i, ok := index[p]
		if !ok {
			i = len(groups)
			index[p] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], ThreadID(th))
	}
	return groups
}

// GroupNames replaces thread IDs in groups with their names.
func GroupNames(groups [][]ThreadID, names []string) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = make([]string, len(g))
		for j, th := range g {
			out[i][j] = threadName(th, names)
		}
	}
	return out
}
