package traverse

// ShortestPath returns the id sequence of an unweighted shortest path
// from one node to another, endpoints inclusive, or nil when the target
// is unreachable. Ties between equally short paths resolve to whichever
// the BFS reaches first, which follows adjacency insertion order.
func (e *Engine) ShortestPath(from, to, rel string) []string {
	if _, ok := e.store.Get(from); !ok {
		return nil
	}
	if from == to {
		return []string{from}
	}

	parent := map[string]string{from: ""}
	frontier := []string{from}

	for len(frontier) > 0 {
		var next []string
		for _, current := range frontier {
			for _, nb := range e.neighbors(current, rel, dirOutgoing) {
				if _, seen := parent[nb]; seen {
					continue
				}
				parent[nb] = current
				if nb == to {
					return reconstruct(parent, from, to)
				}
				next = append(next, nb)
			}
		}
		frontier = next
	}

	return nil
}

func reconstruct(parent map[string]string, from, to string) []string {
	var reversed []string
	for id := to; id != ""; id = parent[id] {
		reversed = append(reversed, id)
		if id == from {
			break
		}
	}
	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

// AllPaths enumerates every simple path (no repeated node) from one node
// to another via DFS. maxLen bounds the path length in edges and is the
// only guard against explosion in dense graphs; zero or negative means
// unbounded.
func (e *Engine) AllPaths(from, to, rel string, maxLen int) [][]string {
	if _, ok := e.store.Get(from); !ok {
		return nil
	}

	var paths [][]string
	onPath := map[string]bool{from: true}
	current := []string{from}

	var dfs func(id string)
	dfs = func(id string) {
		if id == to {
			found := make([]string, len(current))
			copy(found, current)
			paths = append(paths, found)
			return
		}
		if maxLen > 0 && len(current)-1 >= maxLen {
			return
		}
		for _, nb := range e.neighbors(id, rel, dirOutgoing) {
			if onPath[nb] {
				continue
			}
			onPath[nb] = true
			current = append(current, nb)
			dfs(nb)
			current = current[:len(current)-1]
			delete(onPath, nb)
		}
	}
	dfs(from)

	return paths
}
