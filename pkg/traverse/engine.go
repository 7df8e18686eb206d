package traverse

import (
	"github.com/workgraph-io/workgraph/pkg/graph"
	"github.com/workgraph-io/workgraph/pkg/model"
)

// Engine runs read-only traversals over a store and its edge index. All
// operations take the relationship to follow explicitly; an empty rel
// means any relationship. Complexity is proportional to visited edges,
// never to total graph size.
type Engine struct {
	store *graph.Store
}

// New creates a traversal engine for the store
func New(s *graph.Store) *Engine {
	return &Engine{store: s}
}

// direction selects which side of the edge index a walk follows
type direction int

const (
	dirOutgoing direction = iota
	dirIncoming
)

func (e *Engine) neighbors(id, rel string, dir direction) []string {
	if dir == dirOutgoing {
		return e.store.Index().Outgoing(id, rel)
	}
	return e.store.Index().Incoming(id, rel)
}

// Ancestors returns every node with a path to id over rel, breadth-first
// over incoming edges. maxDepth bounds the BFS frontier count; zero or
// negative means unbounded. The starting node is excluded and no node is
// visited twice.
func (e *Engine) Ancestors(id, rel string, maxDepth int) []string {
	return e.walk(id, rel, maxDepth, dirIncoming)
}

// Descendants returns every node reachable from id over rel,
// breadth-first over outgoing edges
func (e *Engine) Descendants(id, rel string, maxDepth int) []string {
	return e.walk(id, rel, maxDepth, dirOutgoing)
}

func (e *Engine) walk(id, rel string, maxDepth int, dir direction) []string {
	visited := map[string]bool{id: true}
	result := []string{}
	frontier := []string{id}

	for depth := 0; len(frontier) > 0; depth++ {
		if maxDepth > 0 && depth >= maxDepth {
			break
		}
		var next []string
		for _, current := range frontier {
			for _, nb := range e.neighbors(current, rel, dir) {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				result = append(result, nb)
				next = append(next, nb)
			}
		}
		frontier = next
	}

	return result
}

// Subgraph returns deep copies of the nodes whose ids are in ids. With
// includeEdges, only edges with both endpoints inside the set are kept;
// edges crossing the boundary are dropped. Unknown ids are skipped.
func (e *Engine) Subgraph(ids []string, includeEdges bool) []*model.Node {
	inSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}

	result := []*model.Node{}
	for _, id := range ids {
		n, ok := e.store.Get(id)
		if !ok {
			continue
		}
		clone := n.Clone()
		if includeEdges {
			kept := clone.Edges[:0]
			for _, edge := range clone.Edges {
				if inSet[edge.Target] {
					kept = append(kept, edge)
				}
			}
			clone.Edges = kept
		} else {
			clone.Edges = nil
		}
		result = append(result, clone)
	}
	return result
}

// ConnectedComponent returns every node reachable from id over rel when
// edge direction is ignored, the starting node included. An unknown id
// yields an empty result.
func (e *Engine) ConnectedComponent(id, rel string) []string {
	if _, ok := e.store.Get(id); !ok {
		return []string{}
	}

	visited := map[string]bool{id: true}
	result := []string{id}
	frontier := []string{id}

	for len(frontier) > 0 {
		var next []string
		for _, current := range frontier {
			undirected := append(
				e.neighbors(current, rel, dirOutgoing),
				e.neighbors(current, rel, dirIncoming)...,
			)
			for _, nb := range undirected {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				result = append(result, nb)
				next = append(next, nb)
			}
		}
		frontier = next
	}

	return result
}
