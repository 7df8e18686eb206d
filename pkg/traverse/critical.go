package traverse

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
)

// CycleError reports that the graph has a cycle under the relationship a
// critical-path computation was asked to use
type CycleError struct {
	Rel     string
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("traverse: cycle under %q involving [%s]", e.Rel, strings.Join(e.Members, ", "))
}

// Bottleneck is a node scored by how many other nodes depend on it
type Bottleneck struct {
	ID         string `json:"id"`
	Dependents int    `json:"dependents"`
}

// FindBottlenecks ranks nodes by the size of their transitive descendant
// set under rel: everything a node blocks, directly or through a chain,
// counts as depending on it. Results are sorted by score descending, ties
// broken by node id. topN limits the result; zero or negative returns
// every node.
func (e *Engine) FindBottlenecks(rel string, topN int) []Bottleneck {
	nodes := e.store.Nodes()
	result := make([]Bottleneck, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, Bottleneck{
			ID:         n.ID,
			Dependents: len(e.Descendants(n.ID, rel, 0)),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Dependents != result[j].Dependents {
			return result[i].Dependents > result[j].Dependents
		}
		return result[i].ID < result[j].ID
	})

	if topN > 0 && len(result) > topN {
		result = result[:topN]
	}
	return result
}

// projection maps the store's nodes onto a gonum directed graph for one
// relationship. Edges to ids without a node record are left out.
type projection struct {
	g        *simple.DirectedGraph
	numID    map[string]int64
	nodeID   map[int64]string
	selfLoop string
}

func (e *Engine) project(rel string) *projection {
	p := &projection{
		g:      simple.NewDirectedGraph(),
		numID:  make(map[string]int64),
		nodeID: make(map[int64]string),
	}

	next := int64(0)
	for _, n := range e.store.Nodes() {
		p.numID[n.ID] = next
		p.nodeID[next] = n.ID
		p.g.AddNode(simple.Node(next))
		next++
	}

	for _, n := range e.store.Nodes() {
		for _, target := range e.store.Index().Outgoing(n.ID, rel) {
			if target == n.ID {
				p.selfLoop = n.ID
				continue
			}
			targetNum, ok := p.numID[target]
			if !ok {
				continue
			}
			sourceNum := p.numID[n.ID]
			if !p.g.HasEdgeFromTo(sourceNum, targetNum) {
				p.g.SetEdge(p.g.NewEdge(p.g.Node(sourceNum), p.g.Node(targetNum)))
			}
		}
	}

	return p
}

// checkAcyclic runs Tarjan SCC over the projection and converts the first
// offending component (or a self-loop) into a CycleError
func (p *projection) checkAcyclic(rel string) error {
	if p.selfLoop != "" {
		return &CycleError{Rel: rel, Members: []string{p.selfLoop}}
	}
	sccs := newSCCFinder(p.g).find()
	if len(sccs) == 0 {
		return nil
	}
	members := make([]string, 0, len(sccs[0]))
	for _, numID := range sccs[0] {
		members = append(members, p.nodeID[numID])
	}
	sort.Strings(members)
	return &CycleError{Rel: rel, Members: members}
}

// FindCriticalPath computes the longest dependency chain by edge count
// under rel. The graph must be acyclic under that relationship; a cycle
// fails with *CycleError up front rather than producing a wrong answer.
// Ties resolve toward nodes added earlier, so repeated runs on an
// unmodified graph return the same path.
func (e *Engine) FindCriticalPath(rel string) ([]string, error) {
	nodes := e.store.Nodes()
	if len(nodes) == 0 {
		return []string{}, nil
	}

	if err := e.project(rel).checkAcyclic(rel); err != nil {
		return nil, err
	}

	exists := make(map[string]bool, len(nodes))
	indegree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		exists[n.ID] = true
	}
	for _, n := range nodes {
		for _, target := range e.store.Index().Outgoing(n.ID, rel) {
			if exists[target] {
				indegree[target]++
			}
		}
	}

	// Kahn's ordering with a longest-distance relaxation. Seeding the
	// queue in insertion order keeps the result deterministic.
	dist := make(map[string]int, len(nodes))
	parent := make(map[string]string, len(nodes))
	var queue []string
	for _, n := range nodes {
		if indegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, target := range e.store.Index().Outgoing(current, rel) {
			if !exists[target] {
				continue
			}
			if dist[current]+1 > dist[target] {
				dist[target] = dist[current] + 1
				parent[target] = current
			}
			indegree[target]--
			if indegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	end := nodes[0].ID
	for _, n := range nodes {
		if dist[n.ID] > dist[end] {
			end = n.ID
		}
	}

	var reversed []string
	for id := end; ; {
		reversed = append(reversed, id)
		prev, ok := parent[id]
		if !ok {
			break
		}
		id = prev
	}
	path := make([]string, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path, nil
}
