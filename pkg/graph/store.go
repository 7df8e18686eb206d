package graph

import (
	"fmt"
	"sort"

	"github.com/workgraph-io/workgraph/pkg/model"
)

// Store owns the node collection and the sole EdgeIndex for it. It is
// designed for single-writer, caller-serialized use: mutation and reads
// must not be interleaved without external coordination, and nodes handed
// to the store must not be mutated afterwards (build a fresh record and
// call Update instead).
type Store struct {
	nodes   map[string]*model.Node
	seq     map[string]int
	nextSeq int
	index   *EdgeIndex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nodes: make(map[string]*model.Node),
		seq:   make(map[string]int),
		index: newEdgeIndex(),
	}
}

// NewStoreFromNodes builds a store from an ordered collection of already
// decoded node records, indexing all edges in one pass. A later record
// with a duplicate id overwrites the earlier one.
func NewStoreFromNodes(nodes []*model.Node) *Store {
	s := NewStore()
	for _, n := range nodes {
		_ = s.Add(n, true)
	}
	return s
}

// Add inserts a node and indexes all of its outgoing edges. Edge targets
// need not exist yet; a dangling target simply resolves to "no such node"
// on lookup. Without overwrite, an existing id fails with ErrDuplicateID.
func (s *Store) Add(n *model.Node, overwrite bool) error {
	if _, exists := s.nodes[n.ID]; exists {
		if !overwrite {
			return fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
		}
		// Overwrite keeps the node's insertion position and its incoming
		// edges; only the node record and its outgoing edges are replaced.
		return s.Update(n)
	}

	s.nodes[n.ID] = n
	s.seq[n.ID] = s.nextSeq
	s.nextSeq++
	for _, e := range n.Edges {
		s.index.add(n.ID, e.Rel, e.Target)
	}
	return nil
}

// Get returns the node for id, or false if absent
func (s *Store) Get(id string) (*model.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Update replaces an existing node, re-diffing its edge set against the
// stored version: index entries are removed for edges that disappeared
// and added for edges that are new, keeping the patch cost O(degree).
func (s *Store) Update(n *model.Node) error {
	old, exists := s.nodes[n.ID]
	if !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, n.ID)
	}

	oldSet := make(map[model.EdgeRef]struct{}, len(old.Edges))
	for _, e := range old.Edges {
		oldSet[e] = struct{}{}
	}
	newSet := make(map[model.EdgeRef]struct{}, len(n.Edges))
	for _, e := range n.Edges {
		newSet[e] = struct{}{}
	}

	for _, e := range old.Edges {
		if _, kept := newSet[e]; !kept {
			s.index.remove(n.ID, e.Rel, e.Target)
		}
	}
	for _, e := range n.Edges {
		if _, had := oldSet[e]; !had {
			s.index.add(n.ID, e.Rel, e.Target)
		}
	}

	s.nodes[n.ID] = n
	return nil
}

// Remove deletes a node, its outgoing index entries, and every index
// entry where it is the target. Source nodes still listing an edge to the
// removed node have that entry scrubbed from their edge list, so the
// index and the node edge lists stay in exact agreement. Only the node's
// own edge list and its incoming entries are scanned.
func (s *Store) Remove(id string) error {
	n, exists := s.nodes[id]
	if !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	for _, e := range n.Edges {
		s.index.remove(id, e.Rel, e.Target)
	}
	for _, in := range s.index.IncomingEdges(id, "") {
		s.index.remove(in.Source, in.Rel, id)
		if src, ok := s.nodes[in.Source]; ok {
			src.RemoveEdge(in.Rel, id)
		}
	}

	delete(s.nodes, id)
	delete(s.seq, id)
	return nil
}

// Len returns the number of nodes
func (s *Store) Len() int {
	return len(s.nodes)
}

// Nodes returns all nodes in insertion order
func (s *Store) Nodes() []*model.Node {
	out := make([]*model.Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out
}

// OutgoingEdges returns id's outgoing edges via the index. An empty rel
// matches any relationship; unknown ids yield an empty result.
func (s *Store) OutgoingEdges(id, rel string) []model.Edge {
	return s.index.OutgoingEdges(id, rel)
}

// IncomingEdges returns id's incoming edges via the index
func (s *Store) IncomingEdges(id, rel string) []model.Edge {
	return s.index.IncomingEdges(id, rel)
}

// Neighbors returns the distinct ids adjacent to id in either direction,
// outgoing first, each in adjacency insertion order
func (s *Store) Neighbors(id string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range s.index.Outgoing(id, "") {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	for _, t := range s.index.Incoming(id, "") {
		if _, dup := seen[t]; !dup {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// Index exposes the edge index for read-only inspection. Callers must not
// retain it across mutations.
func (s *Store) Index() *EdgeIndex {
	return s.index
}
