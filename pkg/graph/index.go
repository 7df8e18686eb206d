package graph

import (
	"github.com/workgraph-io/workgraph/pkg/model"
)

// adjacency holds one node's edges in one direction. The order slice
// preserves insertion order across all relationships; byRel gives direct
// access per relationship. For incoming adjacency the EdgeRef target is
// the counterpart node (the edge source).
type adjacency struct {
	order []model.EdgeRef
	byRel map[string][]string
}

func newAdjacency() *adjacency {
	return &adjacency{byRel: make(map[string][]string)}
}

func (a *adjacency) add(rel, counterpart string) {
	a.order = append(a.order, model.EdgeRef{Rel: rel, Target: counterpart})
	a.byRel[rel] = append(a.byRel[rel], counterpart)
}

func (a *adjacency) remove(rel, counterpart string) {
	for i, e := range a.order {
		if e.Rel == rel && e.Target == counterpart {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	targets := a.byRel[rel]
	for i, t := range targets {
		if t == counterpart {
			a.byRel[rel] = append(targets[:i], targets[i+1:]...)
			break
		}
	}
	if len(a.byRel[rel]) == 0 {
		delete(a.byRel, rel)
	}
}

func (a *adjacency) counterparts(rel string) []string {
	if a == nil {
		return nil
	}
	if rel == "" {
		out := make([]string, 0, len(a.order))
		for _, e := range a.order {
			out = append(out, e.Target)
		}
		return out
	}
	out := make([]string, len(a.byRel[rel]))
	copy(out, a.byRel[rel])
	return out
}

func (a *adjacency) refs(rel string) []model.EdgeRef {
	if a == nil {
		return nil
	}
	var out []model.EdgeRef
	for _, e := range a.order {
		if rel == "" || e.Rel == rel {
			out = append(out, e)
		}
	}
	return out
}

// EdgeIndex is the derived incoming/outgoing adjacency cache. It is owned
// exclusively by a Store and rebuilt incrementally on every mutation; the
// nodes' own edge lists remain the authoritative source.
type EdgeIndex struct {
	outgoing map[string]*adjacency
	incoming map[string]*adjacency
	edges    int
}

func newEdgeIndex() *EdgeIndex {
	return &EdgeIndex{
		outgoing: make(map[string]*adjacency),
		incoming: make(map[string]*adjacency),
	}
}

// add indexes the directed edge source -(rel)-> target
func (x *EdgeIndex) add(source, rel, target string) {
	out := x.outgoing[source]
	if out == nil {
		out = newAdjacency()
		x.outgoing[source] = out
	}
	out.add(rel, target)

	in := x.incoming[target]
	if in == nil {
		in = newAdjacency()
		x.incoming[target] = in
	}
	in.add(rel, source)

	x.edges++
}

// remove drops the directed edge source -(rel)-> target from both maps
func (x *EdgeIndex) remove(source, rel, target string) {
	if out := x.outgoing[source]; out != nil {
		out.remove(rel, target)
		if len(out.order) == 0 {
			delete(x.outgoing, source)
		}
	}
	if in := x.incoming[target]; in != nil {
		in.remove(rel, source)
		if len(in.order) == 0 {
			delete(x.incoming, target)
		}
	}
	x.edges--
}

// Outgoing returns the targets of id's outgoing edges in insertion order.
// An empty rel matches any relationship. Unknown ids yield an empty slice.
func (x *EdgeIndex) Outgoing(id, rel string) []string {
	return x.outgoing[id].counterparts(rel)
}

// Incoming returns the sources of id's incoming edges in insertion order
func (x *EdgeIndex) Incoming(id, rel string) []string {
	return x.incoming[id].counterparts(rel)
}

// OutgoingEdges returns id's outgoing edges as full (source, target, rel)
// records
func (x *EdgeIndex) OutgoingEdges(id, rel string) []model.Edge {
	refs := x.outgoing[id].refs(rel)
	out := make([]model.Edge, 0, len(refs))
	for _, r := range refs {
		out = append(out, model.Edge{Source: id, Target: r.Target, Rel: r.Rel})
	}
	return out
}

// IncomingEdges returns id's incoming edges as full records
func (x *EdgeIndex) IncomingEdges(id, rel string) []model.Edge {
	refs := x.incoming[id].refs(rel)
	out := make([]model.Edge, 0, len(refs))
	for _, r := range refs {
		out = append(out, model.Edge{Source: r.Target, Target: id, Rel: r.Rel})
	}
	return out
}

// EdgeCount returns the number of indexed edges
func (x *EdgeIndex) EdgeCount() int {
	return x.edges
}
