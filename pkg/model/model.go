package model

// Relationship names used between work items. Bidirectional semantics
// (e.g. "related") are modeled as two directed edges created together.
const (
	RelBlocks    = "blocks"
	RelBlockedBy = "blocked_by"
	RelRelated   = "related"
)

// EdgeRef is one entry in a node's own outgoing relationship list
type EdgeRef struct {
	Rel    string `json:"rel"`
	Target string `json:"target"`
}

// Edge is a fully qualified directed edge between two node ids
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Rel    string `json:"rel"`
}

// Node is an identified work item: a type discriminator, an ordered
// attribute map, and the authoritative list of outgoing edges.
type Node struct {
	ID    string    `json:"id"`
	Type  string    `json:"type"`
	Attrs *AttrMap  `json:"attributes"`
	Edges []EdgeRef `json:"edges,omitempty"`
}

// NewNode creates a node with an empty attribute map
func NewNode(id, nodeType string) *Node {
	return &Node{
		ID:    id,
		Type:  nodeType,
		Attrs: NewAttrMap(),
	}
}

// SetAttr stores an attribute value converted from a native Go value
func (n *Node) SetAttr(key string, value any) *Node {
	if n.Attrs == nil {
		n.Attrs = NewAttrMap()
	}
	n.Attrs.Set(key, FromAny(value))
	return n
}

// AddEdge appends an outgoing edge if it is not already present
func (n *Node) AddEdge(rel, target string) *Node {
	if !n.HasEdge(rel, target) {
		n.Edges = append(n.Edges, EdgeRef{Rel: rel, Target: target})
	}
	return n
}

// HasEdge reports whether the node has an outgoing edge (rel, target)
func (n *Node) HasEdge(rel, target string) bool {
	for _, e := range n.Edges {
		if e.Rel == rel && e.Target == target {
			return true
		}
	}
	return false
}

// RemoveEdge deletes the outgoing edge (rel, target) if present
func (n *Node) RemoveEdge(rel, target string) *Node {
	for i, e := range n.Edges {
		if e.Rel == rel && e.Target == target {
			n.Edges = append(n.Edges[:i], n.Edges[i+1:]...)
			break
		}
	}
	return n
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	out := &Node{
		ID:    n.ID,
		Type:  n.Type,
		Attrs: n.Attrs.Clone(),
	}
	if len(n.Edges) > 0 {
		out.Edges = make([]EdgeRef, len(n.Edges))
		copy(out.Edges, n.Edges)
	}
	return out
}
