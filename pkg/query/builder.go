package query

import (
	"errors"
	"regexp"
	"strings"

	"github.com/workgraph-io/workgraph/pkg/graph"
	"github.com/workgraph-io/workgraph/pkg/model"
)

// Builder accumulates a predicate chain over a store's nodes. Nothing is
// evaluated until a terminal call (Execute, First, Count). Combinators
// have no precedence grouping: each And/Or combines the whole predicate
// accumulated so far with the new clause, strictly left to right.
//
//	query.NewBuilder(store).
//		Where("status", "blocked").
//		Or("priority").Gte(8).
//		Execute()
type Builder struct {
	store *graph.Store
	root  predicate

	// Pending clause state: key set by Where/And/Or/Not, consumed by the
	// operator method that completes the clause.
	key       string
	open      bool
	negate    bool
	pendingOr bool

	err error
}

// NewBuilder starts an empty query against the store
func NewBuilder(s *graph.Store) *Builder {
	return &Builder{store: s}
}

// Where starts a clause on an attribute key (dotted paths allowed). With
// a value argument the clause is an equality test; without one, the next
// comparison method completes it.
func (b *Builder) Where(key string, value ...any) *Builder {
	return b.startClause(false, false, key, value)
}

// And starts a clause combined with everything before it using AND
func (b *Builder) And(key string, value ...any) *Builder {
	return b.startClause(false, false, key, value)
}

// Or starts a clause combined with everything before it using OR
func (b *Builder) Or(key string, value ...any) *Builder {
	return b.startClause(true, false, key, value)
}

// Not starts a negated clause, AND-combined with everything before it
func (b *Builder) Not(key string, value ...any) *Builder {
	return b.startClause(false, true, key, value)
}

func (b *Builder) startClause(or, neg bool, key string, value []any) *Builder {
	if b.err != nil {
		return b
	}
	// A previous clause left without an operator is a presence test
	if b.open {
		b.apply(predPresent(b.key))
	}
	b.key = strings.TrimPrefix(key, "data-")
	b.open = true
	b.negate = neg
	b.pendingOr = or
	if len(value) > 0 {
		return b.Eq(value[0])
	}
	return b
}

// apply completes the open clause with p and folds it into the chain
func (b *Builder) apply(p predicate) *Builder {
	if b.err != nil {
		return b
	}
	if !b.open {
		b.err = errors.New("query: comparison without a preceding where clause")
		return b
	}
	if b.negate {
		inner := p
		p = func(n *model.Node) bool { return !inner(n) }
	}

	if b.root == nil {
		b.root = p
	} else {
		prev := b.root
		if b.pendingOr {
			b.root = func(n *model.Node) bool { return prev(n) || p(n) }
		} else {
			b.root = func(n *model.Node) bool { return prev(n) && p(n) }
		}
	}

	b.open = false
	b.negate = false
	b.pendingOr = false
	return b
}

// Eq completes the clause as an equality test
func (b *Builder) Eq(value any) *Builder {
	return b.apply(predEq(b.key, value))
}

// Gt matches numeric values strictly greater than value
func (b *Builder) Gt(value any) *Builder {
	return b.apply(predCmp(b.key, value, func(a, v float64) bool { return a > v }))
}

// Gte matches numeric values greater than or equal to value
func (b *Builder) Gte(value any) *Builder {
	return b.apply(predCmp(b.key, value, func(a, v float64) bool { return a >= v }))
}

// Lt matches numeric values strictly less than value
func (b *Builder) Lt(value any) *Builder {
	return b.apply(predCmp(b.key, value, func(a, v float64) bool { return a < v }))
}

// Lte matches numeric values less than or equal to value
func (b *Builder) Lte(value any) *Builder {
	return b.apply(predCmp(b.key, value, func(a, v float64) bool { return a <= v }))
}

// Between matches numeric values in [lo, hi], bounds inclusive
func (b *Builder) Between(lo, hi any) *Builder {
	return b.apply(predBetween(b.key, lo, hi))
}

// Contains matches string values containing sub
func (b *Builder) Contains(sub string) *Builder {
	return b.apply(predString(b.key, func(s string) bool { return strings.Contains(s, sub) }))
}

// IContains matches string values containing sub, case-insensitively
func (b *Builder) IContains(sub string) *Builder {
	return b.apply(predString(b.key, func(s string) bool { return containsFold(s, sub) }))
}

// StartsWith matches string values with the given prefix
func (b *Builder) StartsWith(prefix string) *Builder {
	return b.apply(predString(b.key, func(s string) bool { return strings.HasPrefix(s, prefix) }))
}

// EndsWith matches string values with the given suffix
func (b *Builder) EndsWith(suffix string) *Builder {
	return b.apply(predString(b.key, func(s string) bool { return strings.HasSuffix(s, suffix) }))
}

// Matches completes the clause with a regular expression test. The
// pattern is compiled once here; a bad pattern surfaces as a
// *PatternError from the terminal call.
func (b *Builder) Matches(pattern string) *Builder {
	if b.err != nil {
		return b
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		b.err = &PatternError{Pattern: pattern, Err: err}
		return b
	}
	return b.apply(predMatches(b.key, re))
}

// In matches values equal to any of the given literals
func (b *Builder) In(values ...any) *Builder {
	return b.apply(predIn(b.key, values))
}

// NotIn matches values equal to none of the given literals. Missing
// attributes do not match.
func (b *Builder) NotIn(values ...any) *Builder {
	return b.apply(predNotIn(b.key, values))
}

// IsNull matches nodes where the attribute is absent or null
func (b *Builder) IsNull() *Builder {
	return b.apply(predIsNull(b.key))
}

// finish closes any open clause and returns the evaluable predicate
func (b *Builder) finish() (predicate, error) {
	if b.open {
		b.apply(predPresent(b.key))
	}
	if b.err != nil {
		return nil, b.err
	}
	if b.root == nil {
		// No clauses at all: match everything, like the empty selector
		return func(*model.Node) bool { return true }, nil
	}
	return b.root, nil
}

// Execute returns all matching nodes in the store's insertion order
func (b *Builder) Execute() ([]*model.Node, error) {
	p, err := b.finish()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Node, 0)
	for _, n := range b.store.Nodes() {
		if p(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// First returns the first match, short-circuiting the scan, or nil when
// nothing matches
func (b *Builder) First() (*model.Node, error) {
	p, err := b.finish()
	if err != nil {
		return nil, err
	}
	for _, n := range b.store.Nodes() {
		if p(n) {
			return n, nil
		}
	}
	return nil, nil
}

// Count returns the number of matches without materializing them
func (b *Builder) Count() (int, error) {
	p, err := b.finish()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range b.store.Nodes() {
		if p(n) {
			count++
		}
	}
	return count, nil
}
