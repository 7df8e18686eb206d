package query

import (
	"strings"

	"github.com/workgraph-io/workgraph/pkg/graph"
	"github.com/workgraph-io/workgraph/pkg/model"
)

// selectorClause is one [key="value"] attribute clause
type selectorClause struct {
	key   string
	value string
}

// Select evaluates a restricted CSS attribute-selector string against the
// store's nodes. Clauses are concatenated with implicit AND, keys may be
// data-prefixed (the prefix is stripped) and may address nested
// attributes with dots. Matching compares the attribute's string-coerced
// value exactly. An empty selector matches every node; nodes are returned
// in the store's insertion order.
func Select(s *graph.Store, selector string) ([]*model.Node, error) {
	clauses, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Node, 0)
	for _, n := range s.Nodes() {
		if matchesClauses(n, clauses) {
			out = append(out, n)
		}
	}
	return out, nil
}

func matchesClauses(n *model.Node, clauses []selectorClause) bool {
	for _, c := range clauses {
		v, ok := n.Attrs.Resolve(c.key)
		if !ok {
			return false
		}
		s, ok := v.CoerceString()
		if !ok || s != c.value {
			return false
		}
	}
	return true
}

// parseSelector splits a selector into clauses. The grammar is a sequence
// of [key="value"] groups; single quotes are accepted as well.
func parseSelector(selector string) ([]selectorClause, error) {
	var clauses []selectorClause

	i := 0
	for i < len(selector) {
		// Skip whitespace between clauses
		if selector[i] == ' ' || selector[i] == '\t' {
			i++
			continue
		}
		if selector[i] != '[' {
			return nil, &SyntaxError{Selector: selector, Pos: i, Msg: "expected '['"}
		}
		i++

		keyStart := i
		for i < len(selector) && selector[i] != '=' && selector[i] != ']' {
			i++
		}
		if i >= len(selector) || selector[i] != '=' {
			return nil, &SyntaxError{Selector: selector, Pos: i, Msg: "expected '='"}
		}
		key := strings.TrimSpace(selector[keyStart:i])
		if key == "" {
			return nil, &SyntaxError{Selector: selector, Pos: keyStart, Msg: "empty attribute name"}
		}
		key = strings.TrimPrefix(key, "data-")
		i++

		if i >= len(selector) || (selector[i] != '"' && selector[i] != '\'') {
			return nil, &SyntaxError{Selector: selector, Pos: i, Msg: "expected quoted value"}
		}
		quote := selector[i]
		i++
		valStart := i
		for i < len(selector) && selector[i] != quote {
			i++
		}
		if i >= len(selector) {
			return nil, &SyntaxError{Selector: selector, Pos: i, Msg: "unterminated value"}
		}
		value := selector[valStart:i]
		i++

		if i >= len(selector) || selector[i] != ']' {
			return nil, &SyntaxError{Selector: selector, Pos: i, Msg: "expected ']'"}
		}
		i++

		clauses = append(clauses, selectorClause{key: key, value: value})
	}

	return clauses, nil
}
