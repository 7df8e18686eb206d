package query

import (
	"regexp"
	"strings"

	"github.com/workgraph-io/workgraph/pkg/model"
)

// predicate is one evaluated node test. The builder composes these into a
// flat left-to-right chain.
type predicate func(*model.Node) bool

func resolveAttr(n *model.Node, key string) (model.Value, bool) {
	return n.Attrs.Resolve(key)
}

// valueEqual compares a stored value with a caller-supplied literal.
// Same-kind values compare directly; otherwise a numeric comparison is
// tried, then a string-coerced one.
func valueEqual(v model.Value, lit any) bool {
	lv := model.FromAny(lit)
	if v.Kind() == lv.Kind() {
		return v.Equal(lv)
	}
	if a, ok := v.CoerceNumber(); ok {
		if b, ok := lv.CoerceNumber(); ok {
			return a == b
		}
	}
	a, aok := v.CoerceString()
	b, bok := lv.CoerceString()
	return aok && bok && a == b
}

func predEq(key string, lit any) predicate {
	return func(n *model.Node) bool {
		v, ok := resolveAttr(n, key)
		return ok && valueEqual(v, lit)
	}
}

// predCmp covers the numeric comparisons. A stored value that does not
// coerce to a number simply never matches.
func predCmp(key string, lit any, op func(a, b float64) bool) predicate {
	litNum, litOK := model.FromAny(lit).CoerceNumber()
	return func(n *model.Node) bool {
		if !litOK {
			return false
		}
		v, ok := resolveAttr(n, key)
		if !ok {
			return false
		}
		f, ok := v.CoerceNumber()
		return ok && op(f, litNum)
	}
}

func predBetween(key string, lo, hi any) predicate {
	loNum, loOK := model.FromAny(lo).CoerceNumber()
	hiNum, hiOK := model.FromAny(hi).CoerceNumber()
	return func(n *model.Node) bool {
		if !loOK || !hiOK {
			return false
		}
		v, ok := resolveAttr(n, key)
		if !ok {
			return false
		}
		f, ok := v.CoerceNumber()
		return ok && f >= loNum && f <= hiNum
	}
}

// predString covers the string operators over the string-coerced value
func predString(key string, op func(s string) bool) predicate {
	return func(n *model.Node) bool {
		v, ok := resolveAttr(n, key)
		if !ok {
			return false
		}
		s, ok := v.CoerceString()
		return ok && op(s)
	}
}

func predMatches(key string, re *regexp.Regexp) predicate {
	return predString(key, re.MatchString)
}

func predIn(key string, values []any) predicate {
	return func(n *model.Node) bool {
		v, ok := resolveAttr(n, key)
		if !ok {
			return false
		}
		for _, lit := range values {
			if valueEqual(v, lit) {
				return true
			}
		}
		return false
	}
}

func predNotIn(key string, values []any) predicate {
	return func(n *model.Node) bool {
		v, ok := resolveAttr(n, key)
		if !ok {
			// Missing attributes never match comparison clauses
			return false
		}
		for _, lit := range values {
			if valueEqual(v, lit) {
				return false
			}
		}
		return true
	}
}

func predIsNull(key string) predicate {
	return func(n *model.Node) bool {
		v, ok := resolveAttr(n, key)
		return !ok || v.IsNull()
	}
}

// predPresent matches nodes where the attribute resolves to a non-null
// value. Used for a Where clause finished without an operator.
func predPresent(key string) predicate {
	return func(n *model.Node) bool {
		v, ok := resolveAttr(n, key)
		return ok && !v.IsNull()
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
