package query

import (
	"errors"
	"testing"
)

func TestBuilderWhereEq(t *testing.T) {
	s := testStore(t)

	nodes, err := NewBuilder(s).Where("status", "blocked").Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t2")
}

func TestBuilderWherePresence(t *testing.T) {
	s := testStore(t)

	// Bare key with no comparison is a presence test
	nodes, err := NewBuilder(s).Where("priority").Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t1", "t2", "t3")
}

func TestBuilderNumericComparisons(t *testing.T) {
	s := testStore(t)

	nodes, err := NewBuilder(s).Where("priority").Gte(5).Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t2", "t3")

	nodes, err = NewBuilder(s).Where("priority").Lt(5).Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t1")

	nodes, err = NewBuilder(s).Where("priority").Between(4, 8).Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t2", "t3")
}

func TestBuilderCombinatorsLeftToRight(t *testing.T) {
	s := testStore(t)

	// (status=open AND priority>=5) OR type-less title prefix
	nodes, err := NewBuilder(s).
		Where("status", "open").
		And("priority").Gte(5).
		Or("title").StartsWith("Migrate").
		Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t2", "t3")
}

func TestBuilderNot(t *testing.T) {
	s := testStore(t)

	nodes, err := NewBuilder(s).Not("status", "open").Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t2")
}

func TestBuilderStringOperators(t *testing.T) {
	s := testStore(t)

	nodes, err := NewBuilder(s).Where("title").Contains("login").Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t1")

	nodes, err = NewBuilder(s).Where("title").IContains("LOGIN").Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t1")

	nodes, err = NewBuilder(s).Where("title").EndsWith("database").Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t2")
}

func TestBuilderMatches(t *testing.T) {
	s := testStore(t)

	nodes, err := NewBuilder(s).Where("title").Matches(`^(Fix|Migrate)`).Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t1", "t2")
}

func TestBuilderMatchesBadPattern(t *testing.T) {
	s := testStore(t)

	_, err := NewBuilder(s).Where("title").Matches(`(unclosed`).Execute()
	if err == nil {
		t.Fatal("Expected error for invalid pattern")
	}
	var pe *PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *PatternError, got %T", err)
	}
	if pe.Pattern != `(unclosed` {
		t.Errorf("Expected pattern recorded, got %q", pe.Pattern)
	}
}

func TestBuilderInNotIn(t *testing.T) {
	s := testStore(t)

	nodes, err := NewBuilder(s).Where("status").In("blocked", "done").Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t2")

	// Missing attribute does not match NotIn
	nodes, err = NewBuilder(s).Where("priority").NotIn(3, 8).Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t3")
}

func TestBuilderIsNull(t *testing.T) {
	s := testStore(t)

	// Matches both explicit null and absent attributes
	nodes, err := NewBuilder(s).Where("assignee").IsNull().Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t1", "t2", "t3", "e1")
}

func TestBuilderNestedKeyAndDataPrefix(t *testing.T) {
	s := testStore(t)

	nodes, err := NewBuilder(s).Where("properties.effort").Gt(10).Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "e1")

	nodes, err = NewBuilder(s).Where("data-status", "blocked").Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	assertIDs(t, nodes, "t2")
}

func TestBuilderFirstAndCount(t *testing.T) {
	s := testStore(t)

	n, err := NewBuilder(s).Where("status", "open").First()
	if err != nil {
		t.Fatalf("First failed: %v", err)
	}
	if n == nil || n.ID != "t1" {
		t.Errorf("Expected first match t1, got %v", n)
	}

	n, err = NewBuilder(s).Where("status", "done").First()
	if err != nil {
		t.Fatalf("First failed: %v", err)
	}
	if n != nil {
		t.Errorf("Expected nil for no match, got %v", n.ID)
	}

	count, err := NewBuilder(s).Where("status", "open").Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
}

func TestBuilderEmptyMatchesAll(t *testing.T) {
	s := testStore(t)

	count, err := NewBuilder(s).Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != s.Len() {
		t.Errorf("Empty builder should match all %d nodes, got %d", s.Len(), count)
	}
}

func TestBuilderSelectorEquivalence(t *testing.T) {
	s := testStore(t)

	fromSelector, err := Select(s, `[status="open"][priority="5"]`)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	fromBuilder, err := NewBuilder(s).Where("status", "open").And("priority", 5).Execute()
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(fromSelector) != len(fromBuilder) {
		t.Fatalf("Selector and builder disagree: %v vs %v", ids(fromSelector), ids(fromBuilder))
	}
	for i := range fromSelector {
		if fromSelector[i].ID != fromBuilder[i].ID {
			t.Fatalf("Selector and builder disagree: %v vs %v", ids(fromSelector), ids(fromBuilder))
		}
	}
}
