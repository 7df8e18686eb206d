package query

import (
	"errors"
	"testing"

	"github.com/workgraph-io/workgraph/pkg/graph"
	"github.com/workgraph-io/workgraph/pkg/model"
)

func testStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.NewStore()

	add := func(n *model.Node) {
		if err := s.Add(n, false); err != nil {
			t.Fatalf("Failed to add %s: %v", n.ID, err)
		}
	}

	add(model.NewNode("t1", "task").
		SetAttr("status", "open").
		SetAttr("priority", 3).
		SetAttr("title", "Fix login flow"))
	add(model.NewNode("t2", "task").
		SetAttr("status", "blocked").
		SetAttr("priority", 8).
		SetAttr("title", "Migrate database"))
	add(model.NewNode("t3", "bug").
		SetAttr("status", "open").
		SetAttr("priority", 5).
		SetAttr("assignee", nil))

	props := model.NewAttrMap()
	props.Set("effort", model.Number(13))
	e1 := model.NewNode("e1", "epic").
		SetAttr("status", "open").
		SetAttr("title", "Auth revamp")
	e1.Attrs.Set("properties", model.Map(props))
	add(e1)

	return s
}

func ids(nodes []*model.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func assertIDs(t *testing.T, got []*model.Node, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("Expected %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, g)
		}
	}
}

func TestSelectSingleClause(t *testing.T) {
	s := testStore(t)

	nodes, err := Select(s, `[status="open"]`)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	assertIDs(t, nodes, "t1", "t3", "e1")
}

func TestSelectMultipleClauses(t *testing.T) {
	s := testStore(t)

	nodes, err := Select(s, `[status="open"][priority="3"]`)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	assertIDs(t, nodes, "t1")

	// Whitespace between clauses is allowed
	nodes, err = Select(s, `[status="open"] [priority="5"]`)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	assertIDs(t, nodes, "t3")
}

func TestSelectDataPrefix(t *testing.T) {
	s := testStore(t)

	nodes, err := Select(s, `[data-status="blocked"]`)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	assertIDs(t, nodes, "t2")
}

func TestSelectNestedPath(t *testing.T) {
	s := testStore(t)

	nodes, err := Select(s, `[properties.effort="13"]`)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	assertIDs(t, nodes, "e1")
}

func TestSelectSingleQuotes(t *testing.T) {
	s := testStore(t)

	nodes, err := Select(s, `[status='blocked']`)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	assertIDs(t, nodes, "t2")
}

func TestSelectEmptySelector(t *testing.T) {
	s := testStore(t)

	nodes, err := Select(s, "")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(nodes) != s.Len() {
		t.Errorf("Empty selector should match all %d nodes, got %d", s.Len(), len(nodes))
	}
}

func TestSelectNoMatch(t *testing.T) {
	s := testStore(t)

	nodes, err := Select(s, `[status="done"]`)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("Expected no matches, got %v", ids(nodes))
	}
}

func TestSelectSyntaxErrors(t *testing.T) {
	s := testStore(t)

	bad := []string{
		`status="open"`,
		`[status]`,
		`[="open"]`,
		`[status=open]`,
		`[status="open`,
		`[status="open"`,
	}
	for _, sel := range bad {
		_, err := Select(s, sel)
		if err == nil {
			t.Errorf("Expected syntax error for %q", sel)
			continue
		}
		var syn *SyntaxError
		if !errors.As(err, &syn) {
			t.Errorf("Expected *SyntaxError for %q, got %T", sel, err)
		}
	}
}
