package traverse

import (
	"errors"
	"testing"

	"github.com/workgraph-io/workgraph/pkg/graph"
	"github.com/workgraph-io/workgraph/pkg/model"
)

func TestFindCriticalPath(t *testing.T) {
	e := New(diamondStore(t))

	path, err := e.FindCriticalPath(model.RelBlocks)
	if err != nil {
		t.Fatalf("FindCriticalPath failed: %v", err)
	}
	// The longest chain runs through b, not the direct a -> c edge
	assertStrings(t, path, "a", "b", "c")
}

func TestFindCriticalPathEmptyStore(t *testing.T) {
	e := New(graph.NewStore())

	path, err := e.FindCriticalPath(model.RelBlocks)
	if err != nil {
		t.Fatalf("FindCriticalPath failed: %v", err)
	}
	if path == nil || len(path) != 0 {
		t.Errorf("Expected empty path, got %v", path)
	}
}

func TestFindCriticalPathSingleNode(t *testing.T) {
	s := graph.NewStore()
	s.Add(model.NewNode("only", "task"), false)
	e := New(s)

	path, err := e.FindCriticalPath(model.RelBlocks)
	if err != nil {
		t.Fatalf("FindCriticalPath failed: %v", err)
	}
	assertStrings(t, path, "only")
}

func TestFindCriticalPathIgnoresOtherRels(t *testing.T) {
	s := graph.NewStore()
	s.Add(model.NewNode("a", "task").AddEdge(model.RelBlocks, "b").AddEdge(model.RelRelated, "c"), false)
	s.Add(model.NewNode("b", "task"), false)
	s.Add(model.NewNode("c", "task").AddEdge(model.RelRelated, "a"), false)
	e := New(s)

	// The related cycle a <-> c is invisible under blocks
	path, err := e.FindCriticalPath(model.RelBlocks)
	if err != nil {
		t.Fatalf("FindCriticalPath failed: %v", err)
	}
	assertStrings(t, path, "a", "b")
}

func TestFindCriticalPathCycle(t *testing.T) {
	s := graph.NewStore()
	s.Add(model.NewNode("a", "task").AddEdge(model.RelBlocks, "b"), false)
	s.Add(model.NewNode("b", "task").AddEdge(model.RelBlocks, "c"), false)
	s.Add(model.NewNode("c", "task").AddEdge(model.RelBlocks, "a"), false)
	e := New(s)

	_, err := e.FindCriticalPath(model.RelBlocks)
	if err == nil {
		t.Fatal("Expected cycle error")
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *CycleError, got %T", err)
	}
	assertStrings(t, ce.Members, "a", "b", "c")
}

func TestFindCriticalPathSelfLoop(t *testing.T) {
	s := graph.NewStore()
	s.Add(model.NewNode("a", "task").AddEdge(model.RelBlocks, "a"), false)
	e := New(s)

	_, err := e.FindCriticalPath(model.RelBlocks)
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *CycleError for self loop, got %v", err)
	}
	assertStrings(t, ce.Members, "a")
}

func TestFindCriticalPathDanglingTarget(t *testing.T) {
	s := graph.NewStore()
	s.Add(model.NewNode("a", "task").AddEdge(model.RelBlocks, "missing"), false)
	s.Add(model.NewNode("b", "task"), false)
	e := New(s)

	// Edges to ids without a node record do not count
	path, err := e.FindCriticalPath(model.RelBlocks)
	if err != nil {
		t.Fatalf("FindCriticalPath failed: %v", err)
	}
	assertStrings(t, path, "a")
}

func TestFindBottlenecks(t *testing.T) {
	// hub blocks x, y, z; x blocks y
	s := graph.NewStore()
	s.Add(model.NewNode("hub", "task").
		AddEdge(model.RelBlocks, "x").
		AddEdge(model.RelBlocks, "y").
		AddEdge(model.RelBlocks, "z"), false)
	s.Add(model.NewNode("x", "task").AddEdge(model.RelBlocks, "y"), false)
	s.Add(model.NewNode("y", "task"), false)
	s.Add(model.NewNode("z", "task"), false)
	e := New(s)

	got := e.FindBottlenecks(model.RelBlocks, 0)
	if len(got) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(got))
	}
	if got[0].ID != "hub" || got[0].Dependents != 3 {
		t.Errorf("Expected hub with 3 dependents first, got %+v", got[0])
	}
	if got[1].ID != "x" || got[1].Dependents != 1 {
		t.Errorf("Expected x with 1 dependent second, got %+v", got[1])
	}
	// Zero-score ties break on id
	if got[2].ID != "y" || got[3].ID != "z" {
		t.Errorf("Expected y, z tie order, got %+v", got[2:])
	}
}

func TestFindBottlenecksTopN(t *testing.T) {
	e := New(diamondStore(t))

	got := e.FindBottlenecks(model.RelBlocks, 1)
	if len(got) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(got))
	}
	if got[0].ID != "a" || got[0].Dependents != 2 {
		t.Errorf("Expected a with 2 dependents, got %+v", got[0])
	}
}
