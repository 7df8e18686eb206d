package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/workgraph-io/workgraph/pkg/graph"
	"github.com/workgraph-io/workgraph/pkg/ids"
	"github.com/workgraph-io/workgraph/pkg/model"
	"github.com/workgraph-io/workgraph/pkg/query"
	"github.com/workgraph-io/workgraph/pkg/traverse"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var syntaxErr *query.SyntaxError
	var cycleErr *traverse.CycleError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, graph.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, graph.ErrDuplicateID):
		status = http.StatusConflict
	case errors.As(err, &syntaxErr):
		status = http.StatusBadRequest
	case errors.As(err, &cycleErr):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// intParam parses an integer query parameter, falling back to def when
// absent or malformed
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	nodes := s.store.Nodes()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var n model.Node
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if n.ID == "" {
		n.ID = ids.New(n.Type)
	}
	if n.Attrs == nil {
		n.Attrs = model.NewAttrMap()
	}
	overwrite := r.URL.Query().Get("overwrite") == "true"

	s.mu.Lock()
	err := s.store.Add(&n, overwrite)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	s.publishMutation("add", n.ID)
	writeJSON(w, http.StatusCreated, &n)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	n, ok := s.store.Get(id)
	s.mu.RUnlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such node"})
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var n model.Node
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	n.ID = id
	if n.Attrs == nil {
		n.Attrs = model.NewAttrMap()
	}

	s.mu.Lock()
	err := s.store.Update(&n)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	s.publishMutation("update", id)
	writeJSON(w, http.StatusOK, &n)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	err := s.store.Remove(id)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	s.publishMutation("remove", id)
	writeJSON(w, http.StatusOK, map[string]string{"removed": id})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	selector := r.URL.Query().Get("selector")

	s.mu.RLock()
	nodes, err := query.Select(s.store, selector)
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleAncestors(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rel := r.URL.Query().Get("rel")
	depth := intParam(r, "depth", 0)

	s.mu.RLock()
	result := s.engine.Ancestors(id, rel, depth)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDescendants(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rel := r.URL.Query().Get("rel")
	depth := intParam(r, "depth", 0)

	s.mu.RLock()
	result := s.engine.Descendants(id, rel, depth)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.RLock()
	result := s.store.Neighbors(id)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rel := r.URL.Query().Get("rel")

	s.mu.RLock()
	result := s.engine.ConnectedComponent(id, rel)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, result)
}

// edgesResponse pairs a node's indexed edges in both directions
type edgesResponse struct {
	Outgoing []model.Edge `json:"outgoing"`
	Incoming []model.Edge `json:"incoming"`
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rel := r.URL.Query().Get("rel")

	s.mu.RLock()
	resp := edgesResponse{
		Outgoing: s.store.OutgoingEdges(id, rel),
		Incoming: s.store.IncomingEdges(id, rel),
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	rel := r.URL.Query().Get("rel")

	s.mu.RLock()
	path := s.engine.ShortestPath(from, to, rel)
	s.mu.RUnlock()
	if path == nil {
		path = []string{}
	}
	writeJSON(w, http.StatusOK, path)
}

func (s *Server) handleAllPaths(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	rel := r.URL.Query().Get("rel")
	maxLen := intParam(r, "max", 0)

	s.mu.RLock()
	paths := s.engine.AllPaths(from, to, rel, maxLen)
	s.mu.RUnlock()
	if paths == nil {
		paths = [][]string{}
	}
	writeJSON(w, http.StatusOK, paths)
}

func (s *Server) handleBottlenecks(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("rel")
	if rel == "" {
		rel = model.RelBlocks
	}
	topN := intParam(r, "top", 0)

	s.mu.RLock()
	result := s.engine.FindBottlenecks(rel, topN)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCriticalPath(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("rel")
	if rel == "" {
		rel = model.RelBlocks
	}

	s.mu.RLock()
	path, err := s.engine.FindCriticalPath(rel)
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, path)
}

// statsResponse summarizes the loaded graph
type statsResponse struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := statsResponse{
		Nodes: s.store.Len(),
		Edges: s.store.Index().EdgeCount(),
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}
