package web

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/workgraph-io/workgraph/pkg/graph"
	"github.com/workgraph-io/workgraph/pkg/logging"
	"github.com/workgraph-io/workgraph/pkg/pubsub"
	"github.com/workgraph-io/workgraph/pkg/traverse"
)

// Server exposes the graph engine over HTTP. The engine itself holds no
// lock, so the server owns the exclusive-mutation / shared-read
// discipline with one RWMutex around every store access.
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu     sync.RWMutex
	store  *graph.Store
	engine *traverse.Engine
}

// NewServer creates a web server around a store
func NewServer(store *graph.Store) *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// graph_status: replay only the current state to new subscribers
	ssePublisher.ConfigureTopic(pubsub.TopicGraphStatus, pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})

	// mutations: replay the recent history so dashboards can catch up
	ssePublisher.ConfigureTopic(pubsub.TopicMutations, pubsub.TopicConfig{
		BufferSize: 50,
		ReplayAll:  true,
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: ssePublisher,
		store:     store,
		engine:    traverse.New(store),
	}
	s.setupRoutes()
	return s
}

// SetStore swaps in a freshly loaded store (snapshot reload)
func (s *Server) SetStore(store *graph.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
	s.engine = traverse.New(store)
}

// PublishGraphStatus publishes a graph status event
func (s *Server) PublishGraphStatus(state, message, snapshot string) error {
	s.mu.RLock()
	status := pubsub.GraphStatus{
		State:    state,
		Message:  message,
		Snapshot: snapshot,
		Nodes:    s.store.Len(),
		Edges:    s.store.Index().EdgeCount(),
	}
	s.mu.RUnlock()
	return s.publisher.Publish(pubsub.TopicGraphStatus, state, status)
}

// publishMutation publishes a mutation event after a successful write
func (s *Server) publishMutation(op, nodeID string) {
	err := s.publisher.Publish(pubsub.TopicMutations, op, pubsub.Mutation{
		Op:     op,
		NodeID: nodeID,
	})
	if err != nil {
		logging.Warn("failed to publish mutation", "op", op, "nodeID", nodeID, "error", err)
	}
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/{topic}", s.handleSubscribe).Methods("GET")

	// Query and analysis routes - more specific routes must come first
	s.router.HandleFunc("/api/query", s.handleQuery).Methods("GET")
	s.router.HandleFunc("/api/path", s.handleShortestPath).Methods("GET")
	s.router.HandleFunc("/api/paths", s.handleAllPaths).Methods("GET")
	s.router.HandleFunc("/api/bottlenecks", s.handleBottlenecks).Methods("GET")
	s.router.HandleFunc("/api/critical-path", s.handleCriticalPath).Methods("GET")
	s.router.HandleFunc("/api/stats", s.handleStats).Methods("GET")

	// Node CRUD and per-node traversals
	s.router.HandleFunc("/api/nodes", s.handleListNodes).Methods("GET")
	s.router.HandleFunc("/api/nodes", s.handleAddNode).Methods("POST")
	s.router.HandleFunc("/api/nodes/{id}/ancestors", s.handleAncestors).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}/descendants", s.handleDescendants).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}/neighbors", s.handleNeighbors).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}/component", s.handleComponent).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}/edges", s.handleEdges).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}", s.handleGetNode).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}", s.handleUpdateNode).Methods("PUT")
	s.router.HandleFunc("/api/nodes/{id}", s.handleDeleteNode).Methods("DELETE")
}

// Handler returns the server's HTTP handler, wrapped with request logging
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

// Start runs the HTTP server on the given port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "addr", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	if topic != pubsub.TopicGraphStatus && topic != pubsub.TopicMutations {
		http.Error(w, fmt.Sprintf("unknown topic %q", topic), http.StatusNotFound)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*") // CORS support

	// Send initial comment to establish connection (Safari compatibility)
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	// Stream events
	for event := range sub.Events() {
		if err := pubsub.WriteSSE(w, event); err != nil {
			logging.WarnContext(r.Context(), "error writing SSE event", "error", err)
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}
