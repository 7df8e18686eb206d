package pubsub

import (
	"context"
	"encoding/json"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "graph_status", "mutations")
	Type    string          `json:"type"`    // Event type (e.g., "loading", "ready", "add", "update", "remove")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// Topics published by the graph server
const (
	TopicGraphStatus = "graph_status"
	TopicMutations   = "mutations"
)

// GraphStatus reports the loaded graph's state to dashboard clients
type GraphStatus struct {
	State    string `json:"state"`    // loading, ready, reload_failed
	Message  string `json:"message"`  // Human-readable status message
	Snapshot string `json:"snapshot"` // Snapshot path the graph was loaded from
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
}

// Mutation describes one applied graph mutation
type Mutation struct {
	Op     string `json:"op"` // add, update, remove
	NodeID string `json:"node_id"`
}
