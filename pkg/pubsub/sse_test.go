package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func publishMutations(t *testing.T, pub Publisher, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		err := pub.Publish(TopicMutations, "add", Mutation{Op: "add", NodeID: "n"})
		if err != nil {
			t.Fatalf("Failed to publish event %d: %v", i, err)
		}
	}
}

func TestEventBuffer(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	// Buffer size 3, replay all
	pub.ConfigureTopic(TopicMutations, TopicConfig{
		BufferSize: 3,
		ReplayAll:  true,
	})

	publishMutations(t, pub, 5)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, TopicMutations)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	// Should receive the last 3 of 5 events (versions 3, 4, 5)
	receivedCount := 0
	for receivedCount < 3 {
		select {
		case event := <-sub.Events():
			receivedCount++
			expectedVersion := receivedCount + 2
			if event.Version != expectedVersion {
				t.Errorf("Expected version %d, got %d", expectedVersion, event.Version)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for event %d", receivedCount+1)
		}
	}
}

func TestReplayLastOnly(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic(TopicGraphStatus, TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	for _, state := range []string{"loading", "loading", "ready"} {
		err := pub.Publish(TopicGraphStatus, state, GraphStatus{State: state})
		if err != nil {
			t.Fatalf("Failed to publish %s: %v", state, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, TopicGraphStatus)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	// Only the most recent status should be replayed
	select {
	case event := <-sub.Events():
		if event.Version != 3 {
			t.Errorf("Expected version 3, got %d", event.Version)
		}
		var status GraphStatus
		if err := json.Unmarshal(event.Data, &status); err != nil {
			t.Fatalf("Failed to decode status: %v", err)
		}
		if status.State != "ready" {
			t.Errorf("Expected state ready, got %q", status.State)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}

	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected extra event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
		// Good, no extra events
	}
}

func TestNoBuffer(t *testing.T) {
	pub := NewSSEPublisher()
	defer pub.Close()

	pub.ConfigureTopic(TopicMutations, TopicConfig{
		BufferSize: 0,
		ReplayAll:  false,
	})

	// Events published before anyone subscribes are dropped
	publishMutations(t, pub, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	sub, err := pub.Subscribe(ctx, TopicMutations)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case event := <-sub.Events():
		t.Errorf("Received unexpected replayed event version %d", event.Version)
	case <-time.After(50 * time.Millisecond):
		// Good, no events replayed
	}

	// A live publish still reaches the subscriber
	err = pub.Publish(TopicMutations, "remove", Mutation{Op: "remove", NodeID: "n"})
	if err != nil {
		t.Fatalf("Failed to publish new event: %v", err)
	}

	select {
	case event := <-sub.Events():
		if event.Version != 4 {
			t.Errorf("Expected version 4, got %d", event.Version)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for new event")
	}
}
