package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/workgraph-io/workgraph/pkg/logging"
)

// ChangeEvent represents a batch of snapshot file changes
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// SnapshotWatcher watches a snapshot file for changes so the graph can be
// reloaded. The containing directory is watched rather than the file
// itself, since editors typically replace the file on save.
type SnapshotWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ChangeEvent
}

// NewSnapshotWatcher creates a watcher for the given snapshot path
func NewSnapshotWatcher(path string) (*SnapshotWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	sw := &SnapshotWatcher{
		watcher: watcher,
		path:    filepath.Clean(path),
		events:  make(chan ChangeEvent, 100),
	}

	return sw, nil
}

// Start begins watching for snapshot changes
func (sw *SnapshotWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(sw.path)
	if err := sw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info("started watching snapshot", "path", sw.path)

	go sw.processEvents(ctx)

	return nil
}

// processEvents filters directory events down to the snapshot file and
// batches rapid successive writes into one ChangeEvent
func (sw *SnapshotWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) > 0 {
			sw.events <- ChangeEvent{
				Paths:     pending,
				Timestamp: time.Now(),
			}
			pending = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			sw.watcher.Close()
			close(sw.events)
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != sw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (sw *SnapshotWatcher) Events() <-chan ChangeEvent {
	return sw.events
}

// Stop stops the file watcher
func (sw *SnapshotWatcher) Stop() error {
	return sw.watcher.Close()
}
