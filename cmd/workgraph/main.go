package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/workgraph-io/workgraph/pkg/config"
	"github.com/workgraph-io/workgraph/pkg/graph"
	"github.com/workgraph-io/workgraph/pkg/logging"
	"github.com/workgraph-io/workgraph/pkg/model"
	"github.com/workgraph-io/workgraph/pkg/output"
	"github.com/workgraph-io/workgraph/pkg/query"
	"github.com/workgraph-io/workgraph/pkg/snapshot"
	"github.com/workgraph-io/workgraph/pkg/traverse"
	"github.com/workgraph-io/workgraph/pkg/watcher"
	"github.com/workgraph-io/workgraph/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("workgraph", pflag.ExitOnError)
	flags.String("snapshot", "", "Path to a graph snapshot file to load")
	flags.Bool("web", false, "Start the web server instead of printing a report")
	flags.Int("port", 8080, "Port for the web server (only used with --web)")
	flags.Bool("watch", false, "Reload the graph when the snapshot file changes (only used with --web)")
	flags.String("query", "", "Attribute selector to run against the graph (e.g. '[data-status=\"blocked\"]')")
	flags.String("rel", model.RelBlocks, "Relationship used for bottleneck and critical-path analysis")
	flags.Int("top", 5, "Number of bottlenecks to report")
	flags.String("verbosity", "", "Log level: debug, info, warn, or error")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyVerbosity(cfg.Verbosity)

	store, err := loadStore(cfg.Snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.WebMode {
		runWebServer(cfg, store)
		return
	}

	if cfg.Query != "" {
		runQuery(store, cfg.Query)
		return
	}

	engine := traverse.New(store)
	critical, criticalErr := engine.FindCriticalPath(cfg.Rel)
	output.PrintGraphReport(
		cfg.Snapshot,
		store.Len(),
		store.Index().EdgeCount(),
		engine.FindBottlenecks(cfg.Rel, cfg.TopN),
		critical,
		criticalErr,
	)
}

func applyVerbosity(verbosity string) {
	switch verbosity {
	case "debug":
		logging.SetLevel(slog.LevelDebug)
	case "warn":
		logging.SetLevel(slog.LevelWarn)
	case "error":
		logging.SetLevel(slog.LevelError)
	case "", "info":
		// default level
	default:
		logging.Warn("unknown verbosity, using info", "verbosity", verbosity)
	}
}

func loadStore(path string) (*graph.Store, error) {
	if path == "" {
		return graph.NewStore(), nil
	}
	nodes, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	logging.Info("loaded snapshot", "path", path, "nodes", len(nodes))
	return graph.NewStoreFromNodes(nodes), nil
}

func runQuery(store *graph.Store, selector string) {
	nodes, err := query.Select(store, selector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, n := range nodes {
		fmt.Printf("%s\t%s\n", n.ID, n.Type)
	}
	logging.Info("query complete", "selector", selector, "matches", len(nodes))
}

func runWebServer(cfg *config.Config, store *graph.Store) {
	server := web.NewServer(store)

	if err := server.PublishGraphStatus("ready", "graph loaded", cfg.Snapshot); err != nil {
		logging.Warn("failed to publish status", "error", err)
	}

	if cfg.Watch && cfg.Snapshot != "" {
		go watchSnapshot(cfg.Snapshot, server)
	}

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("web server failed", "error", err)
	}
}

// watchSnapshot reloads the graph whenever the snapshot file changes
func watchSnapshot(path string, server *web.Server) {
	ctx := context.Background()

	sw, err := watcher.NewSnapshotWatcher(path)
	if err != nil {
		logging.Error("failed to create watcher", "error", err)
		return
	}
	if err := sw.Start(ctx); err != nil {
		logging.Error("failed to start watcher", "error", err)
		return
	}

	debouncer := watcher.NewDebouncer(sw.Events(), 200*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	for range debouncer.Output() {
		store, err := loadStore(path)
		if err != nil {
			logging.Error("snapshot reload failed", "path", path, "error", err)
			if pubErr := server.PublishGraphStatus("reload_failed", err.Error(), path); pubErr != nil {
				logging.Warn("failed to publish status", "error", pubErr)
			}
			continue
		}
		server.SetStore(store)
		logging.Info("graph reloaded", "path", path)
		if err := server.PublishGraphStatus("ready", "graph reloaded", path); err != nil {
			logging.Warn("failed to publish status", "error", err)
		}
	}
}
