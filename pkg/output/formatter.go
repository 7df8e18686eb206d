package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/workgraph-io/workgraph/pkg/traverse"
)

// PrintGraphReport prints a nicely formatted graph analysis report with colors
func PrintGraphReport(snapshot string, nodes, edges int, bottlenecks []traverse.Bottleneck, critical []string, criticalErr error) {
	// Color definitions
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	// Header
	bold.Println("Workgraph - Dependency Report")
	bold.Println("=============================")
	if snapshot != "" {
		fmt.Printf("Snapshot: %s\n", snapshot)
	}
	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Edges: %d\n", edges)
	fmt.Println()

	// Bottlenecks ranked by transitive dependents
	if len(bottlenecks) > 0 {
		bold.Println("BOTTLENECKS:")
		for _, b := range bottlenecks {
			if b.Dependents == 0 {
				continue
			}
			yellow.Printf("  %s\n", b.ID)
			cyan.Printf("    Dependents: %d\n", b.Dependents)
		}
		fmt.Println()
	}

	// Critical path
	var cycleErr *traverse.CycleError
	switch {
	case errors.As(criticalErr, &cycleErr):
		red.Println("CYCLE DETECTED:")
		yellow.Printf("  %s\n", strings.Join(cycleErr.Members, " -> "))
		fmt.Println("  Break the cycle to compute a critical path")
	case criticalErr != nil:
		red.Printf("Critical path failed: %v\n", criticalErr)
	case len(critical) > 1:
		bold.Println("CRITICAL PATH:")
		green.Printf("  %s\n", strings.Join(critical, " -> "))
		fmt.Printf("  Length: %d edge(s)\n", len(critical)-1)
	default:
		green.Println("No dependency chains found")
	}
}
