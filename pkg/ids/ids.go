// Package ids supplies node identifiers. The graph engine never
// generates ids itself; callers obtain them here (or bring their own)
// before handing a node to the store.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a globally unique node id of the form "<type>-<uuid>".
// An empty node type yields a bare uuid.
func New(nodeType string) string {
	id := uuid.New().String()
	nodeType = strings.TrimSpace(nodeType)
	if nodeType == "" {
		return id
	}
	return nodeType + "-" + id
}
