// Package snapshot reads and writes the JSON snapshot format used to
// move node records in and out of a store. The engine itself defines no
// file format; this package is the parser/serializer collaborator.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/workgraph-io/workgraph/pkg/model"
)

// document is the top-level snapshot shape
type document struct {
	Nodes []*model.Node `json:"nodes"`
}

// Read decodes a snapshot into node records, preserving attribute order
// as it appears in the document
func Read(r io.Reader) ([]*model.Node, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("snapshot node %d has no id", i)
		}
		if n.Attrs == nil {
			n.Attrs = model.NewAttrMap()
		}
	}
	return doc.Nodes, nil
}

// ReadFile loads a snapshot from disk
func ReadFile(path string) ([]*model.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Write serializes node records as a snapshot
func Write(w io.Writer, nodes []*model.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Nodes: nodes}); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// WriteFile saves a snapshot to disk
func WriteFile(path string, nodes []*model.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := Write(f, nodes); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
