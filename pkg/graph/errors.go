package graph

import "errors"

var (
	// ErrDuplicateID is returned by Add when a node with the same id
	// already exists and overwrite was not requested
	ErrDuplicateID = errors.New("graph: duplicate node id")

	// ErrNotFound is returned by Update and Remove for an unknown id
	ErrNotFound = errors.New("graph: node not found")
)
