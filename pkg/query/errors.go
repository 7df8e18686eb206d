package query

import "fmt"

// SyntaxError reports a malformed selector string. Pos is the byte offset
// where parsing failed.
type SyntaxError struct {
	Selector string
	Pos      int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("query: invalid selector %q at offset %d: %s", e.Selector, e.Pos, e.Msg)
}

// PatternError reports a regex pattern that failed to compile when a
// Matches clause was built
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("query: invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
