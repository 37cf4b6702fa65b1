package query

import (
	"fmt"

	"newsir/internal/domain"
)

// SyntaxError describes a malformed query. Pos is the byte offset of the
// offending token in the query string.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed query at offset %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return domain.ErrMalformedQuery
}

func syntaxError(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
