// Package parser provides an AWK recursive descent parser.
package parser

import (
	"fmt"

	"github.com/aiawk/aiawk/internal/token"
)

// ParseError represents a syntax error encountered during parsing.
// It carries the source position where the error occurred; a lexer error
// (malformed token) surfaces through the same type.
type ParseError struct {
	Pos     token.Position
	Message string
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// ErrorList is a list of parse errors.
type ErrorList []*ParseError

// Error returns a combined error message for all errors.
func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
	}
}

// Err returns an error if the list is non-empty, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// errorf creates a ParseError at the given position.
func errorf(pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}
