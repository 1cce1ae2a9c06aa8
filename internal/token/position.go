package token

import "fmt"

// Position represents a position in source code.
type Position struct {
	// Line number (1-indexed).
	Line int
	// Column is the byte offset on the line (1-indexed).
	Column int
	// Offset is the byte offset from the start of source (0-indexed).
	Offset int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// NoPos is a zero Position used when position is unknown.
var NoPos = Position{}
