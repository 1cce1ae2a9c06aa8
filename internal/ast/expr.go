package ast

import "github.com/aiawk/aiawk/internal/token"

// NumLit represents a numeric literal.
// Examples: 42, 3.14, 1e10, 0x1F
type NumLit struct {
	BaseExpr
	Value float64 // Parsed numeric value
	Raw   string  // Original source text
}

// StrLit represents a string literal with escapes already processed.
type StrLit struct {
	BaseExpr
	Value string
}

// RegexLit represents a regex literal, without the delimiting slashes.
type RegexLit struct {
	BaseExpr
	Pattern string
}

// Ident represents a variable name.
// Examples: x, NF, FILENAME
type Ident struct {
	BaseExpr
	Name string
}

// FieldExpr represents a field reference.
// Examples: $0, $1, $NF, $(i+1)
type FieldExpr struct {
	BaseExpr
	Index Expr
}

// IndexExpr represents an array subscript expression.
// Examples: arr[key], arr[i,j]
type IndexExpr struct {
	BaseExpr
	Array Expr   // Array expression (always *Ident)
	Index []Expr // Subscript expressions (multiple join with SUBSEP)
}

// BinaryExpr represents a binary operation.
// Examples: a + b, x == y
type BinaryExpr struct {
	BaseExpr
	Left  Expr
	Op    token.Token
	Right Expr
}

// UnaryExpr represents a unary operation.
// Examples: -x, !flag, ++i, i++
type UnaryExpr struct {
	BaseExpr
	Op   token.Token // SUB, ADD, NOT, INCR, DECR
	Expr Expr
	Post bool // true for postfix (i++), false for prefix (++i)
}

// TernaryExpr represents cond ? then : else.
type TernaryExpr struct {
	BaseExpr
	Cond Expr
	Then Expr
	Else Expr
}

// AssignExpr represents an assignment expression. Assignment produces the
// assigned value, so it can be chained and embedded.
// Examples: x = 1, arr[k] = v, $1 = "new", x += 2
type AssignExpr struct {
	BaseExpr
	Left  Expr        // Target (must be an lvalue)
	Op    token.Token // ASSIGN, ADD_ASSIGN, etc.
	Right Expr
}

// ConcatExpr represents implicit string concatenation of two or more
// adjacent expressions. There is no concatenation token; the parser
// detects adjacency contextually.
type ConcatExpr struct {
	BaseExpr
	Exprs []Expr
}

// GroupExpr represents a parenthesized expression, preserved so the
// printer can reproduce explicit grouping.
type GroupExpr struct {
	BaseExpr
	Expr Expr
}

// CallExpr represents a call to a user-defined or foreign function.
// The parser cannot tell the two apart; the evaluator resolves the name
// at call time.
type CallExpr struct {
	BaseExpr
	Name string
	Args []Expr
}

// BuiltinExpr represents a built-in function call.
// Examples: length($0), substr(s, 1, 5), split(s, arr, ":")
type BuiltinExpr struct {
	BaseExpr
	Func token.Token // F_LENGTH, F_SUBSTR, etc.
	Args []Expr
}

// GetlineExpr represents a getline expression.
// Forms:
//   - getline              -> read next record into $0
//   - getline var          -> read next record into var
//   - getline < file       -> read a line from file into $0
//   - getline var < file   -> read a line from file into var
type GetlineExpr struct {
	BaseExpr
	Target Expr // Variable to read into (nil means $0)
	File   Expr // File to read from (nil means the main input)
}

// InExpr represents an array membership test.
// Examples: key in arr, (i,j) in arr
type InExpr struct {
	BaseExpr
	Index []Expr
	Array Expr
}

// MatchExpr represents a regex match expression.
// Examples: str ~ /re/, str !~ pat
type MatchExpr struct {
	BaseExpr
	Expr    Expr        // String expression to match
	Op      token.Token // MATCH (~) or NOT_MATCH (!~)
	Pattern Expr        // RegexLit or a dynamic expression
}

// CommaExpr represents a range pattern: /start/,/end/.
type CommaExpr struct {
	BaseExpr
	Left  Expr
	Right Expr
}

// Ensure all expression types implement Expr.
var (
	_ Expr = (*NumLit)(nil)
	_ Expr = (*StrLit)(nil)
	_ Expr = (*RegexLit)(nil)
	_ Expr = (*Ident)(nil)
	_ Expr = (*FieldExpr)(nil)
	_ Expr = (*IndexExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*TernaryExpr)(nil)
	_ Expr = (*AssignExpr)(nil)
	_ Expr = (*ConcatExpr)(nil)
	_ Expr = (*GroupExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*BuiltinExpr)(nil)
	_ Expr = (*GetlineExpr)(nil)
	_ Expr = (*InExpr)(nil)
	_ Expr = (*MatchExpr)(nil)
	_ Expr = (*CommaExpr)(nil)
)
