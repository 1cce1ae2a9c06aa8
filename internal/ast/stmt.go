package ast

import "github.com/aiawk/aiawk/internal/token"

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	BaseStmt
	Expr Expr
}

// PrintStmt represents a print or printf statement.
// Examples:
//   - print
//   - print $1, $2
//   - print "hello" > "file.txt"
//   - printf "%d\n", count
type PrintStmt struct {
	BaseStmt
	Printf   bool        // true for printf
	Args     []Expr      // May be empty for plain print
	Redirect token.Token // GREATER, APPEND, or ILLEGAL if none
	Dest     Expr        // Redirection destination file
}

// BlockStmt represents a { ... } block.
type BlockStmt struct {
	BaseStmt
	Stmts []Stmt
}

// IfStmt represents an if or if-else statement.
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else; *IfStmt for else-if chains
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body Stmt
}

// DoWhileStmt represents a do-while loop.
type DoWhileStmt struct {
	BaseStmt
	Body Stmt
	Cond Expr
}

// ForStmt represents a C-style for loop.
// Example: for (init; cond; post) { body }
type ForStmt struct {
	BaseStmt
	Init Stmt // may be nil
	Cond Expr // may be nil, means true
	Post Stmt // may be nil
	Body Stmt
}

// ForInStmt represents iteration over array keys.
// Example: for (key in array) { print key, array[key] }
type ForInStmt struct {
	BaseStmt
	Var   *Ident
	Array Expr
	Body  Stmt
}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	BaseStmt
}

// ContinueStmt jumps to the next iteration of the innermost loop.
type ContinueStmt struct {
	BaseStmt
}

// NextStmt aborts remaining rule evaluation for the current record and
// advances to the next one.
type NextStmt struct {
	BaseStmt
}

// NextFileStmt skips the rest of the current input file.
type NextFileStmt struct {
	BaseStmt
}

// ReturnStmt returns from the current function.
type ReturnStmt struct {
	BaseStmt
	Value Expr // nil for bare return
}

// ExitStmt aborts the main loop, runs END rules, and terminates.
type ExitStmt struct {
	BaseStmt
	Code Expr // nil defaults to 0
}

// DeleteStmt removes an array element or clears a whole array.
// Examples: delete arr[key], delete arr
type DeleteStmt struct {
	BaseStmt
	Array Expr   // always *Ident
	Index []Expr // empty to clear the entire array
}

// Ensure all statement types implement Stmt.
var (
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*PrintStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*DoWhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*ForInStmt)(nil)
	_ Stmt = (*BreakStmt)(nil)
	_ Stmt = (*ContinueStmt)(nil)
	_ Stmt = (*NextStmt)(nil)
	_ Stmt = (*NextFileStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)
	_ Stmt = (*ExitStmt)(nil)
	_ Stmt = (*DeleteStmt)(nil)
)
