// Package ast defines the abstract syntax tree for AWK programs.
//
// Node hierarchy:
//
//	Node (interface)
//	├── Expr (interface) - expressions that produce values
//	│   ├── NumLit, StrLit, RegexLit - literals
//	│   ├── Ident, FieldExpr, IndexExpr - references
//	│   ├── BinaryExpr, UnaryExpr, TernaryExpr - operations
//	│   ├── CallExpr, BuiltinExpr, GetlineExpr - calls
//	│   └── InExpr, MatchExpr, ConcatExpr, AssignExpr, CommaExpr - special
//	├── Stmt (interface) - statements that perform actions
//	│   ├── ExprStmt, PrintStmt, IfStmt - basic
//	│   ├── WhileStmt, DoWhileStmt, ForStmt, ForInStmt - loops
//	│   ├── BreakStmt, ContinueStmt, NextStmt, NextFileStmt - control
//	│   ├── ReturnStmt, ExitStmt, DeleteStmt - other
//	│   └── BlockStmt - compound
//	└── Program, Rule, FuncDecl - top-level structures
//
// A Program is immutable once parsed; the interpreter never mutates it.
package ast

import "github.com/aiawk/aiawk/internal/token"

// Node is the interface implemented by all AST nodes. It provides source
// position information for error reporting.
type Node interface {
	// Pos returns the position of the first character belonging to this node.
	Pos() token.Position

	// End returns the position of the first character immediately after this node.
	End() token.Position
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode() // marker method to prevent external implementations
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode() // marker method to prevent external implementations
}

// BaseExpr provides position tracking, embedded in every expression node.
type BaseExpr struct {
	StartPos token.Position // Position of first token
	EndPos   token.Position // Position after last token
}

func (b *BaseExpr) Pos() token.Position { return b.StartPos }
func (b *BaseExpr) End() token.Position { return b.EndPos }
func (b *BaseExpr) exprNode()           {}

// BaseStmt provides position tracking, embedded in every statement node.
type BaseStmt struct {
	StartPos token.Position
	EndPos   token.Position
}

func (b *BaseStmt) Pos() token.Position { return b.StartPos }
func (b *BaseStmt) End() token.Position { return b.EndPos }
func (b *BaseStmt) stmtNode()           {}

// IsLValue returns true if the expression can be used as an lvalue
// (left side of assignment, target of ++/--, third arg to sub/gsub).
func IsLValue(e Expr) bool {
	switch e.(type) {
	case *Ident, *FieldExpr, *IndexExpr:
		return true
	default:
		return false
	}
}

// MakeBaseExpr creates a BaseExpr with the given positions.
func MakeBaseExpr(start, end token.Position) BaseExpr {
	return BaseExpr{StartPos: start, EndPos: end}
}

// MakeBaseStmt creates a BaseStmt with the given positions.
func MakeBaseStmt(start, end token.Position) BaseStmt {
	return BaseStmt{StartPos: start, EndPos: end}
}
