package ast

import "github.com/aiawk/aiawk/internal/token"

// Program represents a complete AWK program:
//   - BEGIN blocks, executed in order before any input is read
//   - pattern-action rules, evaluated in order for each record
//   - END blocks, executed in order after the last record
//   - user-defined functions
type Program struct {
	Begin []*BlockStmt

	Rules []*Rule

	// Named EndBlocks to avoid conflict with the End() method.
	EndBlocks []*BlockStmt

	Functions []*FuncDecl

	StartPos token.Position
	EndPos   token.Position
}

func (p *Program) Pos() token.Position { return p.StartPos }
func (p *Program) End() token.Position { return p.EndPos }

// Rule represents a pattern-action rule.
// Examples:
//   - { print }                    -> Pattern is nil (matches all records)
//   - /regex/ { print }            -> Pattern is *RegexLit
//   - $1 > 100 { print $2 }        -> Pattern is *BinaryExpr
//   - /start/,/end/ { print }      -> range pattern (*CommaExpr)
type Rule struct {
	// Pattern gates the action. nil means match every record.
	Pattern Expr

	// Action executes when the pattern matches. nil means { print $0 }.
	Action *BlockStmt

	StartPos token.Position
	EndPos   token.Position
}

func (r *Rule) Pos() token.Position { return r.StartPos }
func (r *Rule) End() token.Position { return r.EndPos }

// FuncDecl represents a user-defined function declaration.
// Example: function add(a, b) { return a + b }
//
// Scalars pass by value and arrays by reference. By AWK convention local
// variables are declared as extra parameters the caller leaves unset.
type FuncDecl struct {
	Name    string
	Params  []string
	Body    *BlockStmt
	NamePos token.Position

	StartPos token.Position
	EndPos   token.Position
}

func (f *FuncDecl) Pos() token.Position { return f.StartPos }
func (f *FuncDecl) End() token.Position { return f.EndPos }

var (
	_ Node = (*Program)(nil)
	_ Node = (*Rule)(nil)
	_ Node = (*FuncDecl)(nil)
)
