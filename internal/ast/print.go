package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/aiawk/aiawk/internal/token"
)

// Printer writes an indented, human-readable representation of AST nodes,
// used by the CLI's -d flag.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Fprint writes a dump of node to w.
func Fprint(w io.Writer, node Node) error {
	return NewPrinter(w).Print(node)
}

// Print writes a dump of the node to the printer's writer.
func (p *Printer) Print(node Node) error {
	p.printNode(node)
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s"+format+"\n",
		append([]any{strings.Repeat("  ", p.indent)}, args...)...)
}

func (p *Printer) nested(fn func()) {
	p.indent++
	fn()
	p.indent--
}

func (p *Printer) printNode(node Node) {
	switch n := node.(type) {
	case *Program:
		for _, b := range n.Begin {
			p.printf("BEGIN")
			p.nested(func() { p.printNode(b) })
		}
		for _, r := range n.Rules {
			p.printNode(r)
		}
		for _, b := range n.EndBlocks {
			p.printf("END")
			p.nested(func() { p.printNode(b) })
		}
		for _, f := range n.Functions {
			p.printf("function %s(%s)", f.Name, strings.Join(f.Params, ", "))
			p.nested(func() { p.printNode(f.Body) })
		}

	case *Rule:
		switch {
		case n.Pattern == nil:
			p.printf("rule (always)")
		default:
			p.printf("rule")
			p.nested(func() { p.printNode(n.Pattern) })
		}
		if n.Action == nil {
			p.nested(func() { p.printf("default action: print $0") })
		} else {
			p.nested(func() { p.printNode(n.Action) })
		}

	case *BlockStmt:
		p.printf("block")
		p.nested(func() {
			for _, s := range n.Stmts {
				p.printNode(s)
			}
		})

	case *ExprStmt:
		p.printf("expr-stmt")
		p.nested(func() { p.printNode(n.Expr) })

	case *PrintStmt:
		name := "print"
		if n.Printf {
			name = "printf"
		}
		if n.Redirect != token.ILLEGAL {
			name += " redirect " + opText(n.Redirect)
		}
		p.printf("%s", name)
		p.nested(func() {
			for _, a := range n.Args {
				p.printNode(a)
			}
			if n.Dest != nil {
				p.printNode(n.Dest)
			}
		})

	case *IfStmt:
		p.printf("if")
		p.nested(func() {
			p.printNode(n.Cond)
			p.printNode(n.Then)
			if n.Else != nil {
				p.printf("else")
				p.printNode(n.Else)
			}
		})

	case *WhileStmt:
		p.printf("while")
		p.nested(func() {
			p.printNode(n.Cond)
			p.printNode(n.Body)
		})

	case *DoWhileStmt:
		p.printf("do-while")
		p.nested(func() {
			p.printNode(n.Body)
			p.printNode(n.Cond)
		})

	case *ForStmt:
		p.printf("for")
		p.nested(func() {
			if n.Init != nil {
				p.printNode(n.Init)
			}
			if n.Cond != nil {
				p.printNode(n.Cond)
			}
			if n.Post != nil {
				p.printNode(n.Post)
			}
			p.printNode(n.Body)
		})

	case *ForInStmt:
		p.printf("for %s in", n.Var.Name)
		p.nested(func() {
			p.printNode(n.Array)
			p.printNode(n.Body)
		})

	case *BreakStmt:
		p.printf("break")
	case *ContinueStmt:
		p.printf("continue")
	case *NextStmt:
		p.printf("next")
	case *NextFileStmt:
		p.printf("nextfile")

	case *ReturnStmt:
		p.printf("return")
		if n.Value != nil {
			p.nested(func() { p.printNode(n.Value) })
		}

	case *ExitStmt:
		p.printf("exit")
		if n.Code != nil {
			p.nested(func() { p.printNode(n.Code) })
		}

	case *DeleteStmt:
		p.printf("delete")
		p.nested(func() {
			p.printNode(n.Array)
			for _, ix := range n.Index {
				p.printNode(ix)
			}
		})

	case *NumLit:
		p.printf("num %s", n.Raw)
	case *StrLit:
		p.printf("str %q", n.Value)
	case *RegexLit:
		p.printf("regex /%s/", n.Pattern)
	case *Ident:
		p.printf("name %s", n.Name)

	case *FieldExpr:
		p.printf("field $")
		p.nested(func() { p.printNode(n.Index) })

	case *IndexExpr:
		p.printf("index")
		p.nested(func() {
			p.printNode(n.Array)
			for _, ix := range n.Index {
				p.printNode(ix)
			}
		})

	case *BinaryExpr:
		p.printf("binary %s", opText(n.Op))
		p.nested(func() {
			p.printNode(n.Left)
			p.printNode(n.Right)
		})

	case *UnaryExpr:
		if n.Post {
			p.printf("postfix %s", opText(n.Op))
		} else {
			p.printf("prefix %s", opText(n.Op))
		}
		p.nested(func() { p.printNode(n.Expr) })

	case *TernaryExpr:
		p.printf("ternary ?:")
		p.nested(func() {
			p.printNode(n.Cond)
			p.printNode(n.Then)
			p.printNode(n.Else)
		})

	case *AssignExpr:
		p.printf("assign %s", opText(n.Op))
		p.nested(func() {
			p.printNode(n.Left)
			p.printNode(n.Right)
		})

	case *ConcatExpr:
		p.printf("concat")
		p.nested(func() {
			for _, e := range n.Exprs {
				p.printNode(e)
			}
		})

	case *GroupExpr:
		p.printf("group")
		p.nested(func() { p.printNode(n.Expr) })

	case *CallExpr:
		p.printf("call %s", n.Name)
		p.nested(func() {
			for _, a := range n.Args {
				p.printNode(a)
			}
		})

	case *BuiltinExpr:
		p.printf("builtin %s", token.BuiltinName(n.Func))
		p.nested(func() {
			for _, a := range n.Args {
				p.printNode(a)
			}
		})

	case *GetlineExpr:
		p.printf("getline")
		p.nested(func() {
			if n.Target != nil {
				p.printNode(n.Target)
			}
			if n.File != nil {
				p.printf("from file")
				p.printNode(n.File)
			}
		})

	case *InExpr:
		p.printf("in")
		p.nested(func() {
			for _, ix := range n.Index {
				p.printNode(ix)
			}
			p.printNode(n.Array)
		})

	case *MatchExpr:
		p.printf("match %s", opText(n.Op))
		p.nested(func() {
			p.printNode(n.Expr)
			p.printNode(n.Pattern)
		})

	case *CommaExpr:
		p.printf("range")
		p.nested(func() {
			p.printNode(n.Left)
			p.printNode(n.Right)
		})

	default:
		p.printf("<%T>", node)
	}
}

// opText returns the source spelling of an operator token.
func opText(t token.Token) string {
	switch t {
	case token.ADD:
		return "+"
	case token.ADD_ASSIGN:
		return "+="
	case token.SUB:
		return "-"
	case token.SUB_ASSIGN:
		return "-="
	case token.MUL:
		return "*"
	case token.MUL_ASSIGN:
		return "*="
	case token.DIV:
		return "/"
	case token.DIV_ASSIGN:
		return "/="
	case token.MOD:
		return "%"
	case token.MOD_ASSIGN:
		return "%="
	case token.POW:
		return "^"
	case token.POW_ASSIGN:
		return "^="
	case token.ASSIGN:
		return "="
	case token.EQUALS:
		return "=="
	case token.NOT_EQUALS:
		return "!="
	case token.LESS:
		return "<"
	case token.LTE:
		return "<="
	case token.GREATER:
		return ">"
	case token.GTE:
		return ">="
	case token.AND:
		return "&&"
	case token.OR:
		return "||"
	case token.NOT:
		return "!"
	case token.MATCH:
		return "~"
	case token.NOT_MATCH:
		return "!~"
	case token.INCR:
		return "++"
	case token.DECR:
		return "--"
	case token.APPEND:
		return ">>"
	default:
		return fmt.Sprintf("token(%d)", t)
	}
}
