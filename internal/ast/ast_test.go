package ast

import (
	"strings"
	"testing"

	"github.com/aiawk/aiawk/internal/token"
)

func TestIsLValue(t *testing.T) {
	name := &Ident{Name: "x"}
	field := &FieldExpr{Index: &NumLit{Value: 1, Raw: "1"}}
	idx := &IndexExpr{Array: name, Index: []Expr{&StrLit{Value: "k"}}}
	num := &NumLit{Value: 1, Raw: "1"}
	bin := &BinaryExpr{Left: name, Op: token.ADD, Right: num}

	for _, e := range []Expr{name, field, idx} {
		if !IsLValue(e) {
			t.Errorf("IsLValue(%T) = false, want true", e)
		}
	}
	for _, e := range []Expr{num, bin} {
		if IsLValue(e) {
			t.Errorf("IsLValue(%T) = true, want false", e)
		}
	}
}

func TestPrinter(t *testing.T) {
	// { sum += $1 } plus END { print sum }, hand-built
	prog := &Program{
		Rules: []*Rule{
			{
				Action: &BlockStmt{
					Stmts: []Stmt{
						&ExprStmt{Expr: &AssignExpr{
							Left:  &Ident{Name: "sum"},
							Op:    token.ADD_ASSIGN,
							Right: &FieldExpr{Index: &NumLit{Value: 1, Raw: "1"}},
						}},
					},
				},
			},
		},
		EndBlocks: []*BlockStmt{
			{Stmts: []Stmt{
				&PrintStmt{Args: []Expr{&Ident{Name: "sum"}}, Redirect: token.ILLEGAL},
			}},
		},
	}

	var sb strings.Builder
	if err := Fprint(&sb, prog); err != nil {
		t.Fatalf("Fprint: %v", err)
	}
	out := sb.String()

	for _, want := range []string{"rule (always)", "assign +=", "field $", "END", "print", "name sum"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestPrinterDefaultAction(t *testing.T) {
	prog := &Program{
		Rules: []*Rule{
			{Pattern: &RegexLit{Pattern: "foo"}},
		},
	}

	var sb strings.Builder
	if err := Fprint(&sb, prog); err != nil {
		t.Fatalf("Fprint: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "regex /foo/") || !strings.Contains(out, "default action") {
		t.Errorf("unexpected dump:\n%s", out)
	}
}
