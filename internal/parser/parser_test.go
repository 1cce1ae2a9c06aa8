package parser

import (
	"strings"
	"testing"

	"github.com/aiawk/aiawk/internal/ast"
	"github.com/aiawk/aiawk/internal/token"
)

func parseProg(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

func TestParseValidPrograms(t *testing.T) {
	tests := []string{
		`{ print }`,
		`{ print $0 }`,
		`{ print $1, $2 }`,
		`BEGIN { x = 1 }`,
		`END { print total }`,
		`BEGIN { FS = "," } { sum += $2 } END { print sum }`,
		`/error/ { count++ }`,
		`$1 == "x" { print $2 }`,
		`NR > 1 { print }`,
		`NR == 2, NR == 4 { print }`,
		`$0 ~ /warn/ && NF > 3 { print $NF }`,
		`{ if (x > 0) print "pos"; else print "neg" }`,
		`{ while (i < 10) i++ }`,
		`{ do { i++ } while (i < 10) }`,
		`{ for (i = 0; i < NF; i++) print $i }`,
		`{ for (k in seen) print k, seen[k] }`,
		`{ delete seen[$1] }`,
		`{ delete seen }`,
		`{ a[$1, $2] = 1 }`,
		`{ if (($1, $2) in a) print "yes" }`,
		`{ next }`,
		`{ nextfile }`,
		`{ exit }`,
		`{ exit 2 }`,
		`function max(a, b) { return a > b ? a : b }`,
		`function add(x, y,   tmp) { tmp = x + y; return tmp }
		 { print add($1, $2) }`,
		`{ printf "%s: %d\n", $1, $2 }`,
		`{ print $1 > "out.txt" }`,
		`{ print $1 >> "log.txt" }`,
		`{ while ((getline line < "file") > 0) print line }`,
		`{ getline }`,
		`{ getline x }`,
		`{ n = split($0, parts, ":") }`,
		`{ gsub(/foo/, "bar"); print }`,
		`{ sub(/a+/, "A", s) }`,
		`{ if (match($0, /[0-9]+/)) print RSTART, RLENGTH }`,
		`{ print length }`,
		`{ print length($1) }`,
		`{ print substr($0, 2, 5) }`,
		`{ print toupper($1) tolower($2) }`,
		`{ x = $1 ""; y = "" $2 }`,
		`{ print -$1 + +$2 }`,
		`{ print 2 ^ 3 ^ 2 }`,
		`{ s = ai_sentiment($0); if (s == "positive") pos++ }`,
		`{ print ai_translate($0, "French") }`,
		`{ summary = ai_summarize($0, 10) }`,
		`BEGIN { print 0x10, 1e3, .5 }`,
		`{ print (1, 2) }`,
		`{ x = y = 3 }`,
		`{ $3 = "new"; print }`,
		`{ $0 = "a b c"; print NF }`,
		`{ print; print "" }`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			parseProg(t, src)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`{ print $1 `, "expected }"},
		{`{ if }`, "expected ("},
		{`{ break }`, "break must be inside a loop"},
		{`{ continue }`, "continue must be inside a loop"},
		{`BEGIN { next }`, "next cannot be inside BEGIN or END"},
		{`END { nextfile }`, "nextfile cannot be inside BEGIN or END"},
		{`{ return 1 }`, "return must be inside a function"},
		{`{ 1 = 2 }`, "left side of assignment"},
		{`function f(x, x) {}`, "duplicate parameter"},
		{`function f(f) {}`, "cannot use function name"},
		{`{ printf }`, "printf requires at least one argument"},
		{`{ rand(1) }`, "expected )"},
		{`{ atan2(1) }`, "expected ,"},
		{`{ sub(/x/, "y", "z") }`, "must be an lvalue"},
		{`{ print "unterminated }`, "unterminated string"},
		{`{ x = 1 | getline }`, "pipes are not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) expected error containing %q, got nil", tt.src, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse(%q) error = %q, want containing %q", tt.src, err.Error(), tt.want)
			}
		})
	}
}

func TestParseRulesStructure(t *testing.T) {
	prog := parseProg(t, `
BEGIN { x = 1 }
/foo/ { print }
NR == 1, NR == 3 { count++ }
$1 > 10
END { print x }
`)
	if len(prog.Begin) != 1 {
		t.Errorf("got %d BEGIN blocks, want 1", len(prog.Begin))
	}
	if len(prog.EndBlocks) != 1 {
		t.Errorf("got %d END blocks, want 1", len(prog.EndBlocks))
	}
	if len(prog.Rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(prog.Rules))
	}

	if _, ok := prog.Rules[0].Pattern.(*ast.RegexLit); !ok {
		t.Errorf("rule 0 pattern = %T, want *ast.RegexLit", prog.Rules[0].Pattern)
	}
	if _, ok := prog.Rules[1].Pattern.(*ast.CommaExpr); !ok {
		t.Errorf("rule 1 pattern = %T, want *ast.CommaExpr (range)", prog.Rules[1].Pattern)
	}
	if prog.Rules[2].Action != nil {
		t.Errorf("rule 2 action = %v, want nil (default print)", prog.Rules[2].Action)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	prog := parseProg(t, `function add(x, y,   tmp) { tmp = x + y; return tmp }`)
	if len(prog.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "add" {
		t.Errorf("name = %q, want add", fn.Name)
	}
	want := []string{"x", "y", "tmp"}
	if len(fn.Params) != len(want) {
		t.Fatalf("params = %v, want %v", fn.Params, want)
	}
	for i, p := range want {
		if fn.Params[i] != p {
			t.Errorf("param %d = %q, want %q", i, fn.Params[i], p)
		}
	}
}

func TestParseCallExpr(t *testing.T) {
	// User-defined and foreign calls use the same node; resolution
	// happens when the program runs.
	prog := parseProg(t, `{ x = ai_classify($0, "spam,ham") }`)
	stmt := prog.Rules[0].Action.Stmts[0].(*ast.ExprStmt)
	assign := stmt.Expr.(*ast.AssignExpr)
	call, ok := assign.Right.(*ast.CallExpr)
	if !ok {
		t.Fatalf("right side = %T, want *ast.CallExpr", assign.Right)
	}
	if call.Name != "ai_classify" {
		t.Errorf("call name = %q, want ai_classify", call.Name)
	}
	if len(call.Args) != 2 {
		t.Errorf("got %d args, want 2", len(call.Args))
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src      string
		wantType string
	}{
		// Concatenation binds tighter than comparison
		{`"a" "b" == "ab"`, "*ast.BinaryExpr"},
		// Assignment is loosest
		{`x = 1 + 2`, "*ast.AssignExpr"},
		// Ternary
		{`x > 0 ? "p" : "n"`, "*ast.TernaryExpr"},
		// Match
		{`$0 ~ /x/`, "*ast.MatchExpr"},
		// In
		{`k in arr`, "*ast.InExpr"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr(%q) error: %v", tt.src, err)
			}
			got := typeName(expr)
			if got != tt.wantType {
				t.Errorf("ParseExpr(%q) = %s, want %s", tt.src, got, tt.wantType)
			}
		})
	}
}

func TestParsePowRightAssoc(t *testing.T) {
	expr, err := ParseExpr(`2 ^ 3 ^ 2`)
	if err != nil {
		t.Fatal(err)
	}
	outer := expr.(*ast.BinaryExpr)
	if outer.Op != token.POW {
		t.Fatalf("outer op = %v, want POW", outer.Op)
	}
	if _, ok := outer.Left.(*ast.NumLit); !ok {
		t.Errorf("left = %T, want *ast.NumLit (right associative)", outer.Left)
	}
	if _, ok := outer.Right.(*ast.BinaryExpr); !ok {
		t.Errorf("right = %T, want *ast.BinaryExpr (right associative)", outer.Right)
	}
}

func TestParseConcat(t *testing.T) {
	expr, err := ParseExpr(`$1 " " $2`)
	if err != nil {
		t.Fatal(err)
	}
	concat, ok := expr.(*ast.ConcatExpr)
	if !ok {
		t.Fatalf("expr = %T, want *ast.ConcatExpr", expr)
	}
	if len(concat.Exprs) != 3 {
		t.Errorf("got %d parts, want 3", len(concat.Exprs))
	}
}

func TestParseGetline(t *testing.T) {
	expr, err := ParseExpr(`getline line < "data.txt"`)
	if err != nil {
		t.Fatal(err)
	}
	// "< file" binds to getline, so the whole thing is a GetlineExpr
	gl, ok := expr.(*ast.GetlineExpr)
	if !ok {
		t.Fatalf("expr = %T, want *ast.GetlineExpr", expr)
	}
	if gl.Target == nil {
		t.Error("target = nil, want Ident line")
	}
	if gl.File == nil {
		t.Error("file = nil, want StrLit")
	}
}

func TestParsePrintRedirect(t *testing.T) {
	prog := parseProg(t, `{ print $1 > "out" ; print $2 >> "log" }`)
	stmts := prog.Rules[0].Action.Stmts
	p0 := stmts[0].(*ast.PrintStmt)
	if p0.Redirect != token.GREATER {
		t.Errorf("redirect = %v, want GREATER", p0.Redirect)
	}
	p1 := stmts[1].(*ast.PrintStmt)
	if p1.Redirect != token.APPEND {
		t.Errorf("redirect = %v, want APPEND", p1.Redirect)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *ast.BinaryExpr:
		return "*ast.BinaryExpr"
	case *ast.AssignExpr:
		return "*ast.AssignExpr"
	case *ast.TernaryExpr:
		return "*ast.TernaryExpr"
	case *ast.MatchExpr:
		return "*ast.MatchExpr"
	case *ast.InExpr:
		return "*ast.InExpr"
	case *ast.ConcatExpr:
		return "*ast.ConcatExpr"
	default:
		return "other"
	}
}
