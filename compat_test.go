package aiawk

import (
	"bytes"
	"strings"
	"testing"

	goawkinterp "github.com/benhoyt/goawk/interp"
	goawkparser "github.com/benhoyt/goawk/parser"
)

// goawkRun executes src with goawk, the reference implementation the
// compatibility tests compare against.
func goawkRun(t *testing.T, src, input string) string {
	t.Helper()
	prog, err := goawkparser.ParseProgram([]byte(src), nil)
	if err != nil {
		t.Fatalf("goawk parse: %v", err)
	}
	var buf bytes.Buffer
	_, err = goawkinterp.ExecProgram(prog, &goawkinterp.Config{
		Stdin:  strings.NewReader(input),
		Output: &buf,
		Error:  &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("goawk exec: %v", err)
	}
	return buf.String()
}

// TestGoawkCompat runs classic AWK programs through both interpreters
// and requires identical output.
func TestGoawkCompat(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
	}{
		{"fields", `{ print $2, $1 }`, "a b\nc d\n"},
		{"sum", `{ s += $1 } END { print s }`, "1.5\n2.5\n3\n"},
		{"nf nr", `{ print NR, NF, $NF }`, "a b c\nd e\n"},
		{"regex select", `/o/ { print }`, "foo\nbar\nbob\n"},
		{"range", `/b/,/d/`, "a\nb\nc\nd\ne\n"},
		{"arith", `BEGIN { print 7 / 2, 7 % 3, 2 ^ 10, -3 + 1 }`, ""},
		{"compare mixed", `{ print ($1 < $2) }`, "10 9\n9 10\nabc abd\n"},
		{"string funcs", `BEGIN { print length("hello"), index("hello", "l"), substr("hello", 2, 3) }`, ""},
		{"toupper", `{ print toupper($0) }`, "Mixed Case\n"},
		{"sub gsub", `{ n = gsub(/o/, "0"); print n, $0 }`, "foo boo\nno o here? one\n"},
		{"match vars", `BEGIN { match("foobar", "o+"); print RSTART, RLENGTH }`, ""},
		{"split", `BEGIN { n = split("a:b:c", p, ":"); print n, p[1], p[3] }`, ""},
		{"sprintf", `BEGIN { print sprintf("%5.2f|%d|%s|%x", 3.14159, 42, "s", 255) }`, ""},
		{"printf", `BEGIN { printf "%d-%d\n", 1, 2 }`, ""},
		{"concat coercion", `BEGIN { x = 0.1 + 0.2; print x "" }`, ""},
		{"uninitialized", `BEGIN { print x + 0, length(y), (z == "") }`, ""},
		{"for in after delete", `BEGIN { a[1]; a[2]; delete a[1]; n = 0; for (k in a) n++; print n }`, ""},
		{"function", `function max(a, b) { return a > b ? a : b } { print max($1, $2) }`, "3 7\n9 2\n"},
		{"array param", `function inc(arr, k) { arr[k]++ } BEGIN { inc(cnt, "x"); inc(cnt, "x"); print cnt["x"] }`, ""},
		{"field assign", `{ $2 = "X"; print }`, "a b c\n"},
		{"field extend", `{ $4 = "z"; print; print NF }`, "a b\n"},
		{"numeric strings", `{ print ($1 == $2) }`, "10 10.0\n10 ten\n"},
		{"strnum prefix", `BEGIN { print "3x" + 1, " 4 " + 1 }`, ""},
		{"ternary nest", `BEGIN { x = 2; print x == 1 ? "a" : x == 2 ? "b" : "c" }`, ""},
		{"do while", `BEGIN { i = 0; do { print i } while (++i < 3) }`, ""},
		{"next", `$1 == "skip" { next } { print }`, "a\nskip\nb\n"},
		{"exit end", `NR == 2 { exit } { print } END { print "end" }`, "1\n2\n3\n"},
		{"ofmt", `BEGIN { OFMT = "%.2f"; x = 3.14159; print x, x * 2 }`, ""},
		{"subsep", `BEGIN { a["x", "y"] = 1; for (k in a) { split(k, p, SUBSEP); print p[1], p[2] } }`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := goawkRun(t, tt.src, tt.input)
			got, err := Run(tt.src, strings.NewReader(tt.input), &Config{AIProvider: ProviderNone})
			if err != nil {
				t.Fatalf("aiawk: %v", err)
			}
			if got != want {
				t.Errorf("output mismatch:\naiawk: %q\ngoawk: %q", got, want)
			}
		})
	}
}

// TestGoawkCompatFS checks separator handling matches with FS set on
// the command line.
func TestGoawkCompatFS(t *testing.T) {
	src := `{ print $2 }`
	input := "a:b:c\nd:e\n"

	prog, err := goawkparser.ParseProgram([]byte(src), nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	_, err = goawkinterp.ExecProgram(prog, &goawkinterp.Config{
		Stdin:  strings.NewReader(input),
		Output: &buf,
		Vars:   []string{"FS", ":"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Run(src, strings.NewReader(input), &Config{FS: ":", AIProvider: ProviderNone})
	if err != nil {
		t.Fatal(err)
	}
	if got != buf.String() {
		t.Errorf("aiawk %q, goawk %q", got, buf.String())
	}
}
