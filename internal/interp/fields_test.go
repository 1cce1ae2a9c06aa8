package interp

import (
	"reflect"
	"testing"

	"github.com/aiawk/aiawk/internal/runtime"
	"github.com/aiawk/aiawk/internal/token"
	"github.com/aiawk/aiawk/internal/types"
)

func newTestInterp() *Interp {
	return &Interp{
		regexes: runtime.NewRegexCache(10),
		globals: make(map[string]types.Value),
		arrays:  make(map[string]*types.Array),
		fs:      " ",
		ofs:     " ",
		ors:     "\n",
		rs:      "\n",
		convfmt: "%.6g",
		ofmt:    "%.6g",
		subsep:  "\x1c",
		rlength: -1,
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		s    string
		fs   string
		want []string
	}{
		{"a b c", " ", []string{"a", "b", "c"}},
		{"  a\tb  c ", " ", []string{"a", "b", "c"}},
		{"", " ", nil},
		{"a,b,,c", ",", []string{"a", "b", "", "c"}},
		{"a1b22c", "[0-9]+", []string{"a", "b", "c"}},
		{"abc", ",", []string{"abc"}},
		{"a.b", ".", []string{"a", "b"}},
	}
	p := newTestInterp()
	for _, tt := range tests {
		got := p.splitFields(tt.s, tt.fs)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitFields(%q, %q) = %q, want %q", tt.s, tt.fs, got, tt.want)
		}
	}
}

func TestSetRecordResplits(t *testing.T) {
	p := newTestInterp()
	p.setRecord("one two three")
	if len(p.fields) != 3 {
		t.Fatalf("NF = %d, want 3", len(p.fields))
	}
	v, err := p.getField(2, token.NoPos)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str(p.convfmt) != "two" {
		t.Errorf("$2 = %q, want %q", v.Str(p.convfmt), "two")
	}
}

func TestGetFieldBeyondNF(t *testing.T) {
	p := newTestInterp()
	p.setRecord("a b")
	v, err := p.getField(9, token.NoPos)
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsUninit() {
		t.Errorf("$9 = %v, want uninitialized", v)
	}
	// Reading past NF must not create fields.
	if len(p.fields) != 2 {
		t.Errorf("NF = %d after read, want 2", len(p.fields))
	}
}

func TestSetFieldRebuildsRecord(t *testing.T) {
	p := newTestInterp()
	p.ofs = "-"
	p.setRecord("a b c")
	if err := p.setField(2, "X", token.NoPos); err != nil {
		t.Fatal(err)
	}
	if p.record != "a-X-c" {
		t.Errorf("$0 = %q, want %q", p.record, "a-X-c")
	}
}

func TestSetFieldExtends(t *testing.T) {
	p := newTestInterp()
	p.setRecord("a")
	if err := p.setField(4, "z", token.NoPos); err != nil {
		t.Fatal(err)
	}
	if len(p.fields) != 4 {
		t.Fatalf("NF = %d, want 4", len(p.fields))
	}
	if p.record != "a   z" {
		t.Errorf("$0 = %q, want %q", p.record, "a   z")
	}
}

func TestSetFieldZeroResplits(t *testing.T) {
	p := newTestInterp()
	p.setRecord("a b")
	if err := p.setField(0, "x y z", token.NoPos); err != nil {
		t.Fatal(err)
	}
	if len(p.fields) != 3 {
		t.Errorf("NF = %d, want 3", len(p.fields))
	}
}

func TestNegativeFieldError(t *testing.T) {
	p := newTestInterp()
	if _, err := p.getField(-1, token.NoPos); err == nil {
		t.Error("getField(-1) should fail")
	}
	if err := p.setField(-2, "x", token.NoPos); err == nil {
		t.Error("setField(-2) should fail")
	}
}

func TestSubstr(t *testing.T) {
	inf := func() float64 { var f float64; return 1 / f }()
	tests := []struct {
		s    string
		m, n float64
		want string
	}{
		{"hello", 2, 3, "ell"},
		{"hello", 1, 5, "hello"},
		{"hello", 0, 2, "h"},
		{"hello", -2, 5, "he"},
		{"hello", 4, 100, "lo"},
		{"hello", 6, 1, ""},
		{"hello", 2, 0, ""},
		{"hello", 2, -1, ""},
		{"hello", 3, inf, "llo"},
	}
	for _, tt := range tests {
		if got := substr(tt.s, tt.m, tt.n); got != tt.want {
			t.Errorf("substr(%q, %v, %v) = %q, want %q", tt.s, tt.m, tt.n, got, tt.want)
		}
	}
}

func TestExpandRepl(t *testing.T) {
	tests := []struct {
		repl, match, want string
	}{
		{"x", "m", "x"},
		{"[&]", "m", "[m]"},
		{`\&`, "m", "&"},
		{`\\&`, "m", `\m`},
		{`a\b`, "m", `a\b`},
	}
	for _, tt := range tests {
		if got := expandRepl(tt.repl, tt.match); got != tt.want {
			t.Errorf("expandRepl(%q, %q) = %q, want %q", tt.repl, tt.match, got, tt.want)
		}
	}
}
