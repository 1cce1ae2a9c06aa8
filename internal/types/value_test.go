package types

import (
	"math"
	"testing"
)

func TestValueConstructors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"Uninit", Uninit(), KindUninit},
		{"Num(0)", Num(0), KindNum},
		{"Num(42)", Num(42), KindNum},
		{"Num(-3.14)", Num(-3.14), KindNum},
		{"Str empty", Str(""), KindStr},
		{"Str hello", Str("hello"), KindStr},
		{"Strnum", Strnum("123"), KindStrnum},
		{"Bool true", Bool(true), KindNum},
		{"Bool false", Bool(false), KindNum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.v.Kind(), tt.kind)
			}
		})
	}
}

func TestNumCoercion(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want float64
	}{
		{"uninit", Uninit(), 0},
		{"num", Num(42), 42},
		{"empty string", Str(""), 0},
		{"integer string", Str("123"), 123},
		{"float string", Str("3.14"), 3.14},
		{"non-numeric", Str("abc"), 0},
		{"numeric prefix", Str("3.14abc"), 3.14},
		{"leading space", Strnum("  789  "), 789},
		{"signed", Str("-12"), -12},
		{"exponent", Str("1e3"), 1000},
		{"bad exponent stops early", Str("1e+a"), 1},
		{"hex", Str("0x10"), 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Num(); got != tt.want {
				t.Errorf("Num() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrCoercion(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"uninit", Uninit(), ""},
		{"integer prints without fraction", Num(3), "3"},
		{"negative integer", Num(-7), "-7"},
		{"float uses CONVFMT", Num(3.14), "3.14"},
		{"long float truncates", Num(1.0 / 3.0), "0.333333"},
		{"string passes through", Str("hello"), "hello"},
		{"strnum keeps original text", Strnum("007"), "007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Str("%.6g"); got != tt.want {
				t.Errorf("Str() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Uninitialized values must be "" and 0 at the same time: comparisons
// against both succeed.
func TestUninitConsistency(t *testing.T) {
	u := Uninit()
	if u.Num() != 0 {
		t.Errorf("Num() = %v, want 0", u.Num())
	}
	if u.Str("%.6g") != "" {
		t.Errorf("Str() = %q, want \"\"", u.Str("%.6g"))
	}
	if Compare(u, Num(0), "%.6g") != 0 {
		t.Error("uninit should compare equal to 0")
	}
	if Compare(u, Str(""), "%.6g") != 0 {
		t.Error("uninit should compare equal to \"\"")
	}
	if u.Bool() {
		t.Error("uninit should be false")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"num lt", Num(1), Num(2), -1},
		{"num eq", Num(2), Num(2), 0},
		{"num gt", Num(3), Num(2), 1},
		{"strnum vs num is numeric", Strnum("10"), Num(9), 1},
		{"strnum vs strnum numeric", Strnum("10"), Strnum("9"), 1},
		{"string vs string lexical", Str("10"), Str("9"), -1},
		{"string vs num is string compare", Str("10"), Num(9), -1},
		{"non-numeric strnum is a string", Strnum("10x"), Str("10x"), 0},
		{"string eq", Str("abc"), Str("abc"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b, "%.6g"); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBool(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"uninit", Uninit(), false},
		{"zero", Num(0), false},
		{"nonzero", Num(0.5), true},
		{"empty string", Str(""), false},
		{"string zero is true", Str("0"), true},
		{"strnum zero is false", Strnum("0"), false},
		{"strnum text", Strnum("abc"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Bool(); got != tt.want {
				t.Errorf("Bool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNumSpecial(t *testing.T) {
	if n, err := ParseNum("nan"); err != nil || !math.IsNaN(n) {
		t.Errorf("ParseNum(nan) = %v, %v", n, err)
	}
	if n, err := ParseNum("-inf"); err != nil || !math.IsInf(n, -1) {
		t.Errorf("ParseNum(-inf) = %v, %v", n, err)
	}
	if _, err := ParseNum("1_000"); err == nil {
		t.Error("ParseNum should reject underscores")
	}
	if n, err := ParseNum("0x1a"); err != nil || n != 26 {
		t.Errorf("ParseNum(0x1a) = %v, %v", n, err)
	}
}

func TestFormatNum(t *testing.T) {
	tests := []struct {
		n      float64
		format string
		want   string
	}{
		{42, "%.6g", "42"},
		{-1, "%.6g", "-1"},
		{3.14159265, "%.6g", "3.14159"},
		{2.5, "%.2f", "2.50"},
		{math.NaN(), "%.6g", "nan"},
		{math.Inf(1), "%.6g", "inf"},
	}

	for _, tt := range tests {
		if got := FormatNum(tt.n, tt.format); got != tt.want {
			t.Errorf("FormatNum(%v, %q) = %q, want %q", tt.n, tt.format, got, tt.want)
		}
	}
}

func TestArrayEnsure(t *testing.T) {
	a := NewArray()
	if a.Contains("k") {
		t.Error("new array should be empty")
	}

	// Reading creates the entry
	v := a.Ensure("k")
	if !v.IsUninit() {
		t.Errorf("Ensure on missing key = %v, want uninit", v)
	}
	if !a.Contains("k") {
		t.Error("Ensure should create the entry")
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}

	a.Set("k", Str("v"))
	if got := a.Ensure("k").Str("%.6g"); got != "v" {
		t.Errorf("Ensure after Set = %q, want %q", got, "v")
	}

	a.Delete("k")
	if a.Contains("k") {
		t.Error("Delete should remove the entry")
	}

	a.Set("a", Num(1))
	a.Set("b", Num(2))
	a.Clear()
	if a.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", a.Len())
	}
}
