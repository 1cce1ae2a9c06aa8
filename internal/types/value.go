// Package types defines runtime value types for aiawk.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind represents the type of an AWK scalar.
type Kind uint8

const (
	KindUninit Kind = iota // Uninitialized: "" and 0 simultaneously
	KindNum                // Numeric value
	KindStr                // String value
	KindStrnum             // String read from input that may act as a number
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUninit:
		return "uninit"
	case KindNum:
		return "num"
	case KindStr:
		return "str"
	case KindStrnum:
		return "strnum"
	default:
		return "unknown"
	}
}

// Value represents an AWK scalar: a tagged union over string and number.
// Values are small and passed by value. The strnum kind marks values that
// came from input (fields, getline targets, split results): they compare
// numerically against numbers but behave as strings otherwise.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Uninit returns an uninitialized value.
func Uninit() Value {
	return Value{kind: KindUninit}
}

// Num creates a numeric value.
func Num(n float64) Value {
	return Value{kind: KindNum, num: n}
}

// Str creates a string value.
func Str(s string) Value {
	return Value{kind: KindStr, str: s}
}

// Strnum creates a value read from input. If the string does not look
// numeric it is an ordinary string. The numeric representation is computed
// lazily on first use, so fields that are only printed are never parsed.
func Strnum(s string) Value {
	return Value{kind: KindStrnum, str: s}
}

// Bool creates a numeric value from a boolean (1 for true, 0 for false).
func Bool(b bool) Value {
	if b {
		return Num(1)
	}
	return Num(0)
}

// Kind returns the value's type.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUninit returns true if the value is uninitialized.
func (v Value) IsUninit() bool {
	return v.kind == KindUninit
}

// Num returns the numeric representation of the value, applying AWK's
// leading-numeric-prefix rule to strings ("3.14abc" is 3.14, "abc" is 0).
func (v Value) Num() float64 {
	switch v.kind {
	case KindNum:
		return v.num
	case KindStr, KindStrnum:
		return ParseNumPrefix(v.str)
	default: // KindUninit
		return 0
	}
}

// Str returns the string representation, formatting numbers with format
// (normally CONVFMT). Integral numbers format without a fractional part.
func (v Value) Str(format string) string {
	if v.kind == KindNum {
		return FormatNum(v.num, format)
	}
	return v.str
}

// Bool returns the truth of the value: nonzero for numbers, nonempty for
// strings. A strnum that parses as a number is judged numerically, so the
// input field "0" is false.
func (v Value) Bool() bool {
	switch v.kind {
	case KindNum:
		return v.num != 0
	case KindStr:
		return v.str != ""
	case KindStrnum:
		n, err := ParseNum(v.str)
		if err != nil {
			return v.str != ""
		}
		return n != 0
	default: // KindUninit
		return false
	}
}

// isTrueStr reports whether the value must be treated as a string in
// comparisons. When false, the numeric value is also returned.
func (v Value) isTrueStr() (float64, bool) {
	switch v.kind {
	case KindStr:
		return 0, true
	case KindStrnum:
		n, err := ParseNum(v.str)
		if err != nil {
			return 0, true
		}
		return n, false
	default: // KindNum, KindUninit
		return v.num, false
	}
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindNum:
		return fmt.Sprintf("Num(%s)", FormatNum(v.num, "%.6g"))
	case KindStr:
		return fmt.Sprintf("Str(%q)", v.str)
	case KindStrnum:
		return fmt.Sprintf("Strnum(%q)", v.str)
	default:
		return "Uninit()"
	}
}

// Compare compares two values with AWK semantics: numeric when both
// operands are numbers or input strings that look like numbers, string
// comparison otherwise, converting numbers with the given CONVFMT.
// Returns -1, 0, or 1. All comparison operators in the evaluator funnel
// through here.
func Compare(a, b Value, format string) int {
	aNum, aIsStr := a.isTrueStr()
	bNum, bIsStr := b.isTrueStr()

	if !aIsStr && !bIsStr {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(a.Str(format), b.Str(format))
}

// ParseNum parses a string as a number, accepting nothing but a complete
// numeric token (modulo surrounding whitespace).
func ParseNum(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if len(s) >= 3 {
		lower := strings.ToLower(s)
		switch lower {
		case "nan", "+nan", "-nan":
			return math.NaN(), nil
		case "inf", "+inf":
			return math.Inf(1), nil
		case "-inf":
			return math.Inf(-1), nil
		}
	}

	// AWK allows "0x1a"; Go's ParseFloat wants a binary exponent
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		if !strings.ContainsAny(s, "pP") {
			s += "p0"
		}
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	// AWK numbers have no underscore separators
	if strings.Contains(s, "_") {
		return 0, strconv.ErrSyntax
	}

	return n, nil
}

// ParseNumPrefix parses a number from the beginning of a string, ignoring
// any trailing non-numeric characters: "123abc" is 123, "abc" is 0.
func ParseNumPrefix(s string) float64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i >= len(s) {
		return 0
	}

	start := i
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	if i >= len(s) {
		return 0
	}

	if i+3 <= len(s) {
		switch strings.ToLower(s[i : i+3]) {
		case "nan":
			return math.NaN()
		case "inf":
			if s[start] == '-' {
				return math.Inf(-1)
			}
			return math.Inf(1)
		}
	}

	if i+2 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		return parseHexPrefix(s, start, i+2)
	}

	gotDigit := false
	for i < len(s) && isDigit(s[i]) {
		gotDigit = true
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			gotDigit = true
			i++
		}
	}
	if !gotDigit {
		return 0
	}

	// Exponent counts only if at least one digit follows it
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			end = i + 1
			i++
		}
	}

	n, _ := strconv.ParseFloat(s[start:end], 64)
	return n
}

func parseHexPrefix(s string, start, i int) float64 {
	gotDigit := false
	for i < len(s) && isHexDigit(s[i]) {
		gotDigit = true
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isHexDigit(s[i]) {
			gotDigit = true
			i++
		}
	}
	if !gotDigit {
		return 0
	}

	end := i
	gotExponent := false
	if i < len(s) && (s[i] == 'p' || s[i] == 'P') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		for i < len(s) && isDigit(s[i]) {
			gotExponent = true
			end = i + 1
			i++
		}
	}

	numStr := s[start:end]
	if !gotExponent {
		numStr += "p0"
	}
	n, _ := strconv.ParseFloat(numStr, 64)
	return n
}

// FormatNum formats a number using the given format. Integral values
// format without a fractional part regardless of the format.
func FormatNum(n float64, format string) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case n == float64(int64(n)):
		return strconv.FormatInt(int64(n), 10)
	case format == "%.6g":
		return strconv.FormatFloat(n, 'g', 6, 64)
	default:
		return fmt.Sprintf(format, n)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
