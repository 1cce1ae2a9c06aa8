package lexer

import (
	"testing"

	"github.com/aiawk/aiawk/internal/token"
)

// FuzzLexer checks that the lexer terminates and makes progress on
// arbitrary input without panicking.
func FuzzLexer(f *testing.F) {
	seeds := []string{
		`{ print $1 }`,
		`BEGIN { FS = ":" }`,
		`/pattern/ { count++ }`,
		`END { print count }`,
		`{ s = ai_sentiment($0); print $0, "->", s }`,
		`x + y * z`,
		`a == b && c != d`,
		`$1 ~ /foo/ || $2 !~ /bar/`,
		`123 456.789 .5 1e10 0x1A`,
		`"hello" "world\n" "tab\there"`,
		``,
		`# comment only`,
		"\\\n",
		`"unterminated`,
		`/unterminated`,
		`$0 $1 $NF`,
		`arr[i,j,k]`,
		`/[a-z]+[0-9]*/`,
		`/foo\/bar/`,
		`"до свидания"`,
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		l := New(data)
		// Any input must reach EOF within a bounded number of tokens; each
		// Scan consumes at least one byte except at EOF.
		for i := 0; i <= len(data)+1; i++ {
			tok := l.Scan()
			if tok.Type == token.EOF {
				return
			}
		}
		t.Fatalf("lexer did not reach EOF on %q", data)
	})
}
