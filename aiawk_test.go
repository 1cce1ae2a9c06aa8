package aiawk

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		program string
		input   string
		config  *Config
		want    string
	}{
		{"first field", `{ print $1 }`, "hello world\n", nil, "hello\n"},
		{"sum", `{ sum += $1 } END { print sum }`, "1\n2\n3\n", nil, "6\n"},
		{"fs colon", `{ print $2 }`, "root:x:0\n", &Config{FS: ":"}, "x\n"},
		{"variables", `$1 > threshold { print $2 }`, "5 low\n50 high\n", &Config{Variables: map[string]string{"threshold": "10"}}, "high\n"},
		{"no input", `BEGIN { print 6 * 7 }`, "", nil, "42\n"},
		{"ofs", `{ print $1, $2 }`, "a b\n", &Config{OFS: "|"}, "a|b\n"},
		{"paragraph mode", `{ print NR }`, "a\nb\n\nc\n", &Config{RSSet: true}, "1\n2\n"},
		{"rule order", `{ print "A" } /x/ { print "B" } { print "C" }`, "x\ny\n", nil, "A\nB\nC\nA\nC\n"},
		{"next skips later rules", `/skip/ { next } { print }`, "keep\nskip this\nalso keep\n", nil, "keep\nalso keep\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Run(tt.program, strings.NewReader(tt.input), tt.config)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileReuse(t *testing.T) {
	prog, err := Compile(`{ n++ } END { print n }`)
	if err != nil {
		t.Fatal(err)
	}
	for i, input := range []string{"a\n", "a\nb\nc\n"} {
		want := []string{"1\n", "3\n"}[i]
		got, err := prog.Run(strings.NewReader(input), nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("run %d: got %q, want %q", i, got, want)
		}
	}
}

func TestParseError(t *testing.T) {
	_, err := Compile(`{ print $1`)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if pe.Line < 1 {
		t.Errorf("Line = %d, want >= 1", pe.Line)
	}
}

func TestRuntimeError(t *testing.T) {
	_, err := Run(`BEGIN { print 1 / 0 }`, nil, nil)
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("error = %T, want *RuntimeError", err)
	}
	if !strings.Contains(re.Message, "division by zero") {
		t.Errorf("Message = %q, want division by zero", re.Message)
	}
}

func TestExitError(t *testing.T) {
	out, err := Run(`BEGIN { print "partial"; exit 2 }`, nil, nil)
	code, ok := IsExitError(err)
	if !ok || code != 2 {
		t.Fatalf("IsExitError = (%d, %v), want (2, true)", code, ok)
	}
	if out != "partial\n" {
		t.Errorf("output = %q, want %q", out, "partial\n")
	}
}

func TestExitZeroIsSuccess(t *testing.T) {
	_, err := Run(`BEGIN { exit 0 }`, nil, nil)
	if err != nil {
		t.Fatalf("exit 0 returned error: %v", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on bad source")
		}
	}()
	MustCompile(`function (`)
}

func TestSimulatedProviderDefault(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	out, err := Run(`{ print ai_sentiment($0) }`, strings.NewReader("this is great\nthis is terrible\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "positive\nnegative\n" {
		t.Errorf("output = %q, want %q", out, "positive\nnegative\n")
	}
}

type replyProvider struct{ reply string }

func (p *replyProvider) Prompt(system, user string) (string, error) {
	return p.reply, nil
}

func TestCustomProvider(t *testing.T) {
	out, err := Run(`BEGIN { print ai_call("hi") }`, nil, &Config{
		Provider: &replyProvider{reply: "hello back"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello back\n" {
		t.Errorf("output = %q, want %q", out, "hello back\n")
	}
}

func TestCustomForeignFunc(t *testing.T) {
	out, err := Run(`BEGIN { print rev("abc") }`, nil, &Config{
		AIProvider: ProviderNone,
		Funcs: map[string]ForeignFunc{
			"rev": func(args []string) (string, error) {
				b := []byte(args[0])
				for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
					b[i], b[j] = b[j], b[i]
				}
				return string(b), nil
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "cba\n" {
		t.Errorf("output = %q, want %q", out, "cba\n")
	}
}

func TestProviderNoneMakesAIUndefined(t *testing.T) {
	_, err := Run(`BEGIN { ai_call("x") }`, nil, &Config{AIProvider: ProviderNone})
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("error = %T, want *RuntimeError", err)
	}
	if !strings.Contains(re.Message, "undefined function") {
		t.Errorf("Message = %q, want undefined function", re.Message)
	}
}

func TestSQLiteCacheAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	calls := 0
	cfg := func() *Config {
		return &Config{
			CachePath: path,
			Funcs: map[string]ForeignFunc{
				"probe": func(args []string) (string, error) {
					calls++
					return "v", nil
				},
			},
		}
	}
	for i := 0; i < 2; i++ {
		out, err := Run(`BEGIN { print probe("k") }`, nil, cfg())
		if err != nil {
			t.Fatal(err)
		}
		if out != "v\n" {
			t.Fatalf("run %d output = %q", i, out)
		}
	}
	if calls != 1 {
		t.Errorf("provider calls = %d, want 1 (second run should hit the cache)", calls)
	}
}

func TestStderrDiagnostics(t *testing.T) {
	var errBuf strings.Builder
	out, err := Run(`BEGIN { r = fails("x"); print "[" r "]" }`, nil, &Config{
		AIProvider: ProviderNone,
		Stderr:     &errBuf,
		Funcs: map[string]ForeignFunc{
			"fails": func(args []string) (string, error) {
				return "", errors.New("boom")
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out != "[]\n" {
		t.Errorf("output = %q, want %q", out, "[]\n")
	}
	if !strings.Contains(errBuf.String(), "fails") || !strings.Contains(errBuf.String(), "boom") {
		t.Errorf("stderr = %q, want failure diagnostic", errBuf.String())
	}
}
