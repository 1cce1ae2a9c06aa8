package runtime

import (
	"fmt"
	"sync"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{`abc`, "xxabcxx", true},
		{`abc`, "xyz", false},
		{`^abc$`, "abc", true},
		{`^abc$`, "xabc", false},
		{`[0-9]+`, "id42", true},
		{`[0-9]+`, "none", false},
		{`a|b`, "cbc", true},
		{`a.c`, "a\nc", true}, // dot matches newline
		{``, "anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
			}
			if got := re.MatchString(tt.input); got != tt.want {
				t.Errorf("MatchString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile(`[unclosed`); err == nil {
		t.Error("Compile([unclosed) expected error, got nil")
	}
}

func TestLeftmostLongest(t *testing.T) {
	// POSIX semantics: alternation picks the longest match at the
	// leftmost position, not the first alternative.
	re := MustCompile(`a|ab`)
	loc := re.FindStringIndex("xab")
	if loc == nil || loc[0] != 1 || loc[1] != 3 {
		t.Errorf("FindStringIndex = %v, want [1 3]", loc)
	}
}

func TestFindStringIndex(t *testing.T) {
	re := MustCompile(`[0-9]+`)

	loc := re.FindStringIndex("abc 123 def")
	if loc == nil || loc[0] != 4 || loc[1] != 7 {
		t.Errorf("FindStringIndex = %v, want [4 7]", loc)
	}

	if loc := re.FindStringIndex("no digits"); loc != nil {
		t.Errorf("FindStringIndex = %v, want nil", loc)
	}
}

func TestSplit(t *testing.T) {
	re := MustCompile(`,`)
	parts := re.Split("a,b,c", -1)
	if len(parts) != 3 || parts[0] != "a" || parts[2] != "c" {
		t.Errorf("Split = %v, want [a b c]", parts)
	}
}

func TestReplaceAllStringFunc(t *testing.T) {
	re := MustCompile(`[0-9]+`)
	got := re.ReplaceAllStringFunc("a1b22c", func(m string) string { return "#" })
	if got != "a#b#c" {
		t.Errorf("got %q, want %q", got, "a#b#c")
	}
}

func TestRegexCache(t *testing.T) {
	c := NewRegexCache(10)

	re1, err := c.Get(`[0-9]+`)
	if err != nil {
		t.Fatal(err)
	}
	re2, err := c.Get(`[0-9]+`)
	if err != nil {
		t.Fatal(err)
	}
	if re1 != re2 {
		t.Error("cache miss on repeated pattern")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}

	if _, err := c.Get(`[bad`); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestRegexCacheEviction(t *testing.T) {
	c := NewRegexCache(3)
	for i := 0; i < 5; i++ {
		if _, err := c.Get(fmt.Sprintf("pat%d", i)); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() > 3 {
		t.Errorf("Len = %d, want <= 3", c.Len())
	}
	// Most recent patterns survive FIFO eviction
	if _, ok := c.cache.Load("pat4"); !ok {
		t.Error("pat4 evicted, want kept")
	}
}

func TestRegexCacheConcurrent(t *testing.T) {
	c := NewRegexCache(100)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				pattern := fmt.Sprintf("p%d", j%10)
				re, err := c.Get(pattern)
				if err != nil {
					t.Error(err)
					return
				}
				re.MatchString("p5")
			}
		}(i)
	}
	wg.Wait()
}

func TestRegexCacheClear(t *testing.T) {
	c := NewRegexCache(10)
	c.MustGet(`a`)
	c.MustGet(`b`)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
}
