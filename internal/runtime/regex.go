// Package runtime provides regex and I/O support for program execution.
package runtime

import (
	"sync"

	"github.com/coregx/coregex"
)

// dotallPrefix makes . match newlines, which AWK expects since records
// normally cannot contain the record separator anyway.
const dotallPrefix = "(?s)"

// Regex wraps a compiled pattern with POSIX leftmost-longest matching,
// the semantics dynamic regexes and /re/ literals both get.
type Regex struct {
	pattern string
	re      *coregex.Regexp
}

// Compile compiles pattern as an extended regular expression.
func Compile(pattern string) (*Regex, error) {
	re, err := coregex.Compile(dotallPrefix + pattern)
	if err != nil {
		return nil, err
	}
	re.Longest()
	return &Regex{pattern: pattern, re: re}, nil
}

// MustCompile compiles pattern, panicking on error.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Pattern returns the original pattern string.
func (r *Regex) Pattern() string {
	return r.pattern
}

// MatchString reports whether s contains any match.
func (r *Regex) MatchString(s string) bool {
	return r.re.MatchString(s)
}

// FindStringIndex returns the start and end of the first match, or nil.
func (r *Regex) FindStringIndex(s string) []int {
	return r.re.FindStringIndex(s)
}

// FindAllStringIndex returns up to n non-overlapping matches.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.re.FindAllStringIndex(s, n)
}

// ReplaceAllStringFunc replaces all matches using f.
func (r *Regex) ReplaceAllStringFunc(s string, f func(string) string) string {
	return r.re.ReplaceAllStringFunc(s, f)
}

// Split slices s into substrings separated by matches.
func (r *Regex) Split(s string, n int) []string {
	return r.re.Split(s, n)
}

// RegexCache caches compiled regexes with FIFO eviction. Reads are
// lock-free via sync.Map, which matters because dynamic regexes like
// `$0 ~ var` recompile per record without a cache.
type RegexCache struct {
	cache   sync.Map // map[string]*Regex
	orderMu sync.Mutex
	order   []string
	size    int
	maxSize int
}

// NewRegexCache creates a cache holding at most maxSize patterns.
func NewRegexCache(maxSize int) *RegexCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &RegexCache{
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Get returns a compiled regex, compiling and caching if needed.
func (c *RegexCache) Get(pattern string) (*Regex, error) {
	if re, ok := c.cache.Load(pattern); ok {
		return re.(*Regex), nil
	}

	re, err := Compile(pattern)
	if err != nil {
		return nil, err
	}

	if existing, loaded := c.cache.LoadOrStore(pattern, re); loaded {
		return existing.(*Regex), nil
	}

	c.orderMu.Lock()
	c.order = append(c.order, pattern)
	c.size++
	for c.size > c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.cache.Delete(oldest)
		c.size--
	}
	c.orderMu.Unlock()

	return re, nil
}

// MustGet returns a compiled regex, panicking on error.
func (c *RegexCache) MustGet(pattern string) *Regex {
	re, err := c.Get(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Len returns the number of cached regexes.
func (c *RegexCache) Len() int {
	c.orderMu.Lock()
	n := c.size
	c.orderMu.Unlock()
	return n
}

// Clear removes all cached regexes.
func (c *RegexCache) Clear() {
	c.orderMu.Lock()
	defer c.orderMu.Unlock()
	for _, p := range c.order {
		c.cache.Delete(p)
	}
	c.order = c.order[:0]
	c.size = 0
}
