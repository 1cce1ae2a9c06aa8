package aiawk

import (
	"io"
	"os"
	"time"
)

// Provider generates responses for the ai_* functions. Implementations
// receive a system prompt and a user prompt and return the model's
// text response.
type Provider interface {
	Prompt(system, user string) (string, error)
}

// ForeignFunc is a custom foreign function callable from AWK source.
// It receives the call's arguments as strings and returns the result.
type ForeignFunc func(args []string) (string, error)

// Provider names accepted by Config.AIProvider.
const (
	ProviderSimulated = "simulated"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderNone      = "none"
)

// Config holds configuration options for AWK execution.
type Config struct {
	// FS is the input field separator (default: " ").
	// When set to a single space, runs of whitespace are treated as separators.
	// Otherwise, a single character splits literally and longer strings are
	// regular expression patterns.
	FS string

	// RS is the input record separator (default: "\n").
	// When set to empty string, records are separated by blank lines.
	// Must be a single character or empty.
	RS string

	// OFS is the output field separator (default: " ").
	OFS string

	// ORS is the output record separator (default: "\n").
	ORS string

	// Variables contains pre-defined variables, set before BEGIN rules run.
	// Example: map[string]string{"threshold": "100", "prefix": "LOG:"}
	Variables map[string]string

	// Files are input file names read in order. Empty means read Input.
	// The name "-" reads Input at that point in the sequence.
	Files []string

	// Output is the writer for print/printf statements.
	// If nil, output is captured and returned from Run.
	Output io.Writer

	// Stderr is the writer for ai_* failure diagnostics.
	// If nil, diagnostics are discarded.
	Stderr io.Writer

	// AIProvider selects the backend for ai_* functions: "simulated",
	// "anthropic", "openai", "gemini", "ollama", or "none". Empty picks
	// "anthropic" when ANTHROPIC_API_KEY is set and "simulated"
	// otherwise. With "none" the ai_* names are undefined and calling
	// one is a runtime error.
	AIProvider string

	// AIModel overrides the provider's default model name.
	AIModel string

	// AITimeout bounds each provider request (default: 10s).
	AITimeout time.Duration

	// Provider, when non-nil, is used for ai_* calls instead of the
	// backend named by AIProvider. Useful for tests.
	Provider Provider

	// Funcs registers additional foreign functions by name. A registered
	// name shadows the built-in ai_* function of the same name.
	Funcs map[string]ForeignFunc

	// CachePath is the SQLite file for the persistent response cache.
	// Empty means an in-memory cache that lasts for one run.
	CachePath string

	// RSSet distinguishes RS set to "" (paragraph mode) from RS left
	// unset (newline records).
	RSSet bool
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.FS == "" {
		c.FS = " "
	}
	if c.RS == "" && !c.RSSet {
		c.RS = "\n"
	}
	if c.OFS == "" {
		c.OFS = " "
	}
	if c.ORS == "" {
		c.ORS = "\n"
	}
	if c.AIProvider == "" {
		if os.Getenv("ANTHROPIC_API_KEY") != "" {
			c.AIProvider = ProviderAnthropic
		} else {
			c.AIProvider = ProviderSimulated
		}
	}
}
