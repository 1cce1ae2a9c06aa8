package aiawk

import (
	"bytes"
	"io"

	"github.com/aiawk/aiawk/internal/ast"
	"github.com/aiawk/aiawk/internal/cache"
	"github.com/aiawk/aiawk/internal/foreign"
	"github.com/aiawk/aiawk/internal/interp"
)

// Program represents a parsed AWK program ready for execution.
// It is safe for concurrent use; each call to Run creates an
// independent execution context.
type Program struct {
	prog   *ast.Program
	source string
}

// Run executes the program with the given input and configuration.
// Returns the output as a string, or an error if execution fails.
//
// If config is nil, default configuration is used.
// If config.Output is set, output is written there and the returned
// string will be empty.
func (p *Program) Run(input io.Reader, config *Config) (string, error) {
	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	registry, store, err := buildRegistry(config)
	if err != nil {
		return "", &RuntimeError{Message: err.Error()}
	}
	if store != nil {
		defer store.Close()
	}

	vars := make(map[string]string, len(config.Variables)+4)
	vars["FS"] = config.FS
	vars["RS"] = config.RS
	vars["OFS"] = config.OFS
	vars["ORS"] = config.ORS
	for name, value := range config.Variables {
		vars[name] = value
	}

	var outputBuf *bytes.Buffer
	output := config.Output
	if output == nil {
		outputBuf = &bytes.Buffer{}
		output = outputBuf
	}
	errOut := config.Stderr
	if errOut == nil {
		errOut = io.Discard
	}

	code, err := interp.ExecProgram(p.prog, &interp.Config{
		Stdin:   input,
		Output:  output,
		Errors:  errOut,
		Vars:    vars,
		Files:   config.Files,
		Foreign: registry,
	})

	var out string
	if outputBuf != nil {
		out = outputBuf.String()
	}
	if err != nil {
		return "", &RuntimeError{Message: err.Error()}
	}
	if code != 0 {
		return out, &ExitError{Code: code}
	}
	return out, nil
}

// Source returns the original AWK source code.
func (p *Program) Source() string {
	return p.source
}

// buildRegistry constructs the foreign-function registry from the
// config: a provider, the response cache in front of it, and any
// custom functions. A nil registry means ai_* names are undefined.
func buildRegistry(config *Config) (*foreign.Registry, cache.Store, error) {
	provider := config.Provider
	if provider == nil {
		switch config.AIProvider {
		case ProviderNone:
			if len(config.Funcs) == 0 {
				return nil, nil, nil
			}
		case ProviderAnthropic:
			var opts []foreign.AnthropicOption
			if config.AIModel != "" {
				opts = append(opts, foreign.WithAnthropicModel(config.AIModel))
			}
			if config.AITimeout > 0 {
				opts = append(opts, foreign.WithAnthropicTimeout(config.AITimeout))
			}
			provider = foreign.NewAnthropic(opts...)
		case ProviderOpenAI:
			var opts []foreign.OpenAIOption
			if config.AIModel != "" {
				opts = append(opts, foreign.WithOpenAIModel(config.AIModel))
			}
			if config.AITimeout > 0 {
				opts = append(opts, foreign.WithOpenAITimeout(config.AITimeout))
			}
			provider = foreign.NewOpenAI(opts...)
		case ProviderGemini:
			var opts []foreign.GeminiOption
			if config.AIModel != "" {
				opts = append(opts, foreign.WithGeminiModel(config.AIModel))
			}
			if config.AITimeout > 0 {
				opts = append(opts, foreign.WithGeminiTimeout(config.AITimeout))
			}
			provider = foreign.NewGemini(opts...)
		case ProviderOllama:
			var opts []foreign.OllamaOption
			if config.AIModel != "" {
				opts = append(opts, foreign.WithOllamaModel(config.AIModel))
			}
			if config.AITimeout > 0 {
				opts = append(opts, foreign.WithOllamaTimeout(config.AITimeout))
			}
			provider = foreign.NewOllama(opts...)
		default:
			provider = foreign.NewSimulated()
		}
	}

	var store cache.Store
	if config.CachePath != "" {
		s, err := cache.NewSQLite(config.CachePath)
		if err != nil {
			return nil, nil, err
		}
		store = s
	} else {
		store = cache.NewMemory()
	}

	registry := foreign.NewRegistry(provider, store)
	for name, fn := range config.Funcs {
		registry.Register(name, foreign.Func(fn))
	}
	return registry, store, nil
}
