// Package aiawk provides an AWK interpreter with AI-powered text
// functions.
//
// aiawk runs classic AWK programs (pattern-action rules, fields,
// user-defined functions) and extends the language with a family of
// ai_* foreign functions that send text to a language-model provider:
//
//	aiawk 'NF { print $0, "->", ai_sentiment($0) }' reviews.txt
//
// Providers are pluggable: Anthropic's API, a local Ollama server, or
// a deterministic simulated provider for offline use and testing.
// Responses are cached (in memory, or in SQLite with a cache path) so
// repeated calls with identical arguments cost one provider round trip.
//
// # Quick Start
//
// For simple one-off execution:
//
//	output, err := aiawk.Run(`{ print $1 }`, strings.NewReader("hello world"), nil)
//
// With configuration:
//
//	output, err := aiawk.Run(program, input, &aiawk.Config{
//	    FS: ":",
//	    Variables: map[string]string{"threshold": "100"},
//	})
//
// # Compiled Programs
//
// For repeated execution of the same program:
//
//	prog, err := aiawk.Compile(`$1 > threshold { print $2 }`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, file := range files {
//	    output, err := prog.Run(file, &aiawk.Config{
//	        Variables: map[string]string{"threshold": "100"},
//	    })
//	    // ...
//	}
//
// # AI Functions
//
// The ai_* functions return "" and continue the run when the provider
// fails; a diagnostic line goes to Config.Stderr. Custom foreign
// functions can be registered through Config.Funcs, and a custom
// Provider can be injected for tests:
//
//	output, err := aiawk.Run(`{ print ai_call($0) }`, input, &aiawk.Config{
//	    Provider: myProvider,
//	})
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: syntax errors in AWK source
//   - [RuntimeError]: errors during execution
//   - [ExitError]: the program called exit with a nonzero status
//
// # Thread Safety
//
// Compiled [Program] objects are safe for concurrent use.
// Each call to [Program.Run] creates an independent execution context.
package aiawk
