// aiawk - AWK with AI-powered text functions
//
// Uses manual argument parsing for POSIX compatibility (supports -F: style flags).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/aiawk/aiawk"
	"github.com/aiawk/aiawk/internal/ast"
	"github.com/aiawk/aiawk/internal/parser"
)

// version is set by GoReleaser at build time via -ldflags.
// For development builds, it will be "dev".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	shortUsage = "usage: aiawk [-F fs] [-v var=value] [--ai provider] [-f progfile | 'prog'] [file ...]"
	longUsage  = `Standard AWK arguments:
  -F separator      field separator (default " ")
  -f progfile       load AWK source from progfile (multiple allowed)
  -v var=value      variable assignment (multiple allowed)

AI arguments:
  --ai provider     ai_* backend: simulated (default), anthropic, openai,
                    gemini, ollama, none
  --ai-model name   override the provider's default model
  --ai-timeout dur  per-request timeout, e.g. 30s (default 10s)
  --cache path      persist the ai_* response cache in a SQLite file
                    (default: in-memory cache for the run)

Debugging arguments:
  -d                print parsed AST to stderr and exit

Other:
  -h, --help        show this help message
  -version          show aiawk version and exit
`
)

//nolint:gocyclo,funlen // CLI argument parsing is inherently complex
func main() {
	// Parse command line arguments manually rather than using the
	// "flag" package, so we can support flags with no space between
	// flag and argument, like '-F:' (allowed by POSIX)
	var progFiles []string
	var vars []string
	fieldSep := " "
	aiProvider := ""
	aiModel := ""
	aiTimeout := time.Duration(0)
	cachePath := ""
	debug := false

	var i int
	for i = 1; i < len(os.Args); i++ {
		// Stop on explicit end of args or first arg not prefixed with "-"
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-F":
			fieldSep = nextArg(&i, "-F")
		case "-f":
			progFiles = append(progFiles, nextArg(&i, "-f"))
		case "-v":
			vars = append(vars, nextArg(&i, "-v"))
		case "--ai":
			aiProvider = nextArg(&i, "--ai")
		case "--ai-model":
			aiModel = nextArg(&i, "--ai-model")
		case "--ai-timeout":
			s := nextArg(&i, "--ai-timeout")
			d, err := time.ParseDuration(s)
			if err != nil || d <= 0 {
				errorExitf("invalid timeout: %s", s)
			}
			aiTimeout = d
		case "--cache":
			cachePath = nextArg(&i, "--cache")
		case "-d":
			debug = true
		case "-h", "--help":
			fmt.Printf("aiawk %s - AWK with AI functions\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case "-version", "--version":
			fmt.Printf("aiawk version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
			fmt.Println("  regex:  coregex")
			os.Exit(0)
		default:
			// Handle flags with no space: -F:, -ffile, -vvar=val
			switch {
			case strings.HasPrefix(arg, "-F"):
				fieldSep = arg[2:]
			case strings.HasPrefix(arg, "-f"):
				progFiles = append(progFiles, arg[2:])
			case strings.HasPrefix(arg, "-v"):
				vars = append(vars, arg[2:])
			default:
				errorExitf("flag provided but not defined: %s", arg)
			}
		}
	}

	// Remaining args are program and input files
	args := os.Args[i:]

	// Determine program source
	var program string
	var inputFiles []string

	if len(progFiles) > 0 {
		// Read program from files
		var sb strings.Builder
		for _, f := range progFiles {
			content, err := os.ReadFile(f)
			if err != nil {
				errorExitf("cannot read program file %s: %v", f, err)
			}
			sb.Write(content)
			sb.WriteByte('\n')
		}
		program = sb.String()
		inputFiles = args
	} else if len(args) > 0 {
		// First arg is the program
		program = args[0]
		inputFiles = args[1:]
	} else {
		errorExitf(shortUsage)
	}

	if debug {
		prog, err := parser.Parse(program)
		if err != nil {
			errorExit(err)
		}
		if err := ast.Fprint(os.Stderr, prog); err != nil {
			errorExit(err)
		}
		os.Exit(0)
	}

	prog, err := aiawk.Compile(program)
	if err != nil {
		errorExit(err)
	}

	// Buffered output for performance
	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	config := &aiawk.Config{
		FS:         fieldSep,
		Output:     stdout,
		Stderr:     os.Stderr,
		Files:      inputFiles,
		AIProvider: aiProvider,
		AIModel:    aiModel,
		AITimeout:  aiTimeout,
		CachePath:  cachePath,
	}

	// Parse variable assignments
	if len(vars) > 0 {
		config.Variables = make(map[string]string)
		for _, v := range vars {
			name, value, ok := strings.Cut(v, "=")
			if !ok {
				errorExitf("invalid variable assignment: %s (expected var=value)", v)
			}
			config.Variables[name] = value
		}
	}

	// Reading records from an interactive terminal is usually a mistake
	if len(inputFiles) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "aiawk: reading from terminal (press Ctrl-D to end input)")
	}

	_, err = prog.Run(os.Stdin, config)
	if err != nil {
		// Check if it's a normal exit with non-zero code
		if code, ok := aiawk.IsExitError(err); ok {
			stdout.Flush()
			os.Exit(code)
		}
		errorExit(err)
	}
}

// nextArg returns the argument following flag, advancing the index.
func nextArg(i *int, flag string) string {
	if *i+1 >= len(os.Args) {
		errorExitf("flag needs an argument: %s", flag)
	}
	*i++
	return os.Args[*i]
}

// errorExitf prints formatted error message and exits with code 1
func errorExitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "aiawk: "+format+"\n", args...)
	os.Exit(1)
}

// errorExit prints error and exits with code 1
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "aiawk: %v\n", err)
	os.Exit(1)
}
