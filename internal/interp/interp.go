// Package interp executes parsed programs by walking the syntax tree.
// One Interp is one run: it owns the environment (globals, arrays,
// special variables), the current record and its fields, and the
// input/output streams. Execution is single-threaded; records are
// processed strictly in input order.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/aiawk/aiawk/internal/ast"
	"github.com/aiawk/aiawk/internal/foreign"
	"github.com/aiawk/aiawk/internal/runtime"
	"github.com/aiawk/aiawk/internal/token"
	"github.com/aiawk/aiawk/internal/types"
)

// maxCallDepth bounds user-function recursion.
const maxCallDepth = 1000

// Config configures a single run.
type Config struct {
	// Stdin is the record source when Files is empty or contains "-".
	Stdin io.Reader
	// Output receives print/printf output. Defaults to os.Stdout.
	Output io.Writer
	// Errors receives foreign-call diagnostics. Defaults to os.Stderr.
	Errors io.Writer
	// Vars are variable assignments applied before BEGIN rules run.
	// Values get input-string semantics, so FS="," and N=42 both work.
	Vars map[string]string
	// Files are the input file names, read in order. Empty means Stdin.
	Files []string
	// Foreign resolves ai_* and registered custom function names.
	// Nil disables foreign calls (they become undefined-function errors).
	Foreign *foreign.Registry
}

// Error is a fatal runtime error with the offending source position.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

func newError(pos token.Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Control-flow sentinels. They travel up the exec/eval error path and
// are consumed by the construct they belong to.
type (
	errBreak    struct{}
	errContinue struct{}
	errNext     struct{}
	errNextFile struct{}
	errExit     struct{ code int }
	errReturn   struct{ value types.Value }
)

func (errBreak) Error() string    { return "break" }
func (errContinue) Error() string { return "continue" }
func (errNext) Error() string     { return "next" }
func (errNextFile) Error() string { return "nextfile" }
func (errExit) Error() string     { return "exit" }
func (errReturn) Error() string   { return "return" }

// Interp is the interpreter session for one run.
type Interp struct {
	program *ast.Program
	funcs   map[string]*ast.FuncDecl

	output *bufio.Writer
	errors io.Writer
	stdin  io.Reader

	ioMgr   *runtime.IOManager
	regexes *runtime.RegexCache
	foreign *foreign.Registry
	// resolved foreign functions, by name
	foreignFuncs map[string]foreign.Func

	globals map[string]types.Value
	arrays  map[string]*types.Array
	frame   *frame
	depth   int

	// Current record and its fields (index 0 = field 1).
	record string
	fields []string

	// Special variables.
	fs       string
	ofs      string
	ors      string
	rs       string
	convfmt  string
	ofmt     string
	subsep   string
	filename string
	nr       int
	fnr      int
	rstart   float64
	rlength  float64

	// Range pattern state, one flag per rule.
	rangeActive []bool

	input    *recordReader
	exitCode int

	rng     *rand.Rand
	rngSeed float64
}

// ExecProgram runs a parsed program and returns its exit code. A
// non-nil error means the run was aborted by a fatal runtime error;
// the exit code is only meaningful when the error is nil.
func ExecProgram(prog *ast.Program, cfg *Config) (int, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	stdin := cfg.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	errOut := cfg.Errors
	if errOut == nil {
		errOut = os.Stderr
	}

	p := &Interp{
		program: prog,
		funcs:   make(map[string]*ast.FuncDecl, len(prog.Functions)),
		output:  bufio.NewWriter(out),
		errors:  errOut,
		stdin:   stdin,

		ioMgr:        runtime.NewIOManager(out, errOut),
		regexes:      runtime.NewRegexCache(100),
		foreign:      cfg.Foreign,
		foreignFuncs: make(map[string]foreign.Func),

		globals: make(map[string]types.Value),
		arrays:  make(map[string]*types.Array),

		fs:      " ",
		ofs:     " ",
		ors:     "\n",
		rs:      "\n",
		convfmt: "%.6g",
		ofmt:    "%.6g",
		subsep:  "\x1c",
		rlength: -1,

		rangeActive: make([]bool, len(prog.Rules)),

		rng: rand.New(rand.NewSource(0)),
	}

	for _, fn := range prog.Functions {
		if _, exists := p.funcs[fn.Name]; exists {
			return 1, newError(fn.NamePos, "function %q defined twice", fn.Name)
		}
		p.funcs[fn.Name] = fn
	}

	for name, value := range cfg.Vars {
		if err := p.setVar(name, types.Strnum(value), token.NoPos); err != nil {
			return 1, err
		}
	}

	p.input = newRecordReader(stdin, cfg.Files)

	err := p.run()
	p.output.Flush()
	p.ioMgr.CloseAll()
	if err != nil {
		return 1, err
	}
	return p.exitCode, nil
}

// run executes BEGIN rules, the record loop, then END rules. exit
// anywhere skips to the END rules; exit inside END stops immediately.
func (p *Interp) run() error {
	exited := false

	for _, block := range p.program.Begin {
		if err := p.execBlock(block); err != nil {
			if ex, ok := err.(errExit); ok {
				p.exitCode = ex.code
				exited = true
				break
			}
			return err
		}
	}

	// POSIX: a program with only BEGIN rules reads no input.
	needsInput := len(p.program.Rules) > 0 || len(p.program.EndBlocks) > 0
	if !exited && needsInput {
		if err := p.mainLoop(); err != nil {
			if ex, ok := err.(errExit); ok {
				p.exitCode = ex.code
			} else {
				return err
			}
		}
	}

	for _, block := range p.program.EndBlocks {
		if err := p.execBlock(block); err != nil {
			if ex, ok := err.(errExit); ok {
				p.exitCode = ex.code
				return nil
			}
			return err
		}
	}
	return nil
}

func (p *Interp) mainLoop() error {
	for {
		record, err := p.nextMainRecord()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		p.setRecord(record)

		if err := p.runRules(); err != nil {
			switch err.(type) {
			case errNext:
				continue
			case errNextFile:
				p.input.skipFile()
				continue
			default:
				return err
			}
		}
	}
}

// runRules evaluates every rule, in order, against the current record.
func (p *Interp) runRules() error {
	for i, rule := range p.program.Rules {
		matched, err := p.matchPattern(i, rule.Pattern)
		if err != nil {
			return err
		}
		if !matched {
			continue
		}
		if rule.Action == nil {
			// Default action prints the record
			if err := p.printLine(p.output, []string{p.record}); err != nil {
				return err
			}
			continue
		}
		if err := p.execBlock(rule.Action); err != nil {
			return err
		}
	}
	return nil
}

// matchPattern evaluates a rule pattern against the current record.
// Range patterns flip an active flag: the rule matches every record
// from one matching Left through the next matching Right.
func (p *Interp) matchPattern(ruleIndex int, pattern ast.Expr) (bool, error) {
	if pattern == nil {
		return true, nil
	}

	if rng, ok := pattern.(*ast.CommaExpr); ok {
		if !p.rangeActive[ruleIndex] {
			start, err := p.evalBool(rng.Left)
			if err != nil || !start {
				return false, err
			}
			// A record can both open and close the range
			end, err := p.evalBool(rng.Right)
			if err != nil {
				return false, err
			}
			p.rangeActive[ruleIndex] = !end
			return true, nil
		}
		end, err := p.evalBool(rng.Right)
		if err != nil {
			return false, err
		}
		if end {
			p.rangeActive[ruleIndex] = false
		}
		return true, nil
	}

	return p.evalBool(pattern)
}

// evalBool evaluates an expression as a pattern or condition. A bare
// regex matches against the current record.
func (p *Interp) evalBool(expr ast.Expr) (bool, error) {
	v, err := p.eval(expr)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// -----------------------------------------------------------------------------
// Statement execution
// -----------------------------------------------------------------------------

func (p *Interp) execBlock(block *ast.BlockStmt) error {
	for _, stmt := range block.Stmts {
		if err := p.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (p *Interp) exec(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := p.eval(s.Expr)
		return err

	case *ast.BlockStmt:
		return p.execBlock(s)

	case *ast.PrintStmt:
		return p.execPrint(s)

	case *ast.IfStmt:
		cond, err := p.evalBool(s.Cond)
		if err != nil {
			return err
		}
		if cond {
			if s.Then != nil {
				return p.exec(s.Then)
			}
			return nil
		}
		if s.Else != nil {
			return p.exec(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := p.evalBool(s.Cond)
			if err != nil {
				return err
			}
			if !cond {
				return nil
			}
			if err := p.execLoopBody(s.Body); err != nil {
				if _, ok := err.(errBreak); ok {
					return nil
				}
				return err
			}
		}

	case *ast.DoWhileStmt:
		for {
			if err := p.execLoopBody(s.Body); err != nil {
				if _, ok := err.(errBreak); ok {
					return nil
				}
				return err
			}
			cond, err := p.evalBool(s.Cond)
			if err != nil {
				return err
			}
			if !cond {
				return nil
			}
		}

	case *ast.ForStmt:
		if s.Init != nil {
			if err := p.exec(s.Init); err != nil {
				return err
			}
		}
		for {
			if s.Cond != nil {
				cond, err := p.evalBool(s.Cond)
				if err != nil {
					return err
				}
				if !cond {
					return nil
				}
			}
			if err := p.execLoopBody(s.Body); err != nil {
				if _, ok := err.(errBreak); ok {
					return nil
				}
				return err
			}
			if s.Post != nil {
				if err := p.exec(s.Post); err != nil {
					return err
				}
			}
		}

	case *ast.ForInStmt:
		arr, err := p.arrayRef(s.Array)
		if err != nil {
			return err
		}
		// Iterate a snapshot: the body may delete or add keys. Sorted
		// order keeps runs reproducible; AWK leaves the order
		// unspecified.
		keys := arr.Keys()
		sort.Strings(keys)
		for _, key := range keys {
			if !arr.Contains(key) {
				continue
			}
			if err := p.assign(s.Var, types.Strnum(key)); err != nil {
				return err
			}
			if s.Body == nil {
				continue
			}
			if err := p.execLoopBody(s.Body); err != nil {
				if _, ok := err.(errBreak); ok {
					return nil
				}
				return err
			}
		}
		return nil

	case *ast.BreakStmt:
		return errBreak{}

	case *ast.ContinueStmt:
		return errContinue{}

	case *ast.NextStmt:
		return errNext{}

	case *ast.NextFileStmt:
		return errNextFile{}

	case *ast.ExitStmt:
		code := 0
		if s.Code != nil {
			v, err := p.eval(s.Code)
			if err != nil {
				return err
			}
			code = int(v.Num())
		}
		return errExit{code: code}

	case *ast.ReturnStmt:
		value := types.Uninit()
		if s.Value != nil {
			v, err := p.eval(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return errReturn{value: value}

	case *ast.DeleteStmt:
		arr, err := p.arrayRef(s.Array)
		if err != nil {
			return err
		}
		if len(s.Index) == 0 {
			arr.Clear()
			return nil
		}
		key, err := p.evalIndex(s.Index)
		if err != nil {
			return err
		}
		arr.Delete(key)
		return nil

	case nil:
		return nil

	default:
		return newError(stmt.Pos(), "unhandled statement type %T", stmt)
	}
}

// execLoopBody runs a loop body, absorbing continue.
func (p *Interp) execLoopBody(body ast.Stmt) error {
	if body == nil {
		return nil
	}
	err := p.exec(body)
	if _, ok := err.(errContinue); ok {
		return nil
	}
	return err
}

// -----------------------------------------------------------------------------
// print and printf
// -----------------------------------------------------------------------------

func (p *Interp) execPrint(s *ast.PrintStmt) error {
	var out io.Writer = p.output
	if s.Dest != nil {
		dest, err := p.eval(s.Dest)
		if err != nil {
			return err
		}
		out, err = p.ioMgr.GetOutputFile(dest.Str(p.convfmt), s.Redirect == token.APPEND)
		if err != nil {
			return newError(s.Pos(), "can't redirect to %q: %v", dest.Str(p.convfmt), err)
		}
	}

	if s.Printf {
		format, err := p.eval(s.Args[0])
		if err != nil {
			return err
		}
		args := make([]types.Value, 0, len(s.Args)-1)
		for _, argExpr := range s.Args[1:] {
			v, err := p.eval(argExpr)
			if err != nil {
				return err
			}
			args = append(args, v)
		}
		text, err := p.sprintf(format.Str(p.convfmt), args, s.Pos())
		if err != nil {
			return err
		}
		_, werr := io.WriteString(out, text)
		return werr
	}

	if len(s.Args) == 0 {
		return p.printLine(out, []string{p.record})
	}
	parts := make([]string, 0, len(s.Args))
	for _, argExpr := range s.Args {
		v, err := p.eval(argExpr)
		if err != nil {
			return err
		}
		parts = append(parts, v.Str(p.ofmt))
	}
	return p.printLine(out, parts)
}

// printLine writes parts joined by OFS, terminated by ORS.
func (p *Interp) printLine(out io.Writer, parts []string) error {
	for i, part := range parts {
		if i > 0 {
			if _, err := io.WriteString(out, p.ofs); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, part); err != nil {
			return err
		}
	}
	_, err := io.WriteString(out, p.ors)
	return err
}
