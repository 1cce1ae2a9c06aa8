package interp

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aiawk/aiawk/internal/ast"
	"github.com/aiawk/aiawk/internal/token"
	"github.com/aiawk/aiawk/internal/types"
)

func (p *Interp) callBuiltin(e *ast.BuiltinExpr) (types.Value, error) {
	switch e.Func {
	case token.F_LENGTH:
		if len(e.Args) == 0 {
			return types.Num(float64(len(p.record))), nil
		}
		// length(arr) counts elements
		if ident, ok := e.Args[0].(*ast.Ident); ok && !specialVars[ident.Name] {
			if arr := p.existingArray(ident.Name); arr != nil {
				return types.Num(float64(arr.Len())), nil
			}
		}
		v, err := p.eval(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(float64(len(v.Str(p.convfmt)))), nil

	case token.F_SUBSTR:
		s, err := p.evalStr(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		m, err := p.eval(e.Args[1])
		if err != nil {
			return types.Value{}, err
		}
		length := math.Inf(1)
		if len(e.Args) == 3 {
			n, err := p.eval(e.Args[2])
			if err != nil {
				return types.Value{}, err
			}
			length = n.Num()
		}
		return types.Str(substr(s, m.Num(), length)), nil

	case token.F_INDEX:
		s, err := p.evalStr(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		t, err := p.evalStr(e.Args[1])
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(float64(strings.Index(s, t) + 1)), nil

	case token.F_SPLIT:
		return p.builtinSplit(e)

	case token.F_SUB, token.F_GSUB:
		return p.builtinSub(e, e.Func == token.F_GSUB)

	case token.F_MATCH:
		s, err := p.evalStr(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		re, err := p.regexFor(e.Args[1])
		if err != nil {
			return types.Value{}, err
		}
		loc := re.FindStringIndex(s)
		if loc == nil {
			p.rstart = 0
			p.rlength = -1
		} else {
			p.rstart = float64(loc[0] + 1)
			p.rlength = float64(loc[1] - loc[0])
		}
		return types.Num(p.rstart), nil

	case token.F_SPRINTF:
		format, err := p.evalStr(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		args := make([]types.Value, 0, len(e.Args)-1)
		for _, argExpr := range e.Args[1:] {
			v, err := p.eval(argExpr)
			if err != nil {
				return types.Value{}, err
			}
			args = append(args, v)
		}
		s, err := p.sprintf(format, args, e.Pos())
		if err != nil {
			return types.Value{}, err
		}
		return types.Str(s), nil

	case token.F_SIN, token.F_COS, token.F_EXP, token.F_LOG, token.F_SQRT, token.F_INT:
		v, err := p.eval(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		n := v.Num()
		switch e.Func {
		case token.F_SIN:
			n = math.Sin(n)
		case token.F_COS:
			n = math.Cos(n)
		case token.F_EXP:
			n = math.Exp(n)
		case token.F_LOG:
			n = math.Log(n)
		case token.F_SQRT:
			n = math.Sqrt(n)
		case token.F_INT:
			n = math.Trunc(n)
		}
		return types.Num(n), nil

	case token.F_ATAN2:
		y, err := p.eval(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		x, err := p.eval(e.Args[1])
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(math.Atan2(y.Num(), x.Num())), nil

	case token.F_RAND:
		return types.Num(p.rng.Float64()), nil

	case token.F_SRAND:
		prev := p.rngSeed
		var seed float64
		if len(e.Args) == 1 {
			v, err := p.eval(e.Args[0])
			if err != nil {
				return types.Value{}, err
			}
			seed = v.Num()
		} else {
			seed = float64(time.Now().UnixNano())
		}
		p.rngSeed = seed
		p.rng.Seed(int64(seed))
		return types.Num(prev), nil

	case token.F_TOLOWER:
		s, err := p.evalStr(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		return types.Str(strings.ToLower(s)), nil

	case token.F_TOUPPER:
		s, err := p.evalStr(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		return types.Str(strings.ToUpper(s)), nil

	case token.F_CLOSE:
		name, err := p.evalStr(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(float64(p.ioMgr.Close(name))), nil

	case token.F_FFLUSH:
		if len(e.Args) == 0 {
			p.output.Flush()
			return types.Num(float64(p.ioMgr.Flush(""))), nil
		}
		name, err := p.evalStr(e.Args[0])
		if err != nil {
			return types.Value{}, err
		}
		if name == "" {
			p.output.Flush()
		}
		return types.Num(float64(p.ioMgr.Flush(name))), nil

	default:
		return types.Value{}, newError(e.Pos(), "unhandled builtin %v", e.Func)
	}
}

func (p *Interp) evalStr(expr ast.Expr) (string, error) {
	v, err := p.eval(expr)
	if err != nil {
		return "", err
	}
	return v.Str(p.convfmt), nil
}

// existingArray returns the array bound to name, or nil, without
// creating one.
func (p *Interp) existingArray(name string) *types.Array {
	if p.frame != nil {
		if c, ok := p.frame.cells[name]; ok {
			if c.kind == cellArray {
				return c.arr
			}
			return nil
		}
	}
	return p.arrays[name]
}

// substr implements the POSIX clamping rules: the start position and
// length are clamped to the string, a start before 1 consumes length.
func substr(s string, m, n float64) string {
	start := int(m)
	var length int
	if math.IsInf(n, 1) {
		length = len(s) + 1
	} else {
		length = int(n)
	}

	if start < 1 {
		length += start - 1
		start = 1
	}
	if start > len(s) || length <= 0 {
		return ""
	}
	end := start - 1 + length
	if end > len(s) {
		end = len(s)
	}
	return s[start-1 : end]
}

func (p *Interp) builtinSplit(e *ast.BuiltinExpr) (types.Value, error) {
	s, err := p.evalStr(e.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	arr, err := p.arrayRef(e.Args[1])
	if err != nil {
		return types.Value{}, err
	}

	var parts []string
	if len(e.Args) == 3 {
		if lit, ok := e.Args[2].(*ast.RegexLit); ok {
			re, err := p.regexes.Get(lit.Pattern)
			if err != nil {
				return types.Value{}, newError(lit.Pos(), "invalid regex /%s/: %v", lit.Pattern, err)
			}
			if s == "" {
				parts = nil
			} else {
				parts = re.Split(s, -1)
			}
		} else {
			fs, err := p.evalStr(e.Args[2])
			if err != nil {
				return types.Value{}, err
			}
			parts = p.splitFields(s, fs)
		}
	} else {
		parts = p.splitFields(s, p.fs)
	}

	arr.Clear()
	for i, part := range parts {
		arr.Set(p.numToStr(float64(i+1)), types.Strnum(part))
	}
	return types.Num(float64(len(parts))), nil
}

// builtinSub implements sub and gsub. The third argument (default $0)
// is modified in place; the return value is the replacement count.
func (p *Interp) builtinSub(e *ast.BuiltinExpr, global bool) (types.Value, error) {
	re, err := p.regexFor(e.Args[0])
	if err != nil {
		return types.Value{}, err
	}
	repl, err := p.evalStr(e.Args[1])
	if err != nil {
		return types.Value{}, err
	}

	var target ast.Expr
	var s string
	if len(e.Args) == 3 {
		target = e.Args[2]
		v, err := p.eval(target)
		if err != nil {
			return types.Value{}, err
		}
		s = v.Str(p.convfmt)
	} else {
		s = p.record
	}

	var locs [][]int
	if global {
		locs = re.FindAllStringIndex(s, -1)
	} else {
		if loc := re.FindStringIndex(s); loc != nil {
			locs = [][]int{loc}
		}
	}
	if len(locs) == 0 {
		return types.Num(0), nil
	}

	var sb strings.Builder
	prev := 0
	for _, loc := range locs {
		sb.WriteString(s[prev:loc[0]])
		sb.WriteString(expandRepl(repl, s[loc[0]:loc[1]]))
		prev = loc[1]
	}
	sb.WriteString(s[prev:])
	result := sb.String()

	if target != nil {
		if err := p.assign(target, types.Str(result)); err != nil {
			return types.Value{}, err
		}
	} else {
		p.setRecord(result)
	}
	return types.Num(float64(len(locs))), nil
}

// expandRepl expands a sub/gsub replacement string: & is the matched
// text, \& a literal ampersand, \\ a literal backslash.
func expandRepl(repl, match string) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		switch repl[i] {
		case '\\':
			if i+1 < len(repl) && (repl[i+1] == '&' || repl[i+1] == '\\') {
				sb.WriteByte(repl[i+1])
				i++
			} else {
				sb.WriteByte('\\')
			}
		case '&':
			sb.WriteString(match)
		default:
			sb.WriteByte(repl[i])
		}
	}
	return sb.String()
}

// -----------------------------------------------------------------------------
// printf formatting
// -----------------------------------------------------------------------------

// sprintf implements AWK printf semantics on top of Go's fmt: numeric
// verbs coerce their argument numerically, %s formats with CONVFMT,
// and %c accepts either a character code or a string's first rune.
func (p *Interp) sprintf(format string, args []types.Value, pos token.Position) (string, error) {
	var sb strings.Builder
	argIdx := 0

	nextArg := func() (types.Value, error) {
		if argIdx >= len(args) {
			return types.Value{}, newError(pos, "not enough arguments for format %q", format)
		}
		v := args[argIdx]
		argIdx++
		return v, nil
	}

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			sb.WriteByte(format[i])
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			sb.WriteByte('%')
			i++
			continue
		}

		// Copy the conversion specification, resolving * arguments
		spec := []byte{'%'}
		i++
		for i < len(format) && strings.IndexByte("-+ 0#", format[i]) >= 0 {
			spec = append(spec, format[i])
			i++
		}
		i, spec = p.copyWidth(format, i, spec, nextArg)
		if i < len(format) && format[i] == '.' {
			spec = append(spec, '.')
			i++
			i, spec = p.copyWidth(format, i, spec, nextArg)
		}
		if i >= len(format) {
			return "", newError(pos, "missing conversion in format %q", format)
		}

		verb := format[i]
		switch verb {
		case 'd', 'i':
			v, err := nextArg()
			if err != nil {
				return "", err
			}
			spec = append(spec, 'd')
			fmt.Fprintf(&sb, string(spec), int64(v.Num()))
		case 'o', 'x', 'X', 'u':
			v, err := nextArg()
			if err != nil {
				return "", err
			}
			if verb == 'u' {
				verb = 'd'
			}
			spec = append(spec, verb)
			fmt.Fprintf(&sb, string(spec), int64(v.Num()))
		case 'e', 'E', 'f', 'F', 'g', 'G':
			v, err := nextArg()
			if err != nil {
				return "", err
			}
			if verb == 'F' {
				verb = 'f'
			}
			spec = append(spec, verb)
			fmt.Fprintf(&sb, string(spec), v.Num())
		case 'c':
			v, err := nextArg()
			if err != nil {
				return "", err
			}
			var c string
			if v.Kind() == types.KindNum {
				c = string(rune(int(v.Num())))
			} else if s := v.Str(p.convfmt); s != "" {
				c = string([]rune(s)[0])
			}
			spec = append(spec, 's')
			fmt.Fprintf(&sb, string(spec), c)
		case 's':
			v, err := nextArg()
			if err != nil {
				return "", err
			}
			spec = append(spec, 's')
			fmt.Fprintf(&sb, string(spec), v.Str(p.convfmt))
		default:
			return "", newError(pos, "invalid conversion %%%c in format %q", verb, format)
		}
	}
	return sb.String(), nil
}

// copyWidth copies a width or precision from the format, resolving a
// * from the argument list.
func (p *Interp) copyWidth(format string, i int, spec []byte, nextArg func() (types.Value, error)) (int, []byte) {
	if i < len(format) && format[i] == '*' {
		if v, err := nextArg(); err == nil {
			spec = append(spec, []byte(fmt.Sprintf("%d", int(v.Num())))...)
		}
		return i + 1, spec
	}
	for i < len(format) && format[i] >= '0' && format[i] <= '9' {
		spec = append(spec, format[i])
		i++
	}
	return i, spec
}
