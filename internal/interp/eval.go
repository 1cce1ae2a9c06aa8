package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/aiawk/aiawk/internal/ast"
	"github.com/aiawk/aiawk/internal/foreign"
	"github.com/aiawk/aiawk/internal/token"
	"github.com/aiawk/aiawk/internal/types"
)

// cellKind tags a function-local binding. A parameter left unset by
// the caller (the locals-as-extra-params convention) starts as
// cellUnset and commits to scalar or array on first use.
type cellKind uint8

const (
	cellUnset cellKind = iota
	cellScalar
	cellArray
)

type cell struct {
	kind cellKind
	val  types.Value
	arr  *types.Array
	// vivify resolves a caller-passed uninitialized variable into an
	// array in the caller's scope, so array creation inside the callee
	// is visible to the caller.
	vivify func() *types.Array
}

// asArray commits the cell to array kind.
func (c *cell) asArray() *types.Array {
	if c.kind == cellArray {
		return c.arr
	}
	if c.vivify != nil {
		c.arr = c.vivify()
	} else {
		c.arr = types.NewArray()
	}
	c.kind = cellArray
	return c.arr
}

type frame struct {
	fn    *ast.FuncDecl
	cells map[string]*cell
}

// -----------------------------------------------------------------------------
// Expression evaluation
// -----------------------------------------------------------------------------

func (p *Interp) eval(expr ast.Expr) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.NumLit:
		return types.Num(e.Value), nil

	case *ast.StrLit:
		return types.Str(e.Value), nil

	case *ast.RegexLit:
		// A bare regex matches against the current record
		re, err := p.regexes.Get(e.Pattern)
		if err != nil {
			return types.Value{}, newError(e.Pos(), "invalid regex /%s/: %v", e.Pattern, err)
		}
		return types.Bool(re.MatchString(p.record)), nil

	case *ast.Ident:
		return p.getVar(e.Name, e.Pos())

	case *ast.FieldExpr:
		idx, err := p.eval(e.Index)
		if err != nil {
			return types.Value{}, err
		}
		return p.getField(int(idx.Num()), e.Pos())

	case *ast.IndexExpr:
		arr, err := p.arrayRef(e.Array)
		if err != nil {
			return types.Value{}, err
		}
		key, err := p.evalIndex(e.Index)
		if err != nil {
			return types.Value{}, err
		}
		return arr.Ensure(key), nil

	case *ast.GroupExpr:
		return p.eval(e.Expr)

	case *ast.BinaryExpr:
		return p.evalBinary(e)

	case *ast.UnaryExpr:
		return p.evalUnary(e)

	case *ast.TernaryExpr:
		cond, err := p.evalBool(e.Cond)
		if err != nil {
			return types.Value{}, err
		}
		if cond {
			return p.eval(e.Then)
		}
		return p.eval(e.Else)

	case *ast.AssignExpr:
		return p.evalAssign(e)

	case *ast.ConcatExpr:
		var sb strings.Builder
		for _, part := range e.Exprs {
			v, err := p.eval(part)
			if err != nil {
				return types.Value{}, err
			}
			sb.WriteString(v.Str(p.convfmt))
		}
		return types.Str(sb.String()), nil

	case *ast.MatchExpr:
		return p.evalMatch(e)

	case *ast.InExpr:
		arr, err := p.arrayRef(e.Array)
		if err != nil {
			return types.Value{}, err
		}
		key, err := p.evalIndex(e.Index)
		if err != nil {
			return types.Value{}, err
		}
		// `in` tests membership without vivifying
		return types.Bool(arr.Contains(key)), nil

	case *ast.BuiltinExpr:
		return p.callBuiltin(e)

	case *ast.CallExpr:
		return p.call(e)

	case *ast.GetlineExpr:
		return p.evalGetline(e)

	case *ast.CommaExpr:
		return types.Value{}, newError(e.Pos(), "range pattern not allowed here")

	default:
		return types.Value{}, newError(expr.Pos(), "unhandled expression type %T", expr)
	}
}

func (p *Interp) evalBinary(e *ast.BinaryExpr) (types.Value, error) {
	// && and || short-circuit
	switch e.Op {
	case token.AND:
		left, err := p.evalBool(e.Left)
		if err != nil || !left {
			return types.Bool(false), err
		}
		right, err := p.evalBool(e.Right)
		return types.Bool(right), err
	case token.OR:
		left, err := p.evalBool(e.Left)
		if err != nil {
			return types.Value{}, err
		}
		if left {
			return types.Bool(true), nil
		}
		right, err := p.evalBool(e.Right)
		return types.Bool(right), err
	}

	left, err := p.eval(e.Left)
	if err != nil {
		return types.Value{}, err
	}
	right, err := p.eval(e.Right)
	if err != nil {
		return types.Value{}, err
	}

	switch e.Op {
	case token.EQUALS:
		return types.Bool(types.Compare(left, right, p.convfmt) == 0), nil
	case token.NOT_EQUALS:
		return types.Bool(types.Compare(left, right, p.convfmt) != 0), nil
	case token.LESS:
		return types.Bool(types.Compare(left, right, p.convfmt) < 0), nil
	case token.LTE:
		return types.Bool(types.Compare(left, right, p.convfmt) <= 0), nil
	case token.GREATER:
		return types.Bool(types.Compare(left, right, p.convfmt) > 0), nil
	case token.GTE:
		return types.Bool(types.Compare(left, right, p.convfmt) >= 0), nil
	default:
		n, err := p.arith(e.Op, left.Num(), right.Num(), e.Pos())
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(n), nil
	}
}

func (p *Interp) arith(op token.Token, l, r float64, pos token.Position) (float64, error) {
	switch op {
	case token.ADD:
		return l + r, nil
	case token.SUB:
		return l - r, nil
	case token.MUL:
		return l * r, nil
	case token.DIV:
		if r == 0 {
			return 0, newError(pos, "division by zero")
		}
		return l / r, nil
	case token.MOD:
		if r == 0 {
			return 0, newError(pos, "division by zero in %%")
		}
		return math.Mod(l, r), nil
	case token.POW:
		return math.Pow(l, r), nil
	default:
		return 0, newError(pos, "unknown operator %v", op)
	}
}

func (p *Interp) evalUnary(e *ast.UnaryExpr) (types.Value, error) {
	switch e.Op {
	case token.NOT:
		v, err := p.evalBool(e.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Bool(!v), nil

	case token.ADD:
		v, err := p.eval(e.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(v.Num()), nil

	case token.SUB:
		v, err := p.eval(e.Expr)
		if err != nil {
			return types.Value{}, err
		}
		return types.Num(-v.Num()), nil

	case token.INCR, token.DECR:
		old, err := p.eval(e.Expr)
		if err != nil {
			return types.Value{}, err
		}
		delta := 1.0
		if e.Op == token.DECR {
			delta = -1
		}
		updated := types.Num(old.Num() + delta)
		if err := p.assign(e.Expr, updated); err != nil {
			return types.Value{}, err
		}
		if e.Post {
			return types.Num(old.Num()), nil
		}
		return updated, nil

	default:
		return types.Value{}, newError(e.Pos(), "unknown unary operator %v", e.Op)
	}
}

func (p *Interp) evalAssign(e *ast.AssignExpr) (types.Value, error) {
	right, err := p.eval(e.Right)
	if err != nil {
		return types.Value{}, err
	}

	if e.Op != token.ASSIGN {
		left, err := p.eval(e.Left)
		if err != nil {
			return types.Value{}, err
		}
		var op token.Token
		switch e.Op {
		case token.ADD_ASSIGN:
			op = token.ADD
		case token.SUB_ASSIGN:
			op = token.SUB
		case token.MUL_ASSIGN:
			op = token.MUL
		case token.DIV_ASSIGN:
			op = token.DIV
		case token.MOD_ASSIGN:
			op = token.MOD
		case token.POW_ASSIGN:
			op = token.POW
		}
		n, err := p.arith(op, left.Num(), right.Num(), e.Pos())
		if err != nil {
			return types.Value{}, err
		}
		right = types.Num(n)
	}

	if err := p.assign(e.Left, right); err != nil {
		return types.Value{}, err
	}
	return right, nil
}

// assign writes a value through an lvalue: variable, field, or array
// element.
func (p *Interp) assign(target ast.Expr, v types.Value) error {
	switch t := target.(type) {
	case *ast.Ident:
		return p.setVar(t.Name, v, t.Pos())

	case *ast.FieldExpr:
		idx, err := p.eval(t.Index)
		if err != nil {
			return err
		}
		return p.setField(int(idx.Num()), v.Str(p.convfmt), t.Pos())

	case *ast.IndexExpr:
		arr, err := p.arrayRef(t.Array)
		if err != nil {
			return err
		}
		key, err := p.evalIndex(t.Index)
		if err != nil {
			return err
		}
		arr.Set(key, v)
		return nil

	case *ast.GroupExpr:
		return p.assign(t.Expr, v)

	default:
		return newError(target.Pos(), "not an assignable expression")
	}
}

func (p *Interp) evalMatch(e *ast.MatchExpr) (types.Value, error) {
	str, err := p.eval(e.Expr)
	if err != nil {
		return types.Value{}, err
	}
	re, err := p.regexFor(e.Pattern)
	if err != nil {
		return types.Value{}, err
	}
	matched := re.MatchString(str.Str(p.convfmt))
	if e.Op == token.NOT_MATCH {
		matched = !matched
	}
	return types.Bool(matched), nil
}

// regexFor compiles a match operand: a regex literal uses its pattern
// text; any other expression is a dynamic regex built from its string
// value.
func (p *Interp) regexFor(expr ast.Expr) (regexMatcher, error) {
	var pattern string
	if lit, ok := expr.(*ast.RegexLit); ok {
		pattern = lit.Pattern
	} else {
		v, err := p.eval(expr)
		if err != nil {
			return nil, err
		}
		pattern = v.Str(p.convfmt)
	}
	re, err := p.regexes.Get(pattern)
	if err != nil {
		return nil, newError(expr.Pos(), "invalid regex %q: %v", pattern, err)
	}
	return re, nil
}

// regexMatcher is the slice of the regex API the evaluator needs.
type regexMatcher interface {
	MatchString(s string) bool
	FindStringIndex(s string) []int
	FindAllStringIndex(s string, n int) [][]int
	Split(s string, n int) []string
}

// evalIndex evaluates array subscripts, joining multiple with SUBSEP.
func (p *Interp) evalIndex(exprs []ast.Expr) (string, error) {
	if len(exprs) == 1 {
		v, err := p.eval(exprs[0])
		if err != nil {
			return "", err
		}
		return v.Str(p.convfmt), nil
	}
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		v, err := p.eval(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, v.Str(p.convfmt))
	}
	return strings.Join(parts, p.subsep), nil
}

// arrayRef resolves an expression (always an identifier) to an array,
// creating it on first reference. Using a scalar as an array is fatal.
func (p *Interp) arrayRef(expr ast.Expr) (*types.Array, error) {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return nil, newError(expr.Pos(), "expected array name")
	}
	return p.arrayByName(ident.Name, ident.Pos())
}

func (p *Interp) arrayByName(name string, pos token.Position) (*types.Array, error) {
	if specialVars[name] {
		return nil, newError(pos, "can't use %s as an array", name)
	}

	if p.frame != nil {
		if c, ok := p.frame.cells[name]; ok {
			switch c.kind {
			case cellArray:
				return c.arr, nil
			case cellScalar:
				return nil, newError(pos, "can't use scalar %q as array", name)
			default:
				return c.asArray(), nil
			}
		}
	}

	if arr, ok := p.arrays[name]; ok {
		return arr, nil
	}
	if v, ok := p.globals[name]; ok && !v.IsUninit() {
		return nil, newError(pos, "can't use scalar %q as array", name)
	}
	arr := types.NewArray()
	p.arrays[name] = arr
	return arr, nil
}

// -----------------------------------------------------------------------------
// Function calls
// -----------------------------------------------------------------------------

// call dispatches a name in call position: user-defined functions
// first, then the foreign registry. A miss in both is fatal at call
// time, not parse time, since functions may be declared after use.
func (p *Interp) call(e *ast.CallExpr) (types.Value, error) {
	if fn, ok := p.funcs[e.Name]; ok {
		return p.callUser(fn, e)
	}
	if p.foreign != nil {
		if fn, ok := p.resolveForeign(e.Name); ok {
			return p.callForeign(e.Name, fn, e)
		}
	}
	return types.Value{}, newError(e.Pos(), "calling undefined function %q", e.Name)
}

func (p *Interp) resolveForeign(name string) (foreign.Func, bool) {
	if fn, ok := p.foreignFuncs[name]; ok {
		return fn, true
	}
	fn, ok := p.foreign.Resolve(name)
	if !ok {
		return nil, false
	}
	p.foreignFuncs[name] = fn
	return fn, true
}

// callForeign marshals arguments to strings, invokes the foreign
// function, and maps failure to the empty-string sentinel plus a
// diagnostic. A single record's failed call never stops the run.
func (p *Interp) callForeign(name string, fn foreign.Func, e *ast.CallExpr) (types.Value, error) {
	args := make([]string, 0, len(e.Args))
	for _, argExpr := range e.Args {
		v, err := p.eval(argExpr)
		if err != nil {
			return types.Value{}, err
		}
		args = append(args, v.Str(p.convfmt))
	}

	result, err := fn(args)
	if err != nil {
		fmt.Fprintf(p.errors, "aiawk: %s: %s: %v\n", e.Pos(), name, err)
		return types.Str(""), nil
	}
	return types.Str(result), nil
}

// callUser executes a user-defined function. Scalar arguments pass by
// value; array arguments pass by reference. Parameters beyond the
// argument list are the function's locals.
func (p *Interp) callUser(fn *ast.FuncDecl, e *ast.CallExpr) (types.Value, error) {
	if len(e.Args) > len(fn.Params) {
		return types.Value{}, newError(e.Pos(), "function %q called with %d args, accepts at most %d",
			fn.Name, len(e.Args), len(fn.Params))
	}
	if p.depth >= maxCallDepth {
		return types.Value{}, newError(e.Pos(), "calling %q exceeded maximum call depth", fn.Name)
	}

	caller := p.frame
	cells := make(map[string]*cell, len(fn.Params))

	for i, param := range fn.Params {
		if i >= len(e.Args) {
			cells[param] = &cell{kind: cellUnset}
			continue
		}
		c, err := p.bindArg(e.Args[i])
		if err != nil {
			return types.Value{}, err
		}
		cells[param] = c
	}

	p.frame = &frame{fn: fn, cells: cells}
	p.depth++
	err := p.execBlock(fn.Body)
	p.depth--
	p.frame = caller

	if err != nil {
		if ret, ok := err.(errReturn); ok {
			return ret.value, nil
		}
		return types.Value{}, err
	}
	return types.Uninit(), nil
}

// bindArg binds one call argument to a parameter cell. An identifier
// already naming an array binds by reference; an identifier that is
// still unset binds deferred, so the callee can make it an array in
// the caller's scope; everything else evaluates to a by-value scalar.
func (p *Interp) bindArg(arg ast.Expr) (*cell, error) {
	if ident, ok := arg.(*ast.Ident); ok && !specialVars[ident.Name] {
		name := ident.Name

		if p.frame != nil {
			if c, ok := p.frame.cells[name]; ok {
				switch c.kind {
				case cellArray:
					return &cell{kind: cellArray, arr: c.arr}, nil
				case cellUnset:
					callee := c
					return &cell{kind: cellUnset, vivify: func() *types.Array {
						return callee.asArray()
					}}, nil
				default:
					return &cell{kind: cellScalar, val: c.val}, nil
				}
			}
		}

		if arr, ok := p.arrays[name]; ok {
			return &cell{kind: cellArray, arr: arr}, nil
		}
		if v, ok := p.globals[name]; ok {
			return &cell{kind: cellScalar, val: v}, nil
		}
		// Unset global: defer, in case the callee uses it as an array
		return &cell{kind: cellUnset, vivify: func() *types.Array {
			arr := types.NewArray()
			p.arrays[name] = arr
			return arr
		}}, nil
	}

	v, err := p.eval(arg)
	if err != nil {
		return nil, err
	}
	return &cell{kind: cellScalar, val: v}, nil
}
