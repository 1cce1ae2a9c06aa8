package interp

import (
	"strconv"
	"strings"

	"github.com/aiawk/aiawk/internal/token"
	"github.com/aiawk/aiawk/internal/types"
)

// setRecord replaces the current record and re-splits its fields with
// the current FS. Called once per input record and on assignment to $0.
func (p *Interp) setRecord(record string) {
	p.record = record
	p.fields = p.splitFields(record, p.fs)
}

// getField returns field n. Field 0 is the whole record; fields past
// NF read as uninitialized without extending the record.
func (p *Interp) getField(n int, pos token.Position) (types.Value, error) {
	switch {
	case n < 0:
		return types.Value{}, newError(pos, "field index negative: $%d", n)
	case n == 0:
		return types.Strnum(p.record), nil
	case n <= len(p.fields):
		return types.Strnum(p.fields[n-1]), nil
	default:
		return types.Uninit(), nil
	}
}

// setField assigns field n and maintains the rebuild invariant:
// writing $0 re-splits all fields with FS; writing $n (n >= 1 and
// possibly past NF, which extends with empty fields) rebuilds the
// record as the fields joined by OFS.
func (p *Interp) setField(n int, value string, pos token.Position) error {
	switch {
	case n < 0:
		return newError(pos, "field index negative: $%d", n)
	case n == 0:
		p.setRecord(value)
		return nil
	default:
		for len(p.fields) < n {
			p.fields = append(p.fields, "")
		}
		p.fields[n-1] = value
		p.record = strings.Join(p.fields, p.ofs)
		return nil
	}
}

// setNF truncates or extends the field list and rebuilds the record.
func (p *Interp) setNF(nf int, pos token.Position) error {
	if nf < 0 {
		return newError(pos, "NF set to negative value: %d", nf)
	}
	for len(p.fields) < nf {
		p.fields = append(p.fields, "")
	}
	p.fields = p.fields[:nf]
	p.record = strings.Join(p.fields, p.ofs)
	return nil
}

// splitFields splits a record into fields using fs. The default FS " "
// means any run of blanks with leading/trailing runs ignored; any other
// single character splits literally; longer separators are regexes.
func (p *Interp) splitFields(s, fs string) []string {
	switch {
	case s == "":
		return nil
	case fs == " ":
		return strings.FieldsFunc(s, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\n'
		})
	case len(fs) == 1 && fs != "\\":
		return strings.Split(s, fs)
	default:
		re, err := p.regexes.Get(fs)
		if err != nil {
			// An unparsable FS falls back to literal splitting
			return strings.Split(s, fs)
		}
		return re.Split(s, -1)
	}
}

// -----------------------------------------------------------------------------
// Variable access
// -----------------------------------------------------------------------------

// specialVars are built-in variables with read/write hooks. They live
// on the session struct, not in the globals map, so writing FS or NF
// can trigger their side effects.
var specialVars = map[string]bool{
	"NR": true, "NF": true, "FNR": true, "FILENAME": true,
	"FS": true, "OFS": true, "ORS": true, "RS": true,
	"CONVFMT": true, "OFMT": true, "SUBSEP": true,
	"RSTART": true, "RLENGTH": true,
}

func (p *Interp) getVar(name string, pos token.Position) (types.Value, error) {
	switch name {
	case "NR":
		return types.Num(float64(p.nr)), nil
	case "NF":
		return types.Num(float64(len(p.fields))), nil
	case "FNR":
		return types.Num(float64(p.fnr)), nil
	case "FILENAME":
		return types.Str(p.filename), nil
	case "FS":
		return types.Str(p.fs), nil
	case "OFS":
		return types.Str(p.ofs), nil
	case "ORS":
		return types.Str(p.ors), nil
	case "RS":
		return types.Str(p.rs), nil
	case "CONVFMT":
		return types.Str(p.convfmt), nil
	case "OFMT":
		return types.Str(p.ofmt), nil
	case "SUBSEP":
		return types.Str(p.subsep), nil
	case "RSTART":
		return types.Num(p.rstart), nil
	case "RLENGTH":
		return types.Num(p.rlength), nil
	}

	if p.frame != nil {
		if c, ok := p.frame.cells[name]; ok {
			if c.kind == cellArray {
				return types.Value{}, newError(pos, "can't use array %q in scalar context", name)
			}
			return c.val, nil
		}
	}

	if _, isArray := p.arrays[name]; isArray {
		return types.Value{}, newError(pos, "can't use array %q in scalar context", name)
	}
	return p.globals[name], nil
}

func (p *Interp) setVar(name string, v types.Value, pos token.Position) error {
	switch name {
	case "NR":
		p.nr = int(v.Num())
		return nil
	case "NF":
		return p.setNF(int(v.Num()), pos)
	case "FNR":
		p.fnr = int(v.Num())
		return nil
	case "FILENAME":
		p.filename = v.Str(p.convfmt)
		return nil
	case "FS":
		p.fs = v.Str(p.convfmt)
		return nil
	case "OFS":
		p.ofs = v.Str(p.convfmt)
		return nil
	case "ORS":
		p.ors = v.Str(p.convfmt)
		return nil
	case "RS":
		rs := v.Str(p.convfmt)
		if len(rs) > 1 {
			return newError(pos, "RS must be a single character or empty, got %q", rs)
		}
		p.rs = rs
		return nil
	case "CONVFMT":
		p.convfmt = v.Str(p.convfmt)
		return nil
	case "OFMT":
		p.ofmt = v.Str(p.convfmt)
		return nil
	case "SUBSEP":
		p.subsep = v.Str(p.convfmt)
		return nil
	case "RSTART":
		p.rstart = v.Num()
		return nil
	case "RLENGTH":
		p.rlength = v.Num()
		return nil
	}

	if p.frame != nil {
		if c, ok := p.frame.cells[name]; ok {
			if c.kind == cellArray {
				return newError(pos, "can't assign scalar to array %q", name)
			}
			c.kind = cellScalar
			c.val = v
			return nil
		}
	}

	if _, isArray := p.arrays[name]; isArray {
		return newError(pos, "can't assign scalar to array %q", name)
	}
	p.globals[name] = v
	return nil
}

// numToStr formats a number used as an array subscript or string.
func (p *Interp) numToStr(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return types.FormatNum(n, p.convfmt)
}
