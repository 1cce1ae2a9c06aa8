package interp

import (
	"bufio"
	"io"
	"os"

	"github.com/aiawk/aiawk/internal/ast"
	"github.com/aiawk/aiawk/internal/types"
)

// recordReader walks the input sources in order: each named file, or
// standard input when the list is empty or an entry is "-".
type recordReader struct {
	stdin io.Reader
	files []string

	nextFile int
	current  *bufio.Reader
	file     *os.File // nil when reading stdin
	name     string
}

func newRecordReader(stdin io.Reader, files []string) *recordReader {
	return &recordReader{stdin: stdin, files: files}
}

// advance opens the next input source. Returns io.EOF when all
// sources are exhausted.
func (r *recordReader) advance() error {
	r.closeCurrent()

	if len(r.files) == 0 {
		if r.nextFile > 0 {
			return io.EOF
		}
		r.nextFile = 1
		r.current = bufio.NewReader(r.stdin)
		r.name = ""
		return nil
	}

	if r.nextFile >= len(r.files) {
		return io.EOF
	}
	name := r.files[r.nextFile]
	r.nextFile++

	if name == "-" {
		r.current = bufio.NewReader(r.stdin)
		r.name = name
		return nil
	}

	f, err := os.Open(name)
	if err != nil {
		return err
	}
	r.file = f
	r.current = bufio.NewReader(f)
	r.name = name
	return nil
}

func (r *recordReader) closeCurrent() {
	if r.file != nil {
		r.file.Close()
		r.file = nil
	}
	r.current = nil
}

// nextMainRecord reads the next record from the main input, advancing
// through the file list and maintaining NR, FNR, and FILENAME. FNR
// resets at each file boundary; NR is monotonic across the whole run.
// Returns io.EOF when no input remains; an unreadable file is fatal.
func (p *Interp) nextMainRecord() (string, error) {
	for {
		if p.input.current == nil {
			err := p.input.advance()
			if err == io.EOF {
				return "", io.EOF
			}
			if err != nil {
				return "", newError(p.program.StartPos, "can't open input: %v", err)
			}
			p.filename = p.input.name
			p.fnr = 0
		}

		record, err := readRecord(p.input.current, p.rs)
		if err == io.EOF {
			p.input.closeCurrent()
			continue
		}
		if err != nil {
			return "", newError(p.program.StartPos, "error reading %q: %v", p.input.name, err)
		}
		p.nr++
		p.fnr++
		return record, nil
	}
}

// skipFile abandons the rest of the current input file (nextfile).
func (r *recordReader) skipFile() {
	r.closeCurrent()
}

// readRecord reads one record delimited by rs. rs "\n" or any other
// single character delimits literally; the empty string selects
// paragraph mode, where records are separated by blank lines. The
// final record needs no trailing separator.
func readRecord(r *bufio.Reader, rs string) (string, error) {
	if rs == "" {
		return readParagraph(r)
	}

	sep := byte('\n')
	if len(rs) > 0 {
		sep = rs[0]
	}

	record, err := r.ReadString(sep)
	if err == io.EOF {
		if record == "" {
			return "", io.EOF
		}
		return record, nil
	}
	if err != nil {
		return "", err
	}
	return record[:len(record)-1], nil
}

// readParagraph reads a paragraph-mode record: leading newlines are
// skipped, and the record runs until a blank line or end of input.
func readParagraph(r *bufio.Reader) (string, error) {
	// Skip blank lines before the record
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", io.EOF
		}
		if b != '\n' {
			r.UnreadByte()
			break
		}
	}

	var record []byte
	newlines := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			if len(record) == 0 {
				return "", io.EOF
			}
			return string(record), nil
		}
		if b == '\n' {
			newlines++
			if newlines == 2 {
				return string(record), nil
			}
			continue
		}
		if newlines == 1 {
			record = append(record, '\n')
		}
		newlines = 0
		record = append(record, b)
	}
}

// evalGetline implements the getline forms. Returns 1 on success, 0 at
// end of input, -1 on error (per POSIX; an unreadable getline file is
// not fatal, unlike a main input file).
func (p *Interp) evalGetline(e *ast.GetlineExpr) (types.Value, error) {
	if e.File != nil {
		fileV, err := p.eval(e.File)
		if err != nil {
			return types.Value{}, err
		}
		name := fileV.Str(p.convfmt)

		reader, err := p.ioMgr.GetInputFile(name)
		if err != nil {
			return types.Num(-1), nil
		}
		record, rerr := readRecord(reader, p.rs)
		if rerr == io.EOF {
			return types.Num(0), nil
		}
		if rerr != nil {
			return types.Num(-1), nil
		}

		// getline var < file sets only var; getline < file sets $0
		// and splits fields. Neither form touches NR or FNR.
		if e.Target != nil {
			if err := p.assign(e.Target, types.Strnum(record)); err != nil {
				return types.Value{}, err
			}
		} else {
			p.setRecord(record)
		}
		return types.Num(1), nil
	}

	record, err := p.nextMainRecord()
	if err == io.EOF {
		return types.Num(0), nil
	}
	if err != nil {
		return types.Num(-1), nil
	}

	// Plain getline sets $0, NF, NR, FNR; getline var sets var, NR,
	// FNR (NR and FNR were already advanced by nextMainRecord).
	if e.Target != nil {
		if err := p.assign(e.Target, types.Strnum(record)); err != nil {
			return types.Value{}, err
		}
	} else {
		p.setRecord(record)
	}
	return types.Num(1), nil
}
