package runtime

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// IOManager tracks output and input files opened by redirections.
// Files stay open until close(name) or the end of the run, so repeated
// `print > "f"` statements append to the same open handle.
//
// Command pipes are deliberately not supported; programs operate on
// files and standard streams only.
type IOManager struct {
	mu sync.Mutex

	stdout io.Writer
	stderr io.Writer

	outFiles map[string]*outputFile
	inFiles  map[string]*inputFile
}

type outputFile struct {
	file   *os.File // nil for standard streams
	writer *bufio.Writer
}

type inputFile struct {
	file   *os.File
	reader *bufio.Reader
}

// NewIOManager creates an I/O manager. Redirections to "/dev/stdout"
// and "/dev/stderr" resolve to the given writers.
func NewIOManager(stdout, stderr io.Writer) *IOManager {
	return &IOManager{
		stdout:   stdout,
		stderr:   stderr,
		outFiles: make(map[string]*outputFile),
		inFiles:  make(map[string]*inputFile),
	}
}

// GetOutputFile returns a writer for name, opening the file on first
// use. With appendMode the file is opened O_APPEND, otherwise truncated.
func (m *IOManager) GetOutputFile(name string, appendMode bool) (io.Writer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if of, ok := m.outFiles[name]; ok {
		return of.writer, nil
	}

	switch name {
	case "/dev/stdout", "-":
		of := &outputFile{writer: bufio.NewWriter(m.stdout)}
		m.outFiles[name] = of
		return of.writer, nil
	case "/dev/stderr":
		of := &outputFile{writer: bufio.NewWriter(m.stderr)}
		m.outFiles[name] = of
		return of.writer, nil
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendMode {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	file, err := os.OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, err
	}

	of := &outputFile{file: file, writer: bufio.NewWriter(file)}
	m.outFiles[name] = of
	return of.writer, nil
}

// GetInputFile returns a reader for name, opening the file on first
// use. "-" and "/dev/stdin" are not resolved here; the caller decides
// what standard input means.
func (m *IOManager) GetInputFile(name string) (*bufio.Reader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if inf, ok := m.inFiles[name]; ok {
		return inf.reader, nil
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	inf := &inputFile{file: file, reader: bufio.NewReader(file)}
	m.inFiles[name] = inf
	return inf.reader, nil
}

// Close closes the file open under name. Returns 0 on success and -1
// if name is not open or the close failed. A closed name can be
// reopened, which is how programs rewind an input file.
func (m *IOManager) Close(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if of, ok := m.outFiles[name]; ok {
		of.writer.Flush()
		delete(m.outFiles, name)
		if of.file != nil {
			if err := of.file.Close(); err != nil {
				return -1
			}
		}
		return 0
	}

	if inf, ok := m.inFiles[name]; ok {
		delete(m.inFiles, name)
		if err := inf.file.Close(); err != nil {
			return -1
		}
		return 0
	}

	return -1
}

// Flush flushes the named output file, or every open output file when
// name is empty. Returns 0 on success, -1 if name is not open or a
// flush failed.
func (m *IOManager) Flush(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		status := 0
		for _, of := range m.outFiles {
			if err := of.writer.Flush(); err != nil {
				status = -1
			}
		}
		return status
	}

	if of, ok := m.outFiles[name]; ok {
		if err := of.writer.Flush(); err != nil {
			return -1
		}
		return 0
	}

	return -1
}

// CloseAll closes every open file. Called when the run finishes.
func (m *IOManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, of := range m.outFiles {
		of.writer.Flush()
		if of.file != nil {
			of.file.Close()
		}
	}
	m.outFiles = make(map[string]*outputFile)

	for _, inf := range m.inFiles {
		inf.file.Close()
	}
	m.inFiles = make(map[string]*inputFile)
}
