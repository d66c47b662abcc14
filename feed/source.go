package feed

import (
	"bufio"
	"io"
	"os"
)

// Source yields raw feed lines. Next returns io.EOF when the stream is
// exhausted. Returned slices are only valid until the next call.
type Source interface {
	Next() ([]byte, error)
	Close() error
}

// FileSource reads newline-delimited events from a file, the replay
// mode the engine was originally driven by.
type FileSource struct {
	f  *os.File
	sc *bufio.Scanner
}

func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &FileSource{f: f, sc: sc}, nil
}

func (s *FileSource) Next() ([]byte, error) {
	if s.sc.Scan() {
		return s.sc.Bytes(), nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *FileSource) Close() error { return s.f.Close() }

// ReaderSource adapts any io.Reader to a Source; used by tests and by
// stdin-driven runs.
type ReaderSource struct {
	sc *bufio.Scanner
}

func NewReaderSource(r io.Reader) *ReaderSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ReaderSource{sc: sc}
}

func (s *ReaderSource) Next() ([]byte, error) {
	if s.sc.Scan() {
		return s.sc.Bytes(), nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *ReaderSource) Close() error { return nil }
