// Package source reads connector definition files for analysis.
package source

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"
)

// File is one loaded input file.
type File struct {
	Path  string
	Bytes []byte
	Lines int
}

// Load reads the file at path as UTF-8 and counts its lines.
// Invalid UTF-8 sequences are tolerated: the analyzer works on bytes and
// only diagnostics reference character positions.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &File{
		Path:  path,
		Bytes: data,
		Lines: countLines(data),
	}, nil
}

// Valid reports whether the file content is well-formed UTF-8.
func (f *File) Valid() bool {
	return utf8.Valid(f.Bytes)
}

// Slice returns the byte range [start, end), clamped to the file and
// capped at max bytes. A max of zero or below means no cap.
func (f *File) Slice(start, end, max int) []byte {
	if start < 0 {
		start = 0
	}
	if end > len(f.Bytes) {
		end = len(f.Bytes)
	}
	if start >= end {
		return nil
	}
	if max > 0 && end-start > max {
		end = start + max
	}
	return f.Bytes[start:end]
}

// countLines counts newline-terminated lines plus a trailing partial line.
func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}
