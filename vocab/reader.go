// SPDX-License-Identifier: MIT
//
// Package vocab loads the entity/relation vocabularies and the triple file
// a training run starts from: tab-separated "name\tcount" vocab lines and
// "head\trelation\ttail" triple lines. Grounded on
// ReaderLines.h/.cpp's lazy "prefetch one line, empty() predicate" iterator
// and trainKB.cpp's main() vocabulary-loading block (see DESIGN.md).
package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LineReader is a lazy sequence of lines: Empty reports whether the
// sequence is exhausted, Next returns and consumes one line (without its
// trailing \r, if any) and pre-fetches the next. Mirrors the
// ReaderLines/Iterator<std::string> contract: construct with a line already
// prefetched, check Empty before every Next.
type LineReader interface {
	Empty() bool
	Next() string
}

// scannerReader is the file- or stream-backed LineReader, prefetching one
// line at construction and after every Next call.
type scannerReader struct {
	scanner *bufio.Scanner
	cache   string
	done    bool
}

// NewLineReader wraps r as a LineReader, prefetching its first line.
func NewLineReader(r io.Reader) LineReader {
	lr := &scannerReader{scanner: bufio.NewScanner(r)}
	lr.advance()
	return lr
}

func (lr *scannerReader) advance() {
	if lr.scanner.Scan() {
		lr.cache = strings.TrimSuffix(lr.scanner.Text(), "\r")
		return
	}
	lr.done = true
	lr.cache = ""
}

func (lr *scannerReader) Empty() bool { return lr.done }

func (lr *scannerReader) Next() string {
	ret := lr.cache
	lr.advance()
	return ret
}

// SliceLineReader is an in-memory LineReader over a fixed slice of lines,
// for tests and synthetic fixtures (see kbfixture).
type SliceLineReader struct {
	lines []string
	pos   int
}

// NewSliceLineReader builds a LineReader over lines, copying it so later
// mutation by the caller doesn't affect the reader.
func NewSliceLineReader(lines []string) *SliceLineReader {
	return &SliceLineReader{lines: append([]string(nil), lines...)}
}

func (s *SliceLineReader) Empty() bool { return s.pos >= len(s.lines) }

func (s *SliceLineReader) Next() string {
	line := s.lines[s.pos]
	s.pos++
	return strings.TrimSuffix(line, "\r")
}

// ErrMalformedLine indicates a vocab or triple line didn't split into the
// expected number of tab-separated fields.
var ErrMalformedLine = errors.New("vocab: malformed line")

// ErrUnknownName indicates a triple referenced an entity or relation name
// absent from the loaded vocabulary.
var ErrUnknownName = errors.New("vocab: unknown name")

func vocabErrorf(method, format string, args ...interface{}) error {
	return fmt.Errorf("vocab: %s: "+format, append([]interface{}{method}, args...)...)
}
