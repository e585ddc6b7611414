// Package ucdparse reads test files in the format of the Unicode Character
// Database test files, i.e. lines of fields separated by semicolons, with
// comments starting with '#'.
package ucdparse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
)

// TestFile is a line-oriented reader for UCD-style test files.
type TestFile struct {
	in      io.Closer
	scanner *bufio.Scanner
	line    int
	text    string
	comment string
}

// OpenTestFile opens a test file. If opening fails, an error is reported to
// t (if not nil) and nil is returned.
func OpenTestFile(filename string, t *testing.T) *TestFile {
	f, err := os.Open(filename)
	if err != nil {
		if t != nil {
			t.Errorf("ERROR loading %s: %v", filename, err)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR loading %s: %v\n", filename, err)
		}
		return nil
	}
	return &TestFile{
		in:      f,
		scanner: bufio.NewScanner(f),
	}
}

// NewTestFile creates a test file reading from r. Close is a no-op unless r
// is an io.Closer.
func NewTestFile(r io.Reader) *TestFile {
	tf := &TestFile{scanner: bufio.NewScanner(r)}
	if c, ok := r.(io.Closer); ok {
		tf.in = c
	}
	return tf
}

// Scan advances to the next non-comment, non-empty line.
func (tf *TestFile) Scan() bool {
	for tf.scanner.Scan() {
		tf.line++
		text := strings.TrimSpace(tf.scanner.Text())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		tf.text, tf.comment = text, ""
		if i := strings.IndexByte(text, '#'); i >= 0 {
			tf.text, tf.comment = strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
		}
		return true
	}
	return false
}

// Text returns the current line without its comment.
func (tf *TestFile) Text() string {
	return tf.text
}

// Comment returns the comment of the current line, if any.
func (tf *TestFile) Comment() string {
	return tf.comment
}

// Line returns the line number of the current line.
func (tf *TestFile) Line() int {
	return tf.line
}

// Fields splits the current line at semicolons.
func (tf *TestFile) Fields() []string {
	fields := strings.Split(tf.text, ";")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// Err returns the first error encountered while reading.
func (tf *TestFile) Err() error {
	return tf.scanner.Err()
}

// Close closes the underlying file.
func (tf *TestFile) Close() {
	if tf.in != nil {
		tf.in.Close()
	}
}

// CodePoints parses a field of space-separated hexadecimal code-points.
func CodePoints(field string) ([]rune, error) {
	var runes []rune
	for _, hex := range strings.Fields(field) {
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid code-point %q: %w", hex, err)
		}
		runes = append(runes, rune(n))
	}
	return runes, nil
}

// Ints parses a field of space-separated decimal numbers.
func Ints(field string) ([]int, error) {
	var ints []int
	for _, s := range strings.Fields(field) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", s, err)
		}
		ints = append(ints, n)
	}
	return ints, nil
}
