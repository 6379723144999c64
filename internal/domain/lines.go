package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// CommentMarker prefixes every metadata line in a field file.
const CommentMarker = "#"

// MaxLineBytes bounds a single line of a field file.
const MaxLineBytes = 1 << 20

// RawLines is the ordered text of one input file.
type RawLines []string

// ReadLines reads a whole field file into memory. Files are written by field
// spreadsheets in latin-1, so bytes are decoded from ISO 8859-1 rather than
// assumed to be UTF-8. Carriage returns are dropped.
func ReadLines(r io.Reader) (RawLines, error) {
	scanner := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	var lines RawLines
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: line %d is longer than %d bytes", ErrFormat, len(lines)+1, MaxLineBytes)
		}
		return nil, fmt.Errorf("read lines: %w", err)
	}

	// Trailing blank lines carry no fields and would break the
	// last-line-is-data assumption used by the boundary detector.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// IsSiteDescription reports whether filename names a site-description file.
// Those files are all metadata and carry no tabular block.
func IsSiteDescription(filename string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(filename)), "site")
}

func splitFields(line, sep string) []string {
	return strings.Split(line, sep)
}

func fieldCount(line, sep string) int {
	return strings.Count(line, sep) + 1
}

func stripComment(line string) string {
	return strings.Trim(strings.TrimSpace(line), CommentMarker)
}
