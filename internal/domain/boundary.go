package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// BoundaryCandidates holds the two competing signals gathered by one top to
// bottom scan of a file: the widest header-like line and the first line that
// starts with a number.
type BoundaryCandidates struct {
	// DataFields is the field count of the last line, taken as representative data.
	DataFields int
	// WidestLine is the widest line seen before the cutoff whose field count
	// is at least DataFields. Later lines win ties. -1 when none qualified.
	WidestLine   int
	WidestFields int
	// NumericLine is the first line whose first field is numeric. -1 when the
	// scan reached the end of the file without finding one.
	NumericLine int
}

// Boundary locates the end of the metadata block and the line carrying the
// column names.
type Boundary struct {
	// Index is the last line before tabular data begins.
	Index int
	// ColumnLine is the line the column names are read from. It can sit above
	// Index when the header names optional trailing columns the first data
	// rows leave out.
	ColumnLine int
}

// MetadataEnd is the exclusive end of the metadata lines above the boundary.
func (b Boundary) MetadataEnd() int {
	return min(b.Index, b.ColumnLine)
}

// BoundaryRule resolves scan candidates into a boundary. It is a function so
// new file variants can swap in their own precedence.
type BoundaryRule func(BoundaryCandidates) (Boundary, error)

// ScanBoundary walks lines top to bottom collecting boundary candidates. The
// scan stops at the first numeric-leading line.
func ScanBoundary(lines RawLines, sep string) BoundaryCandidates {
	c := BoundaryCandidates{WidestLine: -1, NumericLine: -1}
	if len(lines) == 0 {
		return c
	}
	c.DataFields = fieldCount(lines[len(lines)-1], sep)

	for i, line := range lines {
		first, _, _ := strings.Cut(line, sep)
		if isNumericLeader(first) {
			c.NumericLine = i
			return c
		}

		n := fieldCount(line, sep)
		if n >= c.DataFields && n >= c.WidestFields {
			c.WidestLine = i
			c.WidestFields = n
		}
	}
	return c
}

// DefaultBoundaryRule places the boundary on the line just above the first
// numeric line and reads column names from the widest candidate above it.
// Without a numeric line the widest candidate serves as both, best effort.
func DefaultBoundaryRule(c BoundaryCandidates) (Boundary, error) {
	if c.WidestLine < 0 {
		return Boundary{}, fmt.Errorf("%w: no line is as wide as the data rows (%d fields)", ErrFormat, c.DataFields)
	}
	if c.NumericLine < 0 {
		return Boundary{Index: c.WidestLine, ColumnLine: c.WidestLine}, nil
	}
	if c.NumericLine == 0 {
		return Boundary{}, fmt.Errorf("%w: numeric data starts on the first line", ErrFormat)
	}
	return Boundary{Index: c.NumericLine - 1, ColumnLine: c.WidestLine}, nil
}

// DetectBoundary scans lines and resolves the result with rule, or with
// DefaultBoundaryRule when rule is nil.
func DetectBoundary(lines RawLines, sep string, rule BoundaryRule) (Boundary, error) {
	if len(lines) == 0 {
		return Boundary{}, fmt.Errorf("%w: file is empty", ErrFormat)
	}
	if rule == nil {
		rule = DefaultBoundaryRule
	}
	b, err := rule(ScanBoundary(lines, sep))
	if err != nil {
		return Boundary{}, err
	}
	if b.ColumnLine < 0 || b.ColumnLine >= len(lines) || b.Index < 0 || b.Index >= len(lines) {
		return Boundary{}, fmt.Errorf("%w: boundary %d / column line %d outside file of %d lines",
			ErrFormat, b.Index, b.ColumnLine, len(lines))
	}
	return b, nil
}

// isNumericLeader reports whether a first field is a number once minus signs
// and decimal points are removed.
func isNumericLeader(field string) bool {
	field = strings.ReplaceAll(field, "-", "")
	field = strings.ReplaceAll(field, ".", "")
	return isAllDigits(field)
}

// isAllDigits is true for a non-empty string made only of digit characters.
// A decimal point is not a digit.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
