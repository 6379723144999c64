package domain

import "strings"

// ColumnSchema is the ordered list of canonical column names, the line they
// were read from, and the boundary line. Data rows start at Boundary+1.
type ColumnSchema struct {
	Names    []string `json:"names"`
	Line     int      `json:"line"`
	Boundary int      `json:"boundary"`
}

// SampleColumns returns the columns holding repeated samples of one quantity,
// which are averaged into a single value for multi-sample profiles.
func (s ColumnSchema) SampleColumns() []string {
	var cols []string
	for _, n := range s.Names {
		if strings.Contains(n, "sample") {
			cols = append(cols, n)
		}
	}
	return cols
}

// RawColumnTokens strips the comment marker from a column-name line and
// splits it into untouched tokens.
func RawColumnTokens(line, sep string) []string {
	return splitFields(stripComment(line), sep)
}

// ExtractColumns cleans every token of a column-name line and maps it through
// the rename table. The result has one name per field of the line.
func ExtractColumns(line, sep string, table NameTable) []string {
	raw := RawColumnTokens(line, sep)
	cols := make([]string, len(raw))
	for i, tok := range raw {
		cols[i] = Canonicalize(CleanToken(tok), table)
	}
	return cols
}
