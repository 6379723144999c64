package domain

import (
	"regexp"
	"strings"
)

// NameTable maps a known synonym to its canonical name. Tables are built once
// and never mutated, so they are safe to share across goroutines.
type NameTable map[string]string

// DefaultRenames is the synonym table applied to header keys, column names,
// and profile types.
var DefaultRenames = NameTable{
	"location":              "site_name",
	"top":                   "depth",
	"height":                "depth",
	"bottom":                "bottom_depth",
	"density_a":             "sample_a",
	"density_b":             "sample_b",
	"density_c":             "sample_c",
	"site":                  "site_id",
	"pitid":                 "pit_id",
	"slope":                 "slope_angle",
	"weather":               "weather_description",
	"sky":                   "sky_cover",
	"notes":                 "site_notes",
	"dielectric_constant_a": "sample_a",
	"dielectric_constant_b": "sample_b",
	"dielectric_constant_c": "sample_c",
	"sample_top_height":     "depth",
	"deq":                   "equivalent_diameter",
	"operator":              "surveyors",
	"total_snow_depth":      "total_depth",
	"smp_serial_number":     "instrument",
}

// CoordinateAliases folds the short coordinate spellings found in field
// headers onto the names the geodetic normalizer expects.
var CoordinateAliases = NameTable{
	"lat":  "latitude",
	"long": "longitude",
	"lon":  "longitude",
}

// Canonicalize returns the canonical name for token, or token itself when the
// table has no entry. Matching is exact and case-insensitive.
func Canonicalize(token string, table NameTable) string {
	if canonical, ok := table[strings.ToLower(token)]; ok {
		return canonical
	}
	return token
}

// CanonicalizeAll applies Canonicalize to every token, preserving order.
func CanonicalizeAll(tokens []string, table NameTable) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = Canonicalize(t, table)
	}
	return out
}

var (
	// unitsRe matches parenthesised unit annotations, e.g. "Density A (kg/m3)".
	unitsRe      = regexp.MustCompile(`\([^)]*\)`)
	separatorsRe = regexp.MustCompile(`[\s\-]+`)
	underscoreRe = regexp.MustCompile(`_+`)
)

// CleanToken lowercases a raw key or column name, drops unit annotations,
// turns whitespace and hyphens into underscores, and strips everything that is
// not a letter, digit, underscore, or slash.
func CleanToken(raw string) string {
	s := unitsRe.ReplaceAllString(raw, "")
	s = strings.ToLower(strings.TrimSpace(s))
	s = separatorsRe.ReplaceAllString(s, "_")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '/':
			b.WriteRune(r)
		}
	}

	s = underscoreRe.ReplaceAllString(b.String(), "_")
	return strings.Trim(s, "_")
}
