package domain

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

const (
	dateKey = "date"
	timeKey = "time"
)

// combinedDateTimeKeys name a single field carrying both date and clock time.
var combinedDateTimeKeys = []string{"date/time", "datetime", "date_time"}

// HeaderRecord is the canonical key/value metadata of one file header. Date and
// time are always held apart; a combined date/time field never survives parsing.
type HeaderRecord struct {
	Date   string            `json:"date"` // YYYY-MM-DD
	Time   string            `json:"time"` // HH:MM:SS
	Fields map[string]string `json:"fields"`
}

// Get looks up a canonical key, including date and time.
func (r HeaderRecord) Get(key string) (string, bool) {
	switch key {
	case dateKey:
		return r.Date, r.Date != ""
	case timeKey:
		return r.Time, r.Time != ""
	}
	v, ok := r.Fields[key]
	return v, ok
}

// Keys returns every populated key in sorted order.
func (r HeaderRecord) Keys() []string {
	keys := slices.Collect(maps.Keys(r.Fields))
	if r.Date != "" {
		keys = append(keys, dateKey)
	}
	if r.Time != "" {
		keys = append(keys, timeKey)
	}
	slices.Sort(keys)
	return keys
}

// KeyValueOptions controls metadata parsing.
type KeyValueOptions struct {
	// Separator splits a key from its value, e.g. "," or ":".
	Separator string
	// TimeZone is appended to parsed dates and times: a numeric offset such
	// as "-0700" or an IANA name such as "US/Mountain".
	TimeZone string
	// Overrides are applied after parsing and win over header values.
	Overrides map[string]string
	Table     NameTable
}

// ParseKeyValueHeader parses metadata lines into a HeaderRecord. It returns
// the sorted keys that overrides replaced, which are reported but not fatal.
func ParseKeyValueHeader(lines []string, opts KeyValueOptions, logger *slog.Logger) (HeaderRecord, []string, error) {
	if opts.Separator == "" {
		return HeaderRecord{}, nil, fmt.Errorf("%w: empty key/value separator", ErrFormat)
	}

	loc, err := loadZone(opts.TimeZone)
	if err != nil {
		return HeaderRecord{}, nil, err
	}

	fields := parseMetadataBlocks(lines, opts.Separator, opts.Table)
	if err := splitCombinedDateTime(fields, loc); err != nil {
		return HeaderRecord{}, nil, err
	}

	overrides := make(map[string]string, len(opts.Overrides))
	for k, v := range opts.Overrides {
		key := Canonicalize(CleanToken(k), opts.Table)
		if key == "" || strings.TrimSpace(v) == "" {
			continue
		}
		overrides[key] = strings.TrimSpace(v)
	}
	if err := splitCombinedDateTime(overrides, loc); err != nil {
		return HeaderRecord{}, nil, err
	}

	var overwritten []string
	for k := range overrides {
		if _, ok := fields[k]; ok {
			overwritten = append(overwritten, k)
		}
	}
	slices.Sort(overwritten)
	if len(overwritten) > 0 {
		logger.Warn("extra header information overwrites file header", "keys", overwritten)
	}
	maps.Copy(fields, overrides)

	rawDate, ok := fields[dateKey]
	if !ok {
		return HeaderRecord{}, overwritten, fmt.Errorf("%w: header has no date information", ErrFormat)
	}
	ts, err := parseDateAndTime(rawDate, fields[timeKey], loc)
	if err != nil {
		return HeaderRecord{}, overwritten, err
	}
	delete(fields, dateKey)
	delete(fields, timeKey)

	logger.Debug("parsed header information", "keys", len(fields)+2)

	return HeaderRecord{
		Date:   formatDate(ts),
		Time:   formatClock(ts),
		Fields: fields,
	}, overwritten, nil
}

// parseMetadataBlocks joins lines, splits them into one block per comment
// marker, and splits each block into a canonical key and its value. Blocks
// with an empty key or value are dropped.
func parseMetadataBlocks(lines []string, sep string, table NameTable) map[string]string {
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimSpace(l)
	}

	fields := make(map[string]string)
	for _, block := range strings.Split(strings.Join(trimmed, " "), CommentMarker) {
		rawKey, rest, found := strings.Cut(block, sep)
		if !found {
			continue
		}
		key := Canonicalize(CleanToken(rawKey), table)

		var value string
		if isDateTimeKey(key) {
			value = dateTimeValue(rest, sep)
		} else {
			value = joinValueTokens(rest, sep)
		}

		if key == "" || value == "" {
			continue
		}
		fields[key] = value
	}
	return fields
}

// isDateTimeKey is true only for keys that carry a date or clock time. Their
// values legitimately contain the separator (e.g. "15:10" with ":") and are
// taken whole instead of being split into tokens.
func isDateTimeKey(key string) bool {
	return key == dateKey || key == timeKey || slices.Contains(combinedDateTimeKeys, key)
}

// dateTimeValue returns everything after the first separator, minus any
// padding separators a spreadsheet export appended.
func dateTimeValue(rest, sep string) string {
	v := strings.TrimSpace(rest)
	for strings.HasSuffix(v, sep) {
		v = strings.TrimSpace(strings.TrimSuffix(v, sep))
	}
	return v
}

// joinValueTokens splits a value on sep, drops trailing blank tokens left by
// padded rows (e.g. "Sunny,,,"), and rejoins the rest with sep.
func joinValueTokens(rest, sep string) string {
	tokens := strings.Split(rest, sep)
	for len(tokens) > 0 && strings.TrimSpace(tokens[len(tokens)-1]) == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.TrimSpace(strings.Join(tokens, sep))
}
