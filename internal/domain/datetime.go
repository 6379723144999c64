package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// offsetRe matches numeric UTC offsets such as "-0700", "+05:30", or "-07".
	offsetRe = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})?$`)

	combinedLayouts = []string{
		time.RFC3339,
		"2006-01-02-15:04",
		"2006-01-02-15:04:05",
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		"01/02/2006 15:04",
		"01/02/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006 15:04:05",
		"1/2/06 15:04",
	}

	dateLayouts = []string{
		time.DateOnly,
		"2006/01/02",
		"01/02/2006",
		"1/2/2006",
		"1/2/06",
		"20060102",
	}

	clockLayouts = []string{
		"15:04",
		time.TimeOnly,
		"3:04 PM",
		"3:04PM",
		"1504",
	}
)

// loadZone resolves a caller-supplied timezone suffix. Numeric offsets become
// fixed zones; anything else is looked up as an IANA location.
func loadZone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "utc") {
		return time.UTC, nil
	}

	if m := offsetRe.FindStringSubmatch(tz); m != nil {
		hours, _ := strconv.Atoi(m[2])
		mins := 0
		if m[3] != "" {
			mins, _ = strconv.Atoi(m[3])
		}
		offset := hours*3600 + mins*60
		if m[1] == "-" {
			offset = -offset
		}
		return time.FixedZone(tz, offset), nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrFormat, tz, err)
	}
	return loc, nil
}

// splitCombinedDateTime replaces any combined date/time field in fields with
// separate date and time fields.
func splitCombinedDateTime(fields map[string]string, loc *time.Location) error {
	for _, key := range combinedDateTimeKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		ts, err := parseWithLayouts(raw, combinedLayouts, loc)
		if err != nil {
			return fmt.Errorf("%w: field %s: %v", ErrFormat, key, err)
		}
		// Layouts with an explicit offset are rendered in the caller's zone.
		ts = ts.In(loc)
		delete(fields, key)
		fields[dateKey] = formatDate(ts)
		fields[timeKey] = formatClock(ts)
	}
	return nil
}

// parseDateAndTime combines a date and an optional clock time in loc.
// A missing time means midnight.
func parseDateAndTime(rawDate, rawTime string, loc *time.Location) (time.Time, error) {
	d, err := parseWithLayouts(rawDate, dateLayouts, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: field date: %v", ErrFormat, err)
	}
	if strings.TrimSpace(rawTime) == "" {
		return d, nil
	}

	c, err := parseWithLayouts(rawTime, clockLayouts, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: field time: %v", ErrFormat, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), nil
}

func parseWithLayouts(value string, layouts []string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/time %q", value)
}

func formatDate(t time.Time) string { return t.Format(time.DateOnly) }

func formatClock(t time.Time) string { return t.Format(time.TimeOnly) }
