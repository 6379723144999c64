package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHeader(t *testing.T, lines []string, opts KeyValueOptions) (HeaderRecord, []string, error) {
	t.Helper()
	if opts.Table == nil {
		opts.Table = DefaultRenames
	}
	return ParseKeyValueHeader(lines, opts, discardLogger())
}

func TestParseKeyValueHeader_CombinedDateTime(t *testing.T) {
	rec, overwritten, err := parseHeader(t,
		[]string{"PitID:ABC # Date/Time:2020-01-31-15:10"},
		KeyValueOptions{Separator: ":", TimeZone: "-0700"},
	)
	require.NoError(t, err)

	assert.Empty(t, overwritten)
	assert.Equal(t, "ABC", rec.Fields["pit_id"])
	assert.Equal(t, "2020-01-31", rec.Date)
	assert.Equal(t, "15:10:00", rec.Time)
	assert.NotContains(t, rec.Fields, "date/time")
	assert.NotContains(t, rec.Fields, "date")
	assert.NotContains(t, rec.Fields, "time")
}

func TestParseKeyValueHeader_CombinedDateTimeWithOffset(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantDate string
		wantTime string
	}{
		{"utc", "2020-02-05T20:30:00Z", "2020-02-05", "13:30:00"},
		{"crosses midnight", "2020-02-06T02:00:00+00:00", "2020-02-05", "19:00:00"},
		{"already local", "2020-02-05T13:30:00-07:00", "2020-02-05", "13:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, err := parseHeader(t,
				[]string{"# Date/Time," + tt.raw},
				KeyValueOptions{Separator: ",", TimeZone: "-0700"},
			)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, rec.Date)
			assert.Equal(t, tt.wantTime, rec.Time)
		})
	}
}

func TestParseKeyValueHeader_SeparateDateAndTime(t *testing.T) {
	lines := []string{
		"# Location,Grand Mesa",
		"# Site,1N20",
		"# PitID,COGM1N20_20200205",
		"# Date,2020-02-05",
		"# Time,13:30",
		"# Operator,Juha Lemmetyinen, Kelly Elder",
		"# Weather,Sunny,,,",
		"# Slope,5",
	}

	rec, _, err := parseHeader(t, lines, KeyValueOptions{Separator: ",", TimeZone: "-0700"})
	require.NoError(t, err)

	assert.Equal(t, "2020-02-05", rec.Date)
	assert.Equal(t, "13:30:00", rec.Time)
	assert.Equal(t, "Grand Mesa", rec.Fields["site_name"])
	assert.Equal(t, "1N20", rec.Fields["site_id"])
	assert.Equal(t, "COGM1N20_20200205", rec.Fields["pit_id"])
	assert.Equal(t, "Juha Lemmetyinen, Kelly Elder", rec.Fields["surveyors"], "separators inside a value are kept")
	assert.Equal(t, "Sunny", rec.Fields["weather_description"], "padding separators are dropped")
	assert.Equal(t, "5", rec.Fields["slope_angle"])
}

func TestParseKeyValueHeader_DateTimeValueKeepsSeparator(t *testing.T) {
	rec, _, err := parseHeader(t,
		[]string{"# Date:2020-02-05", "# Time:09:05:30", "# Notes:wind slab: thin"},
		KeyValueOptions{Separator: ":", TimeZone: "-07:00"},
	)
	require.NoError(t, err)

	assert.Equal(t, "09:05:30", rec.Time)
	assert.Equal(t, "wind slab: thin", rec.Fields["site_notes"])
}

func TestParseKeyValueHeader_DropsEmptyEntries(t *testing.T) {
	rec, _, err := parseHeader(t,
		[]string{"#", "# Date,2020-02-05", "# Comments,", "# ,orphan", "# no separator here"},
		KeyValueOptions{Separator: ","},
	)
	require.NoError(t, err)

	assert.Empty(t, rec.Fields)
	assert.Equal(t, "00:00:00", rec.Time, "missing time means midnight")
}

func TestParseKeyValueHeader_Overrides(t *testing.T) {
	lines := []string{"# Site,1N20", "# Date/Time,2020-01-31-15:10", "# Aspect,S"}

	rec, overwritten, err := parseHeader(t, lines, KeyValueOptions{
		Separator: ",",
		TimeZone:  "-0700",
		Overrides: map[string]string{
			"site":   "1N21",
			"Date":   "2020-02-01",
			"Crew":   "A. Smith",
			"ignore": "  ",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "site_id"}, overwritten)
	assert.Equal(t, "1N21", rec.Fields["site_id"])
	assert.Equal(t, "A. Smith", rec.Fields["crew"])
	assert.Equal(t, "2020-02-01", rec.Date)
	assert.Equal(t, "15:10:00", rec.Time, "override replaces only the date half")
	assert.NotContains(t, rec.Fields, "ignore")
}

func TestParseKeyValueHeader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		opts  KeyValueOptions
	}{
		{"missing date", []string{"# Site,1N20"}, KeyValueOptions{Separator: ","}},
		{"bad date", []string{"# Date,yesterday"}, KeyValueOptions{Separator: ","}},
		{"bad time", []string{"# Date,2020-01-01", "# Time,noonish"}, KeyValueOptions{Separator: ","}},
		{"bad combined", []string{"# Date/Time,soon"}, KeyValueOptions{Separator: ","}},
		{"unknown timezone", []string{"# Date,2020-01-01"}, KeyValueOptions{Separator: ",", TimeZone: "Mars/Olympus"}},
		{"empty separator", []string{"# Date,2020-01-01"}, KeyValueOptions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseHeader(t, tt.lines, tt.opts)
			require.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestIsDateTimeKey(t *testing.T) {
	for _, k := range []string{"date", "time", "date/time", "datetime", "date_time"} {
		assert.True(t, isDateTimeKey(k), k)
	}
	for _, k := range []string{"site_id", "time_zone", "update", "timestamp_source", ""} {
		assert.False(t, isDateTimeKey(k), k)
	}
}

func TestLoadZone(t *testing.T) {
	loc, err := loadZone("-0700")
	require.NoError(t, err)
	_, offset := timeIn(t, loc)
	assert.Equal(t, -7*3600, offset)

	loc, err = loadZone("+05:30")
	require.NoError(t, err)
	_, offset = timeIn(t, loc)
	assert.Equal(t, 5*3600+30*60, offset)

	loc, err = loadZone("")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func timeIn(t *testing.T, loc *time.Location) (string, int) {
	t.Helper()
	return time.Date(2020, 1, 1, 0, 0, 0, 0, loc).Zone()
}
