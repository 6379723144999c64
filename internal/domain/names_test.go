package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanToken(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain", "Depth", "depth"},
		{"spaces", "Total Snow Depth", "total_snow_depth"},
		{"hyphen", "sample-top height", "sample_top_height"},
		{"unit annotation", "Density A (kg/m3)", "density_a"},
		{"comment marker and padding", "  #PitID ", "pitid"},
		{"combined date key keeps slash", "Date/Time", "date/time"},
		{"punctuation", "Weather:", "weather"},
		{"repeated separators", "hand  -  hardness", "hand_hardness"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanToken(tt.raw))
		})
	}
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "depth", Canonicalize("top", DefaultRenames))
	assert.Equal(t, "bottom_depth", Canonicalize("Bottom", DefaultRenames), "matching is case-insensitive")
	assert.Equal(t, "site_id", Canonicalize("site", DefaultRenames))
	assert.Equal(t, "surveyors", Canonicalize("operator", DefaultRenames))
	assert.Equal(t, "topography", Canonicalize("topography", DefaultRenames), "no partial matches")
	assert.Equal(t, "longitude", Canonicalize("lon", CoordinateAliases))
}

func TestCanonicalizeAll(t *testing.T) {
	got := CanonicalizeAll([]string{"top", "bottom", "density_a", "comments"}, DefaultRenames)
	assert.Equal(t, []string{"depth", "bottom_depth", "sample_a", "comments"}, got)
}
