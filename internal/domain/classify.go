package domain

import (
	"fmt"
	"log/slog"
	"strings"
)

// ProfileVocabulary lists the known measured quantities in match order.
// Anything outside it cannot be classified.
var ProfileVocabulary = []string{
	"density",
	"dielectric_constant",
	"temperature",
	"force",
	"reflectance",
	"sample_signal",
	"specific_surface_area",
	"deq",
	"grain_size",
	"hand_hardness",
	"grain_type",
	"manual_wetness",
}

// ProfileClassification is the set of quantities a profile file measures.
type ProfileClassification struct {
	Types []string `json:"types"`
	// MultiSample is set when one quantity appears in several columns, e.g.
	// density_a and density_b, whose values are averaged per layer.
	MultiSample bool `json:"multi_sample"`
}

// ClassifyProfile infers profile types from raw column tokens by counting
// vocabulary keywords in the joined, lowercased column text. Matches keep
// vocabulary order and are then canonicalized through table.
func ClassifyProfile(rawColumns []string, vocabulary []string, table NameTable, logger *slog.Logger) (ProfileClassification, error) {
	joined := strings.ToLower(strings.ReplaceAll(strings.Join(rawColumns, " "), " ", "_"))

	var (
		types       []string
		multiSample bool
	)
	for _, kw := range vocabulary {
		n := strings.Count(joined, kw)
		if n == 0 {
			continue
		}
		types = append(types, kw)
		if n > 1 {
			multiSample = true
		}
	}

	if len(types) == 0 {
		return ProfileClassification{}, fmt.Errorf("%w: unable to determine profile type from columns %q", ErrClassification, joined)
	}
	if multiSample && len(types) != 1 {
		return ProfileClassification{}, fmt.Errorf("%w: multi-sample columns found alongside several profile types (%s)",
			ErrClassification, strings.Join(types, ", "))
	}

	logger.Info("profile types detected", "types", types, "multi_sample", multiSample)

	return ProfileClassification{
		Types:       CanonicalizeAll(types, table),
		MultiSample: multiSample,
	}, nil
}
