package domain

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// CardinalDegrees maps the 16 compass points to degrees clockwise from north.
var CardinalDegrees = map[string]float64{
	"N":   0,
	"NNE": 22.5,
	"NE":  45,
	"ENE": 67.5,
	"E":   90,
	"ESE": 112.5,
	"SE":  135,
	"SSE": 157.5,
	"S":   180,
	"SSW": 202.5,
	"SW":  225,
	"WSW": 247.5,
	"W":   270,
	"WNW": 292.5,
	"NW":  315,
	"NNW": 337.5,
}

// CardinalToDegrees converts a compass label such as "SW" to degrees in [0, 360).
func CardinalToDegrees(direction string) (float64, error) {
	deg, ok := CardinalDegrees[strings.ToUpper(strings.TrimSpace(direction))]
	if !ok {
		return 0, fmt.Errorf("%w: unrecognized cardinal direction %q", ErrFormat, direction)
	}
	return math.Mod(deg, 360), nil
}

// NormalizeAspect turns a recorded slope aspect into degrees from north.
// "nan" means not recorded and yields nil. A value made only of digits is
// already degrees. Anything else is read as a compass label.
//
// A decimal point is not a digit here, so "45.5" is routed to the compass
// table and rejected. Existing archives depend on this; keep it.
func NormalizeAspect(raw, siteID string, logger *slog.Logger) (*float64, error) {
	aspect := strings.ReplaceAll(raw, "°", "")
	aspect = strings.ReplaceAll(aspect, "Â", "")
	aspect = strings.TrimSpace(aspect)

	if aspect == "" || strings.EqualFold(aspect, "nan") {
		return nil, nil
	}

	if isAllDigits(aspect) {
		deg, err := strconv.ParseFloat(aspect, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: aspect %q: %v", ErrFormat, raw, err)
		}
		return &deg, nil
	}

	logger.Warn("aspect recorded in cardinal directions, converting to degrees", "site_id", siteID, "aspect", aspect)
	deg, err := CardinalToDegrees(aspect)
	if err != nil {
		return nil, err
	}
	return &deg, nil
}
