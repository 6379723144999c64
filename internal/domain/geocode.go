package domain

import (
	"context"
	"log/slog"
)

// EnrichWithPlace looks up the place name of a header's pit position. If the
// geocoder is nil the header is returned untouched; lookup failures only set
// GeoSource to "failed" and never fail the file.
func EnrichWithPlace(ctx context.Context, h NormalizedProfileHeader, geocoder Geocoder, logger *slog.Logger) NormalizedProfileHeader {
	if geocoder == nil {
		return h
	}

	if h.Position.Latitude == 0 && h.Position.Longitude == 0 {
		h.GeoSource = "original"
		return h
	}

	result, err := geocoder.ReverseGeocode(ctx, h.Position.Latitude, h.Position.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"site_id", h.SiteID,
			"lat", h.Position.Latitude,
			"lon", h.Position.Longitude,
			"error", err,
		)
		h.GeoSource = "failed"
		return h
	}
	if result.PlaceName == "" {
		h.GeoSource = "original"
		return h
	}

	h.PlaceName = result.PlaceName
	h.GeoSource = "reverse"
	return h
}
