package domain

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Projector converts between geodetic and UTM coordinates.
type Projector interface {
	// LatLonToProjected returns the UTM easting, northing, and zone number of
	// a WGS-84 position.
	LatLonToProjected(lat, lon float64) (easting, northing float64, zone int, err error)
	// ProjectedToLatLon inverts a UTM position in the given zone and hemisphere.
	ProjectedToLatLon(easting, northing float64, zone int, northern bool) (lat, lon float64, err error)
}

// GeodeticPosition carries a pit location in both coordinate systems.
// Files supply one pair; the other is always derived.
type GeodeticPosition struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Easting   float64  `json:"easting"`
	Northing  float64  `json:"northing"`
	UTMZone   int      `json:"utm_zone"`
	Geometry  Geometry `json:"geom"`
}

// GeodeticOptions controls coordinate reconciliation.
type GeodeticOptions struct {
	Northern  bool
	SRID      int
	Projector Projector
}

// Geodetics is the result of NormalizeGeodetic. Fields holds the passthrough
// metadata left once coordinate and aspect keys have been consumed.
type Geodetics struct {
	Position GeodeticPosition
	Aspect   *float64
	Fields   map[string]string
}

const (
	latitudeKey  = "latitude"
	longitudeKey = "longitude"
	eastingKey   = "easting"
	northingKey  = "northing"
	utmZoneKey   = "utm_zone"
	aspectKey    = "aspect"
	siteIDKey    = "site_id"
)

// NormalizeGeodetic reconciles the coordinate and aspect fields of a header.
// Projected coordinates win when a northing is present; otherwise latitude
// and longitude are projected. A header with neither fails with ErrGeodetic.
func NormalizeGeodetic(fields map[string]string, opts GeodeticOptions, logger *slog.Logger) (Geodetics, error) {
	if opts.Projector == nil {
		return Geodetics{}, fmt.Errorf("%w: no projection service configured", ErrGeodetic)
	}

	rest := foldCoordinateAliases(fields)

	var out Geodetics
	if raw, ok := rest[aspectKey]; ok {
		aspect, err := NormalizeAspect(raw, rest[siteIDKey], logger)
		if err != nil {
			return Geodetics{}, err
		}
		out.Aspect = aspect
		delete(rest, aspectKey)
	}

	coords := make(map[string]float64, 4)
	for _, key := range []string{latitudeKey, longitudeKey, eastingKey, northingKey} {
		raw, ok := rest[key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Geodetics{}, fmt.Errorf("%w: %s %q is not a number", ErrGeodetic, key, raw)
		}
		coords[key] = v
	}

	pos, err := reconcile(coords, rest[utmZoneKey], opts)
	if err != nil {
		return Geodetics{}, err
	}
	pos.Geometry = NewPointGeometry(pos.Easting, pos.Northing, opts.SRID)
	out.Position = pos

	maps.DeleteFunc(rest, func(k, _ string) bool {
		switch k {
		case latitudeKey, longitudeKey, eastingKey, northingKey, utmZoneKey:
			return true
		}
		return false
	})
	out.Fields = rest
	return out, nil
}

// foldCoordinateAliases renames short coordinate keys such as "lat" to their
// canonical spelling. A canonical key present in fields always wins over its
// aliases; among aliases, the first in sorted order wins.
func foldCoordinateAliases(fields map[string]string) map[string]string {
	rest := make(map[string]string, len(fields))
	var aliases []string
	for k, v := range fields {
		if _, ok := CoordinateAliases[k]; ok {
			aliases = append(aliases, k)
			continue
		}
		rest[k] = v
	}
	slices.Sort(aliases)
	for _, k := range aliases {
		canonical := CoordinateAliases[k]
		if _, ok := rest[canonical]; !ok {
			rest[canonical] = fields[k]
		}
	}
	return rest
}

func reconcile(coords map[string]float64, rawZone string, opts GeodeticOptions) (GeodeticPosition, error) {
	northing, hasNorthing := coords[northingKey]
	lat, hasLat := coords[latitudeKey]

	switch {
	case hasNorthing:
		easting, ok := coords[eastingKey]
		if !ok {
			return GeodeticPosition{}, fmt.Errorf("%w: northing given without easting", ErrGeodetic)
		}
		zone, err := parseZoneNumber(rawZone)
		if err != nil {
			return GeodeticPosition{}, err
		}
		lat, lon, err := opts.Projector.ProjectedToLatLon(easting, northing, zone, opts.Northern)
		if err != nil {
			return GeodeticPosition{}, fmt.Errorf("%w: %v", ErrGeodetic, err)
		}
		return GeodeticPosition{
			Latitude: lat, Longitude: lon,
			Easting: easting, Northing: northing, UTMZone: zone,
		}, nil

	case hasLat:
		lon, ok := coords[longitudeKey]
		if !ok {
			return GeodeticPosition{}, fmt.Errorf("%w: latitude given without longitude", ErrGeodetic)
		}
		easting, northing, zone, err := opts.Projector.LatLonToProjected(lat, lon)
		if err != nil {
			return GeodeticPosition{}, fmt.Errorf("%w: %v", ErrGeodetic, err)
		}
		return GeodeticPosition{
			Latitude: lat, Longitude: lon,
			Easting: easting, Northing: northing, UTMZone: zone,
		}, nil

	default:
		return GeodeticPosition{}, fmt.Errorf("%w: no geographic information was provided in the file header", ErrGeodetic)
	}
}

// parseZoneNumber keeps only the digits of a UTM zone such as "12N", dropping
// the latitude band letter.
func parseZoneNumber(raw string) (int, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("%w: utm_zone %q has no zone number", ErrGeodetic, raw)
	}
	zone, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, fmt.Errorf("%w: utm_zone %q: %v", ErrGeodetic, raw, err)
	}
	return zone, nil
}
