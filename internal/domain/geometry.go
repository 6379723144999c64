package domain

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// Geometry is a projected point tagged with the spatial reference id used to
// interpret it.
type Geometry struct {
	Point orb.Point
	SRID  int
}

// NewPointGeometry builds a point from UTM easting/northing.
func NewPointGeometry(easting, northing float64, srid int) Geometry {
	return Geometry{Point: orb.Point{easting, northing}, SRID: srid}
}

// WKT renders the point as well-known text, e.g. "POINT(743281 4324005)".
// Coordinates are always written in plain decimal, never exponent form.
func (g Geometry) WKT() string {
	return fmt.Sprintf("POINT(%s %s)", formatFloat(g.Point.X()), formatFloat(g.Point.Y()))
}

// EWKT renders the point with its SRID prefix, as PostGIS accepts it.
func (g Geometry) EWKT() string {
	return fmt.Sprintf("SRID=%d;%s", g.SRID, g.WKT())
}

type geometryJSON struct {
	WKT  string `json:"wkt"`
	SRID int    `json:"srid"`
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(geometryJSON{WKT: g.WKT(), SRID: g.SRID})
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	var raw geometryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	geom, err := wkt.Unmarshal(raw.WKT)
	if err != nil {
		return fmt.Errorf("decode geometry: %w", err)
	}
	p, ok := geom.(orb.Point)
	if !ok {
		return fmt.Errorf("decode geometry: expected POINT, got %s", geom.GeoJSONType())
	}
	g.Point = p
	g.SRID = raw.SRID
	return nil
}
