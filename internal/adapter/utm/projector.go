// Package utm converts pit positions between WGS-84 latitude/longitude and
// Universal Transverse Mercator coordinates.
package utm

import (
	"fmt"

	"github.com/im7mortal/UTM"
)

// Projector implements domain.Projector on the standard 6 degree UTM zones.
type Projector struct{}

// NewProjector returns a UTM projector.
func NewProjector() *Projector {
	return &Projector{}
}

// LatLonToProjected returns the easting, northing, and zone number of a
// latitude/longitude. The hemisphere follows the sign of the latitude.
func (p *Projector) LatLonToProjected(lat, lon float64) (float64, float64, int, error) {
	easting, northing, zone, _, err := UTM.FromLatLon(lat, lon, lat >= 0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("project %.6f,%.6f to utm: %w", lat, lon, err)
	}
	return easting, northing, zone, nil
}

// ProjectedToLatLon inverts an easting/northing in the given zone. The zone
// letter is never known from field headers, so the hemisphere flag decides
// the false northing.
func (p *Projector) ProjectedToLatLon(easting, northing float64, zone int, northern bool) (float64, float64, error) {
	lat, lon, err := UTM.ToLatLon(easting, northing, zone, "", northern)
	if err != nil {
		return 0, 0, fmt.Errorf("unproject %.1f,%.1f in zone %d: %w", easting, northing, zone, err)
	}
	return lat, lon, nil
}
