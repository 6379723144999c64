package domain

import (
	"io"
	"log/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProjector is a linear stand-in for a UTM projection: easting tracks
// longitude and northing tracks latitude, so both directions invert exactly.
type fakeProjector struct {
	zone int

	forwardCalls int
	inverseCalls int
	gotZone      int
	gotNorthern  bool
}

func (p *fakeProjector) LatLonToProjected(lat, lon float64) (float64, float64, int, error) {
	p.forwardCalls++
	return 500000 + lon*1000, lat * 100000, p.zone, nil
}

func (p *fakeProjector) ProjectedToLatLon(easting, northing float64, zone int, northern bool) (float64, float64, error) {
	p.inverseCalls++
	p.gotZone = zone
	p.gotNorthern = northern
	return northing / 100000, (easting - 500000) / 1000, nil
}
