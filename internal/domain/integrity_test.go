package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIntegrity(t *testing.T) {
	site := HeaderRecord{
		Date: "2020-02-05", Time: "13:30:00",
		Fields: map[string]string{"site_id": "1N20", "pit_id": "GM1", "total_depth": "95"},
	}

	t.Run("profile is a subset of the site header", func(t *testing.T) {
		profile := HeaderRecord{Date: "2020-02-05", Time: "13:30:00", Fields: map[string]string{"site_id": "1N20"}}
		assert.NoError(t, CheckIntegrity(profile, site))
	})

	t.Run("every disagreement is reported", func(t *testing.T) {
		profile := HeaderRecord{
			Date: "2020-02-06", Time: "13:30:00",
			Fields: map[string]string{"site_id": "1N20", "pit_id": "GM2", "weather_description": "Sunny"},
		}
		err := CheckIntegrity(profile, site)
		require.ErrorIs(t, err, ErrIntegrity)

		var ie *IntegrityError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, map[string]string{
			"date":                "profile header != site details header",
			"pit_id":              "profile header != site details header",
			"weather_description": "key not found in site details",
		}, ie.Mismatches)
		assert.Equal(t, "integrity", ErrorKind(err))
		assert.Contains(t, err.Error(), "date: profile header != site details header; pit_id")
	})
}

func TestCheckIntegrity_ParsedFiles(t *testing.T) {
	freezeClock(t)
	opts := HeaderOptions{TimeZone: "-0700", SRID: 26912, Northern: true, Projector: &fakeProjector{zone: 12}}

	profile, err := ParseProfileHeader(densityFile, opts, discardLogger())
	require.NoError(t, err)

	siteOpts := opts
	siteOpts.SiteDescription = true
	site, err := ParseProfileHeader(siteFile, siteOpts, discardLogger())
	require.NoError(t, err)

	assert.NoError(t, CheckIntegrity(profile.Metadata(), site.Metadata()))

	site.PitID = "COGM1N20_20200206"
	require.ErrorIs(t, CheckIntegrity(profile.Metadata(), site.Metadata()), ErrIntegrity)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "format", ErrorKind(ErrFormat))
	assert.Equal(t, "classification", ErrorKind(errors.Join(errors.New("x"), ErrClassification)))
	assert.Equal(t, "geodetic", ErrorKind(ErrGeodetic))
	assert.Equal(t, "other", ErrorKind(errors.New("boom")))
}
