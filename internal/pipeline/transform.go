package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/couchcryptid/profile-header-etl/internal/domain"
	"github.com/couchcryptid/profile-header-etl/internal/observability"
)

// HeaderDefaults are the parse options used when a message does not carry
// its own.
type HeaderDefaults struct {
	TimeZone        string
	SRID            int
	HeaderSeparator string
	Northern        bool
}

// ProfileTransformer implements Transformer by parsing the file carried in a
// message value, with optional place enrichment.
type ProfileTransformer struct {
	defaults  HeaderDefaults
	projector domain.Projector
	geocoder  domain.Geocoder
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewTransformer creates a ProfileTransformer. Pass a nil geocoder to disable
// place enrichment.
func NewTransformer(defaults HeaderDefaults, projector domain.Projector, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *ProfileTransformer {
	return &ProfileTransformer{
		defaults:  defaults,
		projector: projector,
		geocoder:  geocoder,
		metrics:   metrics,
		logger:    logger,
	}
}

func (t *ProfileTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.NormalizedProfileHeader, error) {
	opts, err := t.optionsFor(raw)
	if err != nil {
		return domain.NormalizedProfileHeader{}, err
	}

	lines, err := domain.ReadLines(bytes.NewReader(raw.Value))
	if err != nil {
		return domain.NormalizedProfileHeader{}, err
	}

	h, err := domain.ParseProfileHeader(lines, opts, t.logger)
	if err != nil {
		return domain.NormalizedProfileHeader{}, err
	}

	t.metrics.HeaderOverwrites.Add(float64(len(h.Overwritten)))
	if opts.SiteDescription {
		t.metrics.SiteDescriptions.Inc()
	}
	for _, pt := range h.ProfileTypes() {
		t.metrics.ProfileTypes.WithLabelValues(pt).Inc()
	}

	return domain.EnrichWithPlace(ctx, h, t.geocoder, t.logger), nil
}

// optionsFor builds parse options from the transformer defaults and the
// per-message headers. Headers prefixed "extra." become overrides.
func (t *ProfileTransformer) optionsFor(raw domain.RawEvent) (domain.HeaderOptions, error) {
	filename := raw.Headers[domain.HeaderFilename]
	if filename == "" {
		filename = string(raw.Key)
	}

	opts := domain.HeaderOptions{
		Filename:        filename,
		SiteDescription: domain.IsSiteDescription(filename),
		HeaderSeparator: t.defaults.HeaderSeparator,
		TimeZone:        t.defaults.TimeZone,
		SRID:            t.defaults.SRID,
		Northern:        t.defaults.Northern,
		Projector:       t.projector,
	}

	if v, ok := raw.Headers[domain.HeaderTimeZone]; ok {
		opts.TimeZone = v
	}
	if v, ok := raw.Headers[domain.HeaderSeparator]; ok && v != "" {
		opts.HeaderSeparator = v
	}
	if v, ok := raw.Headers[domain.HeaderEPSG]; ok {
		srid, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return domain.HeaderOptions{}, fmt.Errorf("%w: %s header %q is not an EPSG code", domain.ErrFormat, domain.HeaderEPSG, v)
		}
		opts.SRID = srid
	}
	if v, ok := raw.Headers[domain.HeaderNorthern]; ok {
		northern, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return domain.HeaderOptions{}, fmt.Errorf("%w: %s header %q is not a boolean", domain.ErrFormat, domain.HeaderNorthern, v)
		}
		opts.Northern = northern
	}

	for k, v := range raw.Headers {
		key, ok := strings.CutPrefix(k, domain.HeaderExtraPrefix)
		if !ok || key == "" {
			continue
		}
		if opts.Overrides == nil {
			opts.Overrides = make(map[string]string)
		}
		opts.Overrides[key] = v
	}
	return opts, nil
}
