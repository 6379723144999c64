package domain

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// HeaderOptions configures how one file is interpreted.
type HeaderOptions struct {
	Filename string
	// SiteDescription marks a metadata-only file with no tabular block.
	SiteDescription bool
	// FieldSeparator delimits tabular columns. Defaults to ",".
	FieldSeparator string
	// HeaderSeparator splits metadata keys from values. Defaults to ",".
	HeaderSeparator string
	TimeZone        string
	SRID            int
	Northern        bool
	Overrides       map[string]string
	Projector       Projector
	// BoundaryRule overrides DefaultBoundaryRule for unusual file variants.
	BoundaryRule BoundaryRule
	Renames      NameTable
	Vocabulary   []string
}

func (o HeaderOptions) withDefaults() HeaderOptions {
	if o.FieldSeparator == "" {
		o.FieldSeparator = ","
	}
	if o.HeaderSeparator == "" {
		o.HeaderSeparator = ","
	}
	if o.Renames == nil {
		o.Renames = DefaultRenames
	}
	if o.Vocabulary == nil {
		o.Vocabulary = ProfileVocabulary
	}
	if o.BoundaryRule == nil {
		o.BoundaryRule = DefaultBoundaryRule
	}
	return o
}

// NormalizedProfileHeader is the validated header of one field file. Common
// metadata gets named fields; everything else passes through in Extra.
type NormalizedProfileHeader struct {
	SourceFile string `json:"source_file,omitempty"`

	SiteID    string `json:"site_id,omitempty"`
	PitID     string `json:"pit_id,omitempty"`
	SiteName  string `json:"site_name,omitempty"`
	Surveyors string `json:"surveyors,omitempty"`
	Date      string `json:"date"`
	Time      string `json:"time"`

	Aspect   *float64         `json:"aspect,omitempty"`
	Position GeodeticPosition `json:"position"`

	// Columns and Classification are nil for site-description files.
	Columns        *ColumnSchema          `json:"columns,omitempty"`
	Classification *ProfileClassification `json:"classification,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
	// Overwritten lists header keys replaced by caller overrides.
	Overwritten []string `json:"overwritten,omitempty"`

	// Place enrichment fields.
	PlaceName string `json:"place_name,omitempty"`
	GeoSource string `json:"geo_source,omitempty"` // "reverse", "original", "failed"

	ProcessedAt time.Time `json:"processed_at"`
}

// ParseProfileHeader runs boundary detection, column extraction, profile
// classification, key/value parsing, and geodetic normalization over the
// lines of one file.
func ParseProfileHeader(lines RawLines, opts HeaderOptions, logger *slog.Logger) (NormalizedProfileHeader, error) {
	opts = opts.withDefaults()
	logger = logger.With("file", opts.Filename)
	logger.Info("interpreting file header")

	if len(lines) == 0 {
		return NormalizedProfileHeader{}, fmt.Errorf("%w: file is empty", ErrFormat)
	}

	var (
		metadata       []string
		columns        *ColumnSchema
		classification *ProfileClassification
	)

	if opts.SiteDescription {
		logger.Info("parsing site description header")
		metadata = lines[:len(lines)-1]
	} else {
		b, err := DetectBoundary(lines, opts.FieldSeparator, opts.BoundaryRule)
		if err != nil {
			return NormalizedProfileHeader{}, err
		}

		columnLine := lines[b.ColumnLine]
		names := ExtractColumns(columnLine, opts.FieldSeparator, opts.Renames)
		logger.Debug("column header found", "line", b.ColumnLine, "boundary", b.Index, "columns", len(names))

		c, err := ClassifyProfile(RawColumnTokens(columnLine, opts.FieldSeparator), opts.Vocabulary, opts.Renames, logger)
		if err != nil {
			return NormalizedProfileHeader{}, err
		}

		columns = &ColumnSchema{Names: names, Line: b.ColumnLine, Boundary: b.Index}
		classification = &c
		metadata = lines[:b.MetadataEnd()]
	}

	record, overwritten, err := ParseKeyValueHeader(metadata, KeyValueOptions{
		Separator: opts.HeaderSeparator,
		TimeZone:  opts.TimeZone,
		Overrides: opts.Overrides,
		Table:     opts.Renames,
	}, logger)
	if err != nil {
		return NormalizedProfileHeader{}, err
	}

	geo, err := NormalizeGeodetic(record.Fields, GeodeticOptions{
		Northern:  opts.Northern,
		SRID:      opts.SRID,
		Projector: opts.Projector,
	}, logger)
	if err != nil {
		return NormalizedProfileHeader{}, err
	}

	h := NormalizedProfileHeader{
		SourceFile:     opts.Filename,
		Date:           record.Date,
		Time:           record.Time,
		Aspect:         geo.Aspect,
		Position:       geo.Position,
		Columns:        columns,
		Classification: classification,
		Overwritten:    overwritten,
		ProcessedAt:    clock.Now(),
	}
	h.SiteID = takeField(geo.Fields, siteIDKey)
	h.PitID = takeField(geo.Fields, "pit_id")
	h.SiteName = takeField(geo.Fields, "site_name")
	h.Surveyors = takeField(geo.Fields, "surveyors")
	if len(geo.Fields) > 0 {
		h.Extra = geo.Fields
	}
	return h, nil
}

func takeField(fields map[string]string, key string) string {
	v := fields[key]
	delete(fields, key)
	return v
}

// ProfileTypes returns the classified types, or nil for site descriptions.
func (h NormalizedProfileHeader) ProfileTypes() []string {
	if h.Classification == nil {
		return nil
	}
	return h.Classification.Types
}

// Metadata flattens the header back into a canonical key/value record with
// string values, the form site and profile headers are compared in.
func (h NormalizedProfileHeader) Metadata() HeaderRecord {
	fields := make(map[string]string, len(h.Extra)+10)
	for k, v := range h.Extra {
		fields[k] = v
	}
	for k, v := range h.namedFields() {
		fields[k] = v
	}
	if h.Aspect != nil {
		fields[aspectKey] = formatFloat(*h.Aspect)
	}
	fields[latitudeKey] = formatFloat(h.Position.Latitude)
	fields[longitudeKey] = formatFloat(h.Position.Longitude)
	fields[eastingKey] = formatFloat(h.Position.Easting)
	fields[northingKey] = formatFloat(h.Position.Northing)
	fields[utmZoneKey] = strconv.Itoa(h.Position.UTMZone)
	return HeaderRecord{Date: h.Date, Time: h.Time, Fields: fields}
}

// Record returns the storage form of the header: one map keyed by canonical
// field names, ready for a per-record insert.
func (h NormalizedProfileHeader) Record() map[string]any {
	rec := make(map[string]any, len(h.Extra)+16)
	for k, v := range h.Extra {
		rec[k] = v
	}
	for k, v := range h.namedFields() {
		rec[k] = v
	}
	if h.PlaceName != "" {
		rec["place_name"] = h.PlaceName
	}
	rec[dateKey] = h.Date
	rec[timeKey] = h.Time
	if h.Aspect != nil {
		rec[aspectKey] = *h.Aspect
	}
	rec[latitudeKey] = h.Position.Latitude
	rec[longitudeKey] = h.Position.Longitude
	rec[eastingKey] = h.Position.Easting
	rec[northingKey] = h.Position.Northing
	rec[utmZoneKey] = h.Position.UTMZone
	rec["geom"] = h.Position.Geometry.EWKT()
	if h.Classification != nil {
		rec["profile_type"] = h.Classification.Types
		rec["multi_sample_profile"] = h.Classification.MultiSample
	}
	if h.Columns != nil {
		rec["columns"] = h.Columns.Names
		rec["column_line"] = h.Columns.Line
		rec["header_pos"] = h.Columns.Boundary
	}
	return rec
}

// namedFields returns the populated named string fields by canonical key.
func (h NormalizedProfileHeader) namedFields() map[string]string {
	named := make(map[string]string, 4)
	for k, v := range map[string]string{
		siteIDKey:   h.SiteID,
		"pit_id":    h.PitID,
		"site_name": h.SiteName,
		"surveyors": h.Surveyors,
	} {
		if v != "" {
			named[k] = v
		}
	}
	return named
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
