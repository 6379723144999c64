package domain

import (
	"context"
	"time"
)

// RawEvent is one field file read from the source topic. Value carries the
// whole file; headers carry the filename and per-file parse options.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Message header names understood on the source topic.
const (
	HeaderFilename  = "filename"
	HeaderTimeZone  = "timezone"
	HeaderEPSG      = "epsg"
	HeaderSeparator = "header_sep"
	HeaderNorthern  = "northern_hemisphere"
	// HeaderExtraPrefix prefixes caller overrides, e.g. "extra.site_id".
	HeaderExtraPrefix = "extra."
)
