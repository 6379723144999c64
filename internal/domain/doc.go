// Package domain recovers structured headers from field-collected snow
// profile files.
//
// # File Layout
//
// A profile file is a block of commented metadata followed by comma
// separated measurements. Nothing marks where one ends and the other begins:
//
//	# PitID,COGM1C8_20200131
//	# Date/Time,2020-01-31-15:10
//	# Easting,743281
//	# Northing,4324005
//	# UTM Zone,12N
//	# Top (cm),Bottom (cm),Density A (kg/m3),Density B (kg/m3)
//	35.0,25.0,190,245
//	25.0,15.0,228,241
//
// Site-description files (file names containing "site") are all metadata;
// their final line is ignored.
//
// # Header/Data Boundary
//
// The last line is assumed to be representative data. A scan from the top
// tracks the widest line at least as wide as that last line and stops at the
// first line whose first field is a number once minus signs and decimal
// points are removed. The boundary is the line above that cutoff; column
// names come from the widest line seen before it, because the header may name
// optional trailing columns the first data rows omit. See [DefaultBoundaryRule].
//
// # Metadata
//
// Metadata lines are joined with spaces and split on "#", one block per
// entry. Each block splits into a key and a value on a caller-chosen
// separator. Date and time values keep any separators they contain, so
// "# Date/Time:2020-01-31-15:10" parses with ":" as the separator. Combined
// date/time fields are always split into separate date and time fields.
//
// Keys and column names are lowercased, unit annotations in parentheses are
// dropped, spaces and hyphens become underscores, and the result is mapped
// through [DefaultRenames] (top → depth, pitid → pit_id, operator → surveyors).
//
// # Profile Types
//
// The measured quantity is inferred by counting [ProfileVocabulary] keywords
// in the joined column names. A keyword counted more than once marks a
// multi-sample profile, whose sample columns are averaged per layer.
//
// # Geography
//
// Positions arrive either as UTM easting/northing/zone or as latitude and
// longitude. The missing pair is derived through a [Projector], and a point
// geometry is built from easting/northing tagged with the caller's SRID.
// Slope aspect recorded as a compass label ("SW") is converted to degrees.
//
// # Errors
//
// Failures wrap one of [ErrFormat], [ErrClassification], [ErrGeodetic], or
// [ErrIntegrity]. They describe bad input, so nothing is retried.
package domain
