package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every parse failure wraps exactly one of these so callers can
// branch with errors.Is and decide whether to skip, log, or abort a file.
var (
	// ErrFormat marks an unrecoverable header/data boundary or malformed metadata.
	ErrFormat = errors.New("format error")
	// ErrClassification marks column names that match no profile type, or a
	// multi-sample file that matches more than one.
	ErrClassification = errors.New("classification error")
	// ErrGeodetic marks a header with no usable geographic information.
	ErrGeodetic = errors.New("geodetic error")
	// ErrIntegrity marks a profile header that disagrees with its site header.
	ErrIntegrity = errors.New("integrity error")
)

// ErrorKind returns a short label for the error kind wrapped by err, suitable
// for metric labels. Unknown errors are reported as "other".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrClassification):
		return "classification"
	case errors.Is(err, ErrGeodetic):
		return "geodetic"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	default:
		return "other"
	}
}

// IntegrityError lists every key where a profile header disagrees with the
// site-description header for the same pit.
type IntegrityError struct {
	Mismatches map[string]string
}

func (e *IntegrityError) Error() string {
	keys := make([]string, 0, len(e.Mismatches))
	for k := range e.Mismatches {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Mismatches[k]))
	}
	return fmt.Sprintf("%s: site and profile headers disagree (%s)", ErrIntegrity, strings.Join(parts, "; "))
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }
