package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCountry signals a country name or code missing from the ISO 3166 table.
	ErrUnknownCountry = errors.New("unknown country")
	// ErrTransport signals a non-success response or a failed call to the company API.
	ErrTransport = errors.New("error in retrieving data")
	// ErrEmptyResult signals a successful response without any company.
	ErrEmptyResult = errors.New("no companies found")
	// ErrInvalidPath signals a missing output directory.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidFilter signals a filter value outside its allowed set.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrExport signals a sink that failed to store the flattened rows.
	ErrExport = errors.New("failed to write")
)

// KeyPrefix is the default namespace for keys written to the cache store.
const KeyPrefix = "compdex:"

// TransportError is a failed company API call. StatusCode is 0 when no
// response was received.
type TransportError struct {
	StatusCode int
	Reason     string
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return "error in retrieving data: " + e.Reason
	}
	return fmt.Sprintf("error in retrieving data (%d): %s", e.StatusCode, e.Reason)
}

// Unwrap allows errors.Is(err, ErrTransport).
func (e *TransportError) Unwrap() error { return ErrTransport }

// ExportError is a sink failure. Target is the file path, or the sink
// name when the sink has no path.
type ExportError struct {
	Target string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Target, e.Err)
}

// Unwrap allows errors.Is against both ErrExport and the cause.
func (e *ExportError) Unwrap() []error { return []error{ErrExport, e.Err} }
