package compdex

import "github.com/kailas-cloud/compdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUnknownCountry = domain.ErrUnknownCountry
	ErrTransport      = domain.ErrTransport
	ErrEmptyResult    = domain.ErrEmptyResult
	ErrInvalidPath    = domain.ErrInvalidPath
	ErrInvalidFilter  = domain.ErrInvalidFilter
	ErrExport         = domain.ErrExport
)

// TransportError carries the HTTP status and reason of a failed API call.
// StatusCode is 0 when no response was received. Use errors.As() to inspect it.
type TransportError = domain.TransportError

// ExportError names the file that could not be written and the cause.
type ExportError = domain.ExportError
