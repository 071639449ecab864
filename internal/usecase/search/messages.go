package search

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/country"
)

// InternalMessage is shown for errors Describe does not recognize.
const InternalMessage = "Internal error"

// Describe turns a pipeline error into the message shown to the user.
// Unrecognized errors yield InternalMessage.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var ue *country.UnknownError
	if errors.As(err, &ue) {
		return fmt.Sprintf("Unknown country: %s. Use an ISO 3166-1 alpha-2 code or an English country name", ue.Input)
	}

	var te *domain.TransportError
	if errors.As(err, &te) {
		if te.StatusCode == 0 {
			return "Error in retrieving data: " + te.Reason
		}
		return fmt.Sprintf("Error in retrieving data (%d): %s", te.StatusCode, te.Reason)
	}

	var ee *domain.ExportError
	if errors.As(err, &ee) {
		return fmt.Sprintf("Failed to write %s: %v", ee.Target, ee.Err)
	}

	switch {
	case errors.Is(err, domain.ErrEmptyResult):
		return "No companies found"
	case errors.Is(err, domain.ErrInvalidPath):
		return fromSentinel(err, domain.ErrInvalidPath)
	case errors.Is(err, domain.ErrInvalidFilter):
		return fromSentinel(err, domain.ErrInvalidFilter)
	}
	return InternalMessage
}

// fromSentinel drops wrapping context in front of the sentinel text.
func fromSentinel(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		msg = msg[i:]
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
