package result

import (
	"fmt"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/company"
)

// Outcome classifies a successful page.
type Outcome string

// Outcome constants.
const (
	// Complete means the page holds every match.
	Complete Outcome = "complete"
	// Partial means more matches exist on other pages.
	Partial Outcome = "partial"
)

// Page is one page of the company API response.
type Page struct {
	Total     int              `json:"total"`
	Companies []company.Record `json:"companies"`
}

// Returned is the number of records on the page.
func (p Page) Returned() int { return len(p.Companies) }

// Classify returns ErrEmptyResult for a page without records, Partial when
// the reported total exceeds the returned count, and Complete otherwise.
// Only the current page is considered; the page index plays no role.
func Classify(p Page) (Outcome, error) {
	if p.Returned() == 0 {
		return "", domain.ErrEmptyResult
	}
	if p.Total > p.Returned() {
		return Partial, nil
	}
	return Complete, nil
}

// Notice is the message shown to the user for an outcome.
func Notice(o Outcome, p Page, page int) string {
	if o == Partial {
		return fmt.Sprintf(
			"Found %d companies. %d companies from page %d will be exported. "+
				"To access other results, rerun with a different page index",
			p.Total, p.Returned(), page)
	}
	return fmt.Sprintf("Found %d companies", p.Total)
}
