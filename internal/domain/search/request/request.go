package request

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/search/filter"
	"github.com/kailas-cloud/compdex/internal/domain/search/query"
)

// Request is the complete payload of one company API call: the condition
// list plus pagination. Nothing else is ever sent.
type Request struct {
	conditions []query.Condition
	size       int
	page       int
}

// New validates pagination and creates a Request.
func New(conditions []query.Condition, size, page int) (Request, error) {
	if size <= 0 {
		return Request{}, fmt.Errorf("%w: size must be positive, got %d", domain.ErrInvalidFilter, size)
	}
	if page < 1 {
		return Request{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidFilter, page)
	}
	if len(conditions) > query.MaxConditions {
		return Request{}, fmt.Errorf("%w: too many conditions (max %d)", domain.ErrInvalidFilter, query.MaxConditions)
	}
	return Request{conditions: slices.Clone(conditions), size: size, page: page}, nil
}

// FromFilters builds the conditions of fs and wraps them with its pagination.
func FromFilters(fs filter.Set) (Request, error) {
	conditions, err := query.Build(fs)
	if err != nil {
		return Request{}, err
	}
	return New(conditions, fs.PageSize(), fs.Page())
}

// Conditions returns the query conditions.
func (r Request) Conditions() []query.Condition { return slices.Clone(r.conditions) }

// Size returns the page size.
func (r Request) Size() int { return r.size }

// Page returns the 1-based page index.
func (r Request) Page() int { return r.page }

// Query returns the JSON-encoded condition list.
func (r Request) Query() (string, error) {
	return query.Encode(r.conditions)
}
