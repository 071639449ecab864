package search

import (
	"context"

	"github.com/kailas-cloud/compdex/internal/domain/company"
	"github.com/kailas-cloud/compdex/internal/domain/search/request"
	"github.com/kailas-cloud/compdex/internal/domain/search/result"
)

// Fetcher retrieves one page of companies.
type Fetcher interface {
	Fetch(ctx context.Context, token string, req request.Request) (result.Page, error)
}

// Sink receives the flattened rows of a page.
type Sink interface {
	WriteRows(rows []company.Row) error
}
