package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/company"
	"github.com/kailas-cloud/compdex/internal/domain/search/filter"
	"github.com/kailas-cloud/compdex/internal/domain/search/request"
	"github.com/kailas-cloud/compdex/internal/domain/search/result"
	"github.com/kailas-cloud/compdex/internal/logger"
	"github.com/kailas-cloud/compdex/internal/metrics"
)

// Report describes a successful search run.
type Report struct {
	Total    int
	Returned int
	Page     int
	Outcome  result.Outcome
	Notice   string
}

// Service runs the filter → query → fetch → flatten → export pipeline.
type Service struct {
	fetcher Fetcher
}

// New creates a search service.
func New(f Fetcher) *Service {
	return &Service{fetcher: f}
}

// Search fetches the page described by fs and hands its rows to sink.
// On any error, including an empty page, sink is not called.
func (s *Service) Search(ctx context.Context, token string, fs filter.Set, sink Sink) (Report, error) {
	log := logger.FromContext(ctx)

	req, err := request.FromFilters(fs)
	if err != nil {
		s.count(err)
		return Report{}, fmt.Errorf("build request: %w", err)
	}

	page, err := s.fetcher.Fetch(ctx, token, req)
	if err != nil {
		s.count(err)
		return Report{}, fmt.Errorf("fetch companies: %w", err)
	}

	outcome, err := result.Classify(page)
	if err != nil {
		s.count(err)
		return Report{}, err
	}

	rows := make([]company.Row, 0, page.Returned())
	for _, rec := range page.Companies {
		rows = append(rows, company.Flatten(rec))
	}

	if err := sink.WriteRows(rows); err != nil {
		s.count(err)
		return Report{}, &domain.ExportError{Target: sinkTarget(sink), Err: err}
	}

	metrics.SearchOutcomesTotal.WithLabelValues(string(outcome)).Inc()
	metrics.ExportedRowsTotal.WithLabelValues(sinkName(sink)).Add(float64(len(rows)))

	report := Report{
		Total:    page.Total,
		Returned: page.Returned(),
		Page:     req.Page(),
		Outcome:  outcome,
		Notice:   result.Notice(outcome, page, req.Page()),
	}
	log.Info("Search completed",
		zap.String("outcome", string(outcome)),
		zap.Bool("filtered", !fs.IsEmpty()),
		zap.Int("total", report.Total),
		zap.Int("returned", report.Returned),
		zap.Int("page", report.Page),
	)
	return report, nil
}

func (s *Service) count(err error) {
	label := "error"
	switch {
	case errors.Is(err, domain.ErrEmptyResult):
		label = "empty"
	case errors.Is(err, domain.ErrTransport):
		label = "transport_error"
	}
	metrics.SearchOutcomesTotal.WithLabelValues(label).Inc()
}

func sinkTarget(s Sink) string {
	if p, ok := s.(interface{ Path() string }); ok {
		return p.Path()
	}
	return sinkName(s)
}

func sinkName(s Sink) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}
