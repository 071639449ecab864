package compdex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kailas-cloud/compdex/internal/domain/company"
	"github.com/kailas-cloud/compdex/internal/domain/search/result"
	"github.com/kailas-cloud/compdex/internal/export"
	searchuc "github.com/kailas-cloud/compdex/internal/usecase/search"
)

// NotAvailable fills every field the API did not return.
const NotAvailable = company.NotAvailable

// Outcome tells whether a page holds every match.
type Outcome string

// Outcome constants.
const (
	OutcomeComplete Outcome = Outcome(result.Complete)
	OutcomePartial  Outcome = Outcome(result.Partial)
)

// Row is one company flattened onto Columns, in the same order.
type Row []string

// Get returns the value of the named column, or "" for an unknown name.
func (r Row) Get(column string) string {
	for i, c := range Columns() {
		if c == column && i < len(r) {
			return r[i]
		}
	}
	return ""
}

// Columns returns the fixed export header.
func Columns() []string {
	return company.Header()
}

// Result is one page of a successful search.
type Result struct {
	Total    int // matches reported by the API across all pages
	Returned int
	Page     int
	Outcome  Outcome
	// Notice is the human-readable summary, naming the page when more
	// results exist elsewhere.
	Notice string
	Rows   []Row
}

// Search runs one request and returns its rows.
// An empty page is ErrEmptyResult, never a Result with no rows.
func (c *Client) Search(ctx context.Context, f *FilterBuilder) (*Result, error) {
	start := time.Now()
	var tbl export.Table
	rep, err := c.run(ctx, f, &tbl)
	c.obs.observe("search", start, err)
	if err != nil {
		return nil, err
	}
	res := toResult(rep)
	for _, r := range tbl.Rows() {
		res.Rows = append(res.Rows, Row(r.Values()))
	}
	return res, nil
}

// ExportCSV runs one request and appends its rows to the CSV file at path.
// The directory must exist. The header is written only to a new or empty
// file. On any error the file is left untouched.
func (c *Client) ExportCSV(ctx context.Context, f *FilterBuilder, path string) (*Result, error) {
	start := time.Now()
	res, err := c.exportCSV(ctx, f, path)
	c.obs.observe("export_csv", start, err)
	return res, err
}

func (c *Client) exportCSV(ctx context.Context, f *FilterBuilder, path string) (*Result, error) {
	if path == "" || os.IsPathSeparator(path[len(path)-1]) {
		return nil, fmt.Errorf("compdex: %w: %q is not a file path", ErrInvalidPath, path)
	}
	resolved, err := export.ResolvePath(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("compdex: %w", err)
	}
	rep, err := c.run(ctx, f, export.NewCSVFile(resolved))
	if err != nil {
		return nil, err
	}
	return toResult(rep), nil
}

func (c *Client) run(ctx context.Context, f *FilterBuilder, sink searchuc.Sink) (searchuc.Report, error) {
	fs, err := f.build()
	if err != nil {
		return searchuc.Report{}, fmt.Errorf("compdex: %w", err)
	}
	rep, err := c.search.Search(ctx, c.token, fs, sink)
	if err != nil {
		return searchuc.Report{}, fmt.Errorf("compdex: %w", err)
	}
	return rep, nil
}

func toResult(rep searchuc.Report) *Result {
	return &Result{
		Total:    rep.Total,
		Returned: rep.Returned,
		Page:     rep.Page,
		Outcome:  Outcome(rep.Outcome),
		Notice:   rep.Notice,
	}
}

// Message returns the user-facing text for an error returned by the
// client, e.g. "No companies found".
func Message(err error) string {
	return searchuc.Describe(err)
}
