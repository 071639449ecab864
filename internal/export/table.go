package export

import (
	"slices"

	"github.com/kailas-cloud/compdex/internal/domain/company"
)

// Table collects rows in memory for rendering.
type Table struct {
	rows []company.Row
}

// WriteRows appends rows in order.
func (t *Table) WriteRows(rows []company.Row) error {
	t.rows = append(t.rows, rows...)
	return nil
}

// Name identifies the sink in metrics.
func (t *Table) Name() string { return "table" }

// Rows returns a copy of the collected rows.
func (t *Table) Rows() []company.Row { return slices.Clone(t.rows) }

// Len returns the number of collected rows.
func (t *Table) Len() int { return len(t.rows) }

// Header returns the column names.
func (t *Table) Header() []string { return company.Header() }

// WriteCSV appends the collected rows to the CSV file at path.
func (t *Table) WriteCSV(path string) error {
	return NewCSVFile(path).WriteRows(t.rows)
}
