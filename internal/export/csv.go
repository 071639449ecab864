package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/compdex/internal/domain/company"
)

// CSVFile appends rows to a CSV file, writing the header only into an empty file.
// Existing content is never rewritten.
type CSVFile struct {
	path string
}

// NewCSVFile creates an append sink for path. The file is opened per write.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

// Name identifies the sink in metrics.
func (f *CSVFile) Name() string { return "csv" }

// Path returns the target file.
func (f *CSVFile) Path() string { return f.path }

// WriteRows appends rows. A nil or empty slice leaves the file untouched.
func (f *CSVFile) WriteRows(rows []company.Row) (err error) {
	if len(rows) == 0 {
		return nil
	}

	file, err := os.OpenFile(filepath.Clean(f.path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", f.path, cerr)
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}

	w := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := w.Write(company.Header()); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", f.path, err)
	}
	return nil
}
