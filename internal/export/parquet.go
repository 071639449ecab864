package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/compdex/internal/domain/company"
)

// parquetRow is the on-disk layout, one string column per export field.
type parquetRow struct {
	CompanyName   string `parquet:"company_name"`
	Employees     string `parquet:"employees"`
	Revenue       string `parquet:"revenue"`
	City          string `parquet:"city"`
	Country       string `parquet:"country"`
	WorkingSphere string `parquet:"working_sphere"`
	Website       string `parquet:"website"`
	PhoneNumber   string `parquet:"phone_number"`
	Facebook      string `parquet:"facebook"`
	Instagram     string `parquet:"instagram"`
	LinkedIn      string `parquet:"linkedin"`
	Pinterest     string `parquet:"pinterest"`
	Twitter       string `parquet:"twitter"`
	YouTube       string `parquet:"youtube"`
}

func toParquet(r company.Row) parquetRow {
	return parquetRow{
		CompanyName: r[0], Employees: r[1], Revenue: r[2], City: r[3], Country: r[4],
		WorkingSphere: r[5], Website: r[6], PhoneNumber: r[7], Facebook: r[8],
		Instagram: r[9], LinkedIn: r[10], Pinterest: r[11], Twitter: r[12], YouTube: r[13],
	}
}

func fromParquet(p parquetRow) company.Row {
	return company.Row{
		p.CompanyName, p.Employees, p.Revenue, p.City, p.Country,
		p.WorkingSphere, p.Website, p.PhoneNumber, p.Facebook,
		p.Instagram, p.LinkedIn, p.Pinterest, p.Twitter, p.YouTube,
	}
}

// ParquetFile appends rows to a Parquet file. Parquet files are immutable,
// so an append reads the existing rows and replaces the file with the
// combined set through a temporary file in the same directory.
type ParquetFile struct {
	path string
}

// NewParquetFile creates an append sink for path.
func NewParquetFile(path string) *ParquetFile {
	return &ParquetFile{path: path}
}

// Name identifies the sink in metrics.
func (f *ParquetFile) Name() string { return "parquet" }

// Path returns the target file.
func (f *ParquetFile) Path() string { return f.path }

// WriteRows appends rows. A nil or empty slice leaves the file untouched.
func (f *ParquetFile) WriteRows(rows []company.Row) error {
	if len(rows) == 0 {
		return nil
	}

	existing, err := ReadParquet(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	out := make([]parquetRow, 0, len(existing)+len(rows))
	for _, r := range existing {
		out = append(out, toParquet(r))
	}
	for _, r := range rows {
		out = append(out, toParquet(r))
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".compdex-*.parquet")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()
	// CreateTemp opens 0600; match the CSV sink.
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	_ = tmp.Close()

	if err := parquet.WriteFile(tmpPath, out); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := os.Rename(tmpPath, filepath.Clean(f.path)); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// ReadParquet loads every row of a file written by ParquetFile.
func ReadParquet(path string) ([]company.Row, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	stored, err := parquet.ReadFile[parquetRow](filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	rows := make([]company.Row, len(stored))
	for i, p := range stored {
		rows[i] = fromParquet(p)
	}
	return rows, nil
}
