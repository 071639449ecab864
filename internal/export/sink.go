// Package export writes flattened company rows to CSV files, in-memory
// tables and terminal output.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/company"
)

// Sink receives the rows of one fetched page.
type Sink interface {
	WriteRows(rows []company.Row) error
}

// ResolvePath joins dir and filename. An empty dir means the working
// directory; otherwise dir must exist and be a directory.
func ResolvePath(dir, filename string) (string, error) {
	if dir == "" {
		return filename, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidPath, dir)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidPath, dir)
	}
	return filepath.Join(dir, filename), nil
}
