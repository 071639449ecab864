package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/company"
)

func row(name string) company.Row {
	return company.Flatten(company.Record{"name": name, "domainName": "acme", "domainTld": "io"})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVFile_HeaderOnceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, NewCSVFile(path).WriteRows([]company.Row{row("A"), row("B")}))
	require.NoError(t, NewCSVFile(path).WriteRows([]company.Row{row("C")}))

	records := readCSV(t, path)
	require.Len(t, records, 4)
	assert.Equal(t, company.Header(), records[0])
	assert.Equal(t, "A", records[1][0])
	assert.Equal(t, "B", records[2][0])
	assert.Equal(t, "C", records[3][0])
	assert.Equal(t, "acme.io", records[3][6])
	for _, r := range records {
		assert.Len(t, r, company.ColumnCount)
	}
}

func TestCSVFile_AppendsToExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("existing,line\n"), 0o600))

	require.NoError(t, NewCSVFile(path).WriteRows([]company.Row{row("A")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2, "no header is added to a non-empty file")
	assert.Equal(t, "existing,line", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "A,N/A,N/A"))
	assert.NotContains(t, string(data), "\r\n")
}

func TestCSVFile_EmptyRowsLeaveFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, NewCSVFile(path).WriteRows(nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file must not be created")
}

func TestCSVFile_QuotesSpecialCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, NewCSVFile(path).WriteRows([]company.Row{row(`Acme, "Inc"`)}))

	records := readCSV(t, path)
	assert.Equal(t, `Acme, "Inc"`, records[1][0])
}

func TestCSVFile_OpenError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	err := NewCSVFile(path).WriteRows([]company.Row{row("A")})
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	got, err := ResolvePath("", "company_data.csv")
	require.NoError(t, err)
	assert.Equal(t, "company_data.csv", got)

	got, err = ResolvePath(dir, "company_data.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "company_data.csv"), got)

	_, err = ResolvePath(filepath.Join(dir, "nope"), "x.csv")
	assert.ErrorIs(t, err, domain.ErrInvalidPath)

	_, err = ResolvePath(file, "x.csv")
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestTable_CollectsAndExports(t *testing.T) {
	var tbl Table
	require.NoError(t, tbl.WriteRows([]company.Row{row("A")}))
	require.NoError(t, tbl.WriteRows([]company.Row{row("B")}))

	require.Equal(t, 2, tbl.Len())
	rows := tbl.Rows()
	assert.Equal(t, "A", rows[0].Get("Company Name"))
	assert.Equal(t, "B", rows[1].Get("Company Name"))

	rows[0][0] = "mutated"
	assert.Equal(t, "A", tbl.Rows()[0].Get("Company Name"), "Rows returns a copy")

	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, tbl.WriteCSV(path))
	assert.Len(t, readCSV(t, path), 3)
}

func TestRenderText(t *testing.T) {
	long := strings.Repeat("x", 70)
	rows := []company.Row{row("Acme"), row(long)}

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, rows, 60))

	out := buf.String()
	assert.Contains(t, out, " 1/2 ")
	assert.Contains(t, out, " 2/2 ")
	assert.Contains(t, out, "Company Name")
	assert.Contains(t, out, "acme.io")

	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.Equal(t, 60, runewidth.StringWidth(line), "line %q", line)
	}
	assert.Equal(t, 70, strings.Count(out, "x"), "wrapped value keeps every rune")
}

func TestRenderText_MinimumWidth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, []company.Row{row("A")}, 10))
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, minRenderWidth, runewidth.StringWidth(first))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{""}, wrapText("", 5))
	assert.Equal(t, []string{"abcde", "fg"}, wrapText("abcdefg", 5))
	assert.Equal(t, []string{"日本", "語"}, wrapText("日本語", 4))
}

func TestParquetFile_AppendsAcrossWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	sink := NewParquetFile(path)
	assert.Equal(t, "parquet", sink.Name())
	assert.Equal(t, path, sink.Path())

	require.NoError(t, sink.WriteRows([]company.Row{row("A"), row("B")}))
	require.NoError(t, NewParquetFile(path).WriteRows([]company.Row{row("C")}))

	rows, err := ReadParquet(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0].Get("Company Name"))
	assert.Equal(t, "C", rows[2].Get("Company Name"))
	assert.Equal(t, "acme.io", rows[1].Get("Website"))
	assert.Equal(t, company.NotAvailable, rows[2].Get("YouTube"))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".compdex-*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files must be cleaned up")
}

func TestParquetFile_WorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")

	require.NoError(t, NewParquetFile(path).WriteRows([]company.Row{row("A")}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, NewParquetFile(path).WriteRows([]company.Row{row("B")}))
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm(), "appending keeps the mode")
}

func TestParquetFile_EmptyRowsLeaveNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, NewParquetFile(path).WriteRows(nil))
	assert.NoFileExists(t, path)
}

func TestReadParquet_Missing(t *testing.T) {
	_, err := ReadParquet(filepath.Join(t.TempDir(), "none.parquet"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParquetRow_RoundTripsEveryColumn(t *testing.T) {
	var r company.Row
	for i := range r {
		r[i] = company.Schema[i].Name
	}
	assert.Equal(t, r, fromParquet(toParquet(r)))
}
