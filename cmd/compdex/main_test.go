package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/compdex/internal/export"
)

const twoCompanies = `{"meta":{"total":%s},"companies":[
	{"name":"Acme","domainName":"acme","domainTld":"com","country":{"name":"France"}},
	{"name":"Globex","city":{"name":"Springfield"}}
]}`

// apiStub serves body for every request and records the last query.
func apiStub(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var lastQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("ENV", "")
	t.Setenv("COMPANIES_API_URL", srv.URL)
	t.Setenv("API_TOKEN", "")
	t.Setenv("EXPORT_DIR", "")
	return srv, &lastQuery
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_ExportsCSV(t *testing.T) {
	_, query := apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "2", 1))
	dir := t.TempDir()

	code, out, errOut := runCLI(t, "--api-token", "tok", "-o", dir,
		"-i", "Information Technology", "--countries", "fr,Germany", "-r", "10m-50m")

	require.Equal(t, exitOK, code, errOut)
	path := filepath.Join(dir, "company_data.csv")
	assert.Contains(t, out, "Found 2 companies")
	assert.Contains(t, out, "Data exported to "+path)
	assert.Contains(t, *query, "information-technology")
	assert.Contains(t, *query, `"de"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Company Name,Employees,Revenue"))
	assert.Contains(t, lines[1], "acme.com")
	assert.Contains(t, lines[2], "Springfield")
}

func TestRun_AppendsWithoutSecondHeader(t *testing.T) {
	apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "2", 1))
	dir := t.TempDir()

	for i := 0; i < 2; i++ {
		code, _, errOut := runCLI(t, "--api-token", "tok", "-o", dir)
		require.Equal(t, exitOK, code, errOut)
	}

	data, err := os.ReadFile(filepath.Join(dir, "company_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Company Name"))
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 5)
}

func TestRun_PartialNotice(t *testing.T) {
	apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "40", 1))

	code, out, _ := runCLI(t, "--api-token", "tok", "-o", t.TempDir(), "-s", "2", "-p", "3")

	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Found 40 companies. 2 companies from page 3 will be exported")
}

func TestRun_TokenFromEnvironment(t *testing.T) {
	apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "2", 1))
	t.Setenv("API_TOKEN", "env-token")

	code, _, errOut := runCLI(t, "-o", t.TempDir())
	assert.Equal(t, exitOK, code, errOut)
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		args   []string
		code   int
		stderr string
	}{
		{
			name: "empty result", status: http.StatusOK, body: `{"meta":{"total":0},"companies":[]}`,
			code: exitError, stderr: "No companies found",
		},
		{
			name: "unauthorized", status: http.StatusUnauthorized, body: `{}`,
			code: exitError, stderr: "Error in retrieving data (401): Unauthorized",
		},
		{
			name: "unknown country", status: http.StatusOK, body: `{}`,
			args: []string{"--countries", "Atlantis"},
			code: exitError, stderr: "Unknown country: atlantis",
		},
		{
			name: "bad revenue band", status: http.StatusOK, body: `{}`,
			args: []string{"-r", "lots"},
			code: exitError, stderr: "Invalid filter",
		},
		{
			name: "bad operator", status: http.StatusOK, body: `{}`,
			args: []string{"--i-operator", "xor"},
			code: exitUsage, stderr: "Invalid filter",
		},
		{
			name: "zero size", status: http.StatusOK, body: `{}`,
			args: []string{"--size", "0"},
			code: exitError, stderr: "Invalid filter: page size must be positive, got 0",
		},
		{
			name: "zero page", status: http.StatusOK, body: `{}`,
			args: []string{"--page", "0"},
			code: exitError, stderr: "Invalid filter: page index must be >= 1, got 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiStub(t, tt.status, tt.body)
			dir := t.TempDir()
			args := append([]string{"--api-token", "tok", "-o", dir}, tt.args...)

			code, out, errOut := runCLI(t, args...)

			assert.Equal(t, tt.code, code)
			assert.Contains(t, errOut, tt.stderr)
			assert.NotContains(t, out, "Data exported")
			assert.NoFileExists(t, filepath.Join(dir, "company_data.csv"))
		})
	}
}

func TestRun_InvalidOutputDir(t *testing.T) {
	apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "2", 1))
	missing := filepath.Join(t.TempDir(), "missing")

	code, _, errOut := runCLI(t, "--api-token", "tok", "-o", missing)

	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "Invalid path")
}

func TestRun_UnwritableOutputFile(t *testing.T) {
	apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "2", 1))
	dir := t.TempDir()
	path := filepath.Join(dir, "company_data.csv")
	require.NoError(t, os.Mkdir(path, 0o755))

	code, out, errOut := runCLI(t, "--api-token", "tok", "-o", dir)

	assert.Equal(t, exitError, code)
	assert.NotContains(t, out, "Data exported")
	assert.Contains(t, errOut, "Failed to write "+path)
	assert.Contains(t, errOut, "is a directory")
	assert.NotContains(t, errOut, "Internal error")
}

func TestFail_UnclassifiedErrorShowsCause(t *testing.T) {
	var stderr bytes.Buffer

	code := fail(&stderr, zap.NewNop(), errors.New("template: boom"))

	assert.Equal(t, exitError, code)
	assert.Equal(t, "Internal error: template: boom\n", stderr.String())
}

func TestRun_MissingToken(t *testing.T) {
	apiStub(t, http.StatusOK, `{}`)

	code, _, errOut := runCLI(t, "-o", t.TempDir())

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "API token is required")
}

func TestRun_Render(t *testing.T) {
	apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "2", 1))
	dir := t.TempDir()

	code, out, errOut := runCLI(t, "--api-token", "tok", "-o", dir, "--render")

	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "1/2")
	assert.NotContains(t, out, "Data exported")
	assert.NoFileExists(t, filepath.Join(dir, "company_data.csv"))
}

func TestRun_VersionAndUsage(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "compdex "))

	code, _, errOut := runCLI(t, "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, errOut, "--industries")
	assert.Contains(t, errOut, "revenue bands: under-1m, 1m-10m, 10m-50m")
	assert.Contains(t, errOut, "employee bands: 1-10, 10-50, 50-200")

	code, _, _ = runCLI(t, "--no-such-flag")
	assert.Equal(t, exitUsage, code)

	code, _, errOut = runCLI(t, "stray")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "unexpected arguments")
}

func TestRun_ParquetFormat(t *testing.T) {
	apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "2", 1))
	dir := t.TempDir()

	code, out, errOut := runCLI(t, "--api-token", "tok", "-o", dir, "--format", "parquet")

	require.Equal(t, exitOK, code, errOut)
	path := filepath.Join(dir, "company_data.parquet")
	assert.Contains(t, out, "Data exported to "+path)
	rows, err := export.ReadParquet(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].Get("Company Name"))
	assert.NoFileExists(t, filepath.Join(dir, "company_data.csv"))
}

func TestRun_UnknownFormat(t *testing.T) {
	apiStub(t, http.StatusOK, strings.Replace(twoCompanies, "%s", "2", 1))

	code, _, errOut := runCLI(t, "--api-token", "tok", "-o", t.TempDir(), "--format", "xlsx")

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "Unknown format")
}
