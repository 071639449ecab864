// Command compdex searches the company directory API and appends one page
// of results to a CSV file or prints it to the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kailas-cloud/compdex/internal/config"
	"github.com/kailas-cloud/compdex/internal/db/redis"
	"github.com/kailas-cloud/compdex/internal/domain/search/filter"
	"github.com/kailas-cloud/compdex/internal/export"
	logpkg "github.com/kailas-cloud/compdex/internal/logger"
	"github.com/kailas-cloud/compdex/internal/metrics"
	"github.com/kailas-cloud/compdex/internal/repository/pagecache"
	"github.com/kailas-cloud/compdex/internal/transport/companiesapi"
	searchuc "github.com/kailas-cloud/compdex/internal/usecase/search"
	"github.com/kailas-cloud/compdex/internal/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// cliFlags holds the parsed command line.
type cliFlags struct {
	token      string
	output     string
	size       int
	page       int
	industries []string
	operator   string
	revenues   []string
	employees  []string
	cities     []string
	countries  []string
	render     bool
	format     string
	logLevel   string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, *pflag.FlagSet, error) {
	var f cliFlags
	fl := pflag.NewFlagSet("compdex", pflag.ContinueOnError)
	fl.SetOutput(stderr)
	fl.SortFlags = false
	fl.Usage = func() {
		fmt.Fprintln(stderr, "Usage: compdex [flags]")
		fmt.Fprintln(stderr, "Search companies and append one page of results to a CSV file.")
		fmt.Fprintln(stderr, "List flags accept repeated use or comma-separated values.")
		fmt.Fprintln(stderr)
		fl.PrintDefaults()
	}

	fl.StringVarP(&f.token, "api-token", "t", "", "API token (default: api.token from config or $API_TOKEN)")
	fl.StringVarP(&f.output, "output", "o", "", "existing directory for the CSV file (default: export.dir or the working directory)")
	fl.IntVarP(&f.size, "size", "s", filter.DefaultPageSize, "max number of companies per page")
	fl.IntVarP(&f.page, "page", "p", filter.DefaultPage, "results page index")
	fl.StringSliceVarP(&f.industries, "industries", "i", nil, "industries, e.g. information-technology,computer-science")
	fl.StringVar(&f.operator, "i-operator", string(filter.OperatorOr), `operator joining industries: "and" or "or"`)
	fl.StringSliceVarP(&f.revenues, "revenues", "r", nil, "revenue bands: "+strings.Join(filter.RevenueBands, ", "))
	fl.StringSliceVarP(&f.employees, "employees", "e", nil, "employee bands: "+strings.Join(filter.EmployeeBands, ", "))
	fl.StringSliceVarP(&f.cities, "cities", "c", nil, "cities")
	fl.StringSliceVar(&f.countries, "countries", nil, "country names or ISO 3166 alpha-2 codes")
	fl.BoolVar(&f.render, "render", false, "print the results as a table instead of writing a file")
	fl.StringVarP(&f.format, "format", "f", "csv", `output file format: "csv" or "parquet"`)
	fl.StringVar(&f.logLevel, "log-level", "", "log level override: debug, info, warn, error")
	fl.BoolVarP(&f.version, "version", "v", false, "print version and exit")

	if err := fl.Parse(args); err != nil {
		return f, fl, err //nolint:wrapcheck // pflag already prints usage
	}
	return f, fl, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, fl, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.version {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}
	if fl.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fl.Args())
		return exitUsage
	}

	env := config.GetEnv("cli")
	cfg, err := loadConfig(env)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to load config:", err)
		return exitError
	}

	level := cfg.Logging.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		fmt.Fprintln(stderr, "Failed to create logger:", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	token := firstNonEmpty(flags.token, cfg.API.Token, os.Getenv("API_TOKEN"))
	if token == "" {
		fmt.Fprintln(stderr, "An API token is required: pass --api-token or set API_TOKEN")
		return exitUsage
	}

	op, err := filter.ParseOperator(flags.operator)
	if err != nil {
		fmt.Fprintln(stderr, searchuc.Describe(err))
		return exitUsage
	}
	criteria, err := filter.New(filter.Params{
		Industries:       flags.industries,
		IndustryOperator: op,
		RevenueBands:     flags.revenues,
		EmployeeBands:    flags.employees,
		Cities:           flags.cities,
		Countries:        flags.countries,
		PageSize:         flags.size,
		Page:             flags.page,
	})
	if err != nil {
		fmt.Fprintln(stderr, searchuc.Describe(err))
		return exitError
	}

	client := companiesapi.NewClient(&companiesapi.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Logger:  logger,
	})
	fetcher, closeCache := withCache(ctx, cfg, client, logger)
	defer closeCache()
	svc := searchuc.New(fetcher)

	if flags.render {
		var tbl export.Table
		rep, err := svc.Search(ctx, token, criteria, &tbl)
		if err != nil {
			return fail(stderr, logger, err)
		}
		fmt.Fprintln(stdout, rep.Notice)
		if err := export.RenderText(stdout, tbl.Rows(), 0); err != nil {
			return fail(stderr, logger, err)
		}
		return exitOK
	}

	dir := firstNonEmpty(flags.output, cfg.Export.Dir)
	path, err := export.ResolvePath(dir, cfg.Export.Filename)
	if err != nil {
		return fail(stderr, logger, err)
	}

	var sink searchuc.Sink
	switch flags.format {
	case "csv":
		sink = export.NewCSVFile(path)
	case "parquet":
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".parquet"
		sink = export.NewParquetFile(path)
	default:
		fmt.Fprintf(stderr, "Unknown format %q: use csv or parquet\n", flags.format)
		return exitUsage
	}

	rep, err := svc.Search(ctx, token, criteria, sink)
	if err != nil {
		return fail(stderr, logger, err)
	}
	fmt.Fprintln(stdout, rep.Notice)
	fmt.Fprintln(stdout, "Data exported to", path)
	return exitOK
}

// loadConfig reads config/<env>.yaml, falling back to built-in defaults
// when no file exists for env.
func loadConfig(env string) (config.Config, error) {
	cfg, err := config.Load(env)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Parse(nil)
	}
	return cfg, err //nolint:wrapcheck // caller prints it verbatim
}

// withCache wraps client in the Redis page cache when it is enabled and
// reachable. An unreachable cache only costs a warning.
func withCache(
	ctx context.Context, cfg config.Config, client *companiesapi.Client, logger *zap.Logger,
) (searchuc.Fetcher, func()) {
	if !cfg.Cache.Enabled {
		return client, func() {}
	}
	store, err := redis.NewStore(redis.Config{Addrs: cfg.Cache.Addrs, Password: cfg.Cache.Password})
	if err != nil {
		logger.Warn("Page cache disabled", zap.Error(err))
		return client, func() {}
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Warn("Page cache unreachable, continuing without it", zap.Error(err))
		store.Close()
		return client, func() {}
	}
	cached := pagecache.New(client, store, cfg.Cache.KeyPrefix, cfg.Cache.TTL(), metrics.PageCacheTotal, logger).
		WithScope(cfg.API.BaseURL)
	return cached, store.Close
}

func fail(stderr io.Writer, logger *zap.Logger, err error) int {
	msg := searchuc.Describe(err)
	if msg == searchuc.InternalMessage {
		logger.Error("Search failed", zap.Error(err))
		msg += ": " + err.Error()
	} else {
		logger.Debug("Search failed", zap.Error(err))
	}
	fmt.Fprintln(stderr, msg)
	return exitError
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
