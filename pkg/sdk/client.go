package compdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/compdex/internal/db"
	dbRedis "github.com/kailas-cloud/compdex/internal/db/redis"
	"github.com/kailas-cloud/compdex/internal/domain"
	"github.com/kailas-cloud/compdex/internal/domain/search/filter"
	"github.com/kailas-cloud/compdex/internal/metrics"
	"github.com/kailas-cloud/compdex/internal/repository/pagecache"
	"github.com/kailas-cloud/compdex/internal/transport/companiesapi"
	healthuc "github.com/kailas-cloud/compdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/compdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// searchUseCase is the internal interface for the search pipeline.
type searchUseCase interface {
	Search(ctx context.Context, token string, fs filter.Set, sink searchuc.Sink) (searchuc.Report, error)
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the compdex SDK entry point. It is safe for concurrent use.
type Client struct {
	token  string
	store  db.Store
	search searchUseCase
	health healthUseCase
	obs    *observer
}

// New creates a Client. With WithCache it also connects to the cache store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:     companiesapi.DefaultBaseURL,
		cachePrefix: domain.KeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.token == "" {
		return nil, errors.New("compdex: API token required (use WithToken)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	api := companiesapi.NewClient(&companiesapi.Config{
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
	})

	var fetcher searchuc.Fetcher = api
	var store db.Store
	// Pass nil interface (not typed nil pointer!) when the cache is off.
	var pinger healthuc.Pinger
	if len(cfg.cacheAddrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("compdex: create cache store: %w", err)
		}
		if err := s.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("compdex: cache not ready: %w", err)
		}
		store, pinger = s, s
		fetcher = pagecache.New(api, s, cfg.cachePrefix, cfg.cacheTTL, metrics.PageCacheTotal, zap.NewNop()).
			WithScope(cfg.baseURL)
	}

	return &Client{
		token:  cfg.token,
		store:  store,
		search: searchuc.New(fetcher),
		health: healthuc.New(pinger),
		obs:    obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// HealthStatus represents the aggregated client health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"/"disabled"
}

// Health reports the state of the page cache, "disabled" without WithCache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
