// Package pagecache caches successful result pages in a key-value store.
package pagecache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/compdex/internal/db"
	"github.com/kailas-cloud/compdex/internal/domain/search/request"
	"github.com/kailas-cloud/compdex/internal/domain/search/result"
)

const keySpace = "page:"

// fetcher is the decorated page source.
type fetcher interface {
	Fetch(ctx context.Context, token string, req request.Request) (result.Page, error)
}

// store is the consumer interface for the page cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedFetcher serves repeated requests from the store.
// Store failures are logged and never fail a fetch. Unreadable entries are
// evicted.
type CachedFetcher struct {
	inner      fetcher
	store      store
	prefix     string
	scope      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner fetcher,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFetcher {
	return &CachedFetcher{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithScope separates entries of different upstream endpoints, typically
// the API base URL.
func (c *CachedFetcher) WithScope(scope string) *CachedFetcher {
	c.scope = scope
	return c
}

// Fetch returns a cached page or calls the inner fetcher.
// Entries are keyed per token: a page is only served to the credential
// that fetched it. Only pages holding at least one company are stored.
func (c *CachedFetcher) Fetch(ctx context.Context, token string, req request.Request) (result.Page, error) {
	key, err := c.cacheKey(token, req)
	if err != nil {
		return c.inner.Fetch(ctx, token, req) //nolint:wrapcheck // transparent decorator
	}

	if page, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return page, nil
	}

	c.incCache("miss")

	page, err := c.inner.Fetch(ctx, token, req)
	if err != nil {
		return result.Page{}, err //nolint:wrapcheck // transparent decorator
	}

	if page.Returned() > 0 {
		c.putToCache(ctx, key, page)
	}
	return page, nil
}

func (c *CachedFetcher) incCache(res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(res).Inc()
	}
}

// cacheKey hashes the scope, a digest of the token and the exact wire
// parameters of req. The token itself never reaches the store.
func (c *CachedFetcher) cacheKey(token string, req request.Request) (string, error) {
	q, err := req.Query()
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	tokenSum := sha256.Sum256([]byte(token))
	h := sha256.New()
	h.Write([]byte(c.scope))
	h.Write([]byte{0})
	h.Write(tokenSum[:])
	h.Write([]byte(q))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.Itoa(req.Size())))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.Itoa(req.Page())))
	return c.prefix + keySpace + hex.EncodeToString(h.Sum(nil)), nil
}

func (c *CachedFetcher) getFromCache(ctx context.Context, key string) (result.Page, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached page", zap.String("key", key), zap.Error(err))
		}
		return result.Page{}, false
	}
	if len(data) == 0 {
		return result.Page{}, false
	}

	page, err := decodePage(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached page", zap.String("key", key), zap.Error(err))
		if err := c.store.Del(ctx, key); err != nil {
			c.logger.Warn("Failed to evict cached page", zap.String("key", key), zap.Error(err))
		}
		return result.Page{}, false
	}
	return page, true
}

func (c *CachedFetcher) putToCache(ctx context.Context, key string, page result.Page) {
	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("Failed to encode page for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache page", zap.String("key", key), zap.Error(err))
	}
}

// decodePage keeps numbers as json.Number, matching pages fresh from the API.
func decodePage(data []byte) (result.Page, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var page result.Page
	if err := dec.Decode(&page); err != nil {
		return result.Page{}, fmt.Errorf("decode cached page: %w", err)
	}
	if page.Returned() == 0 {
		return result.Page{}, fmt.Errorf("cached page has no companies")
	}
	return page, nil
}
