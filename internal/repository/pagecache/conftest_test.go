package pagecache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/compdex/internal/db"
	"github.com/kailas-cloud/compdex/internal/domain/search/filter"
	"github.com/kailas-cloud/compdex/internal/domain/search/request"
	"github.com/kailas-cloud/compdex/internal/domain/search/result"
)

type mockFetcher struct {
	page  result.Page
	err   error
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context, _ string, _ request.Request) (result.Page, error) {
	m.calls++
	return m.page, m.err
}

// memStore implements the consumer interface for tests.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr  error
	setErr  error
	delErr  error
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

func testRequest(t *testing.T, page int) request.Request {
	t.Helper()
	fs, err := filter.New(filter.Params{Industries: []string{"software"}, PageSize: filter.DefaultPageSize, Page: page})
	require.NoError(t, err)
	req, err := request.FromFilters(fs)
	require.NoError(t, err)
	return req
}
