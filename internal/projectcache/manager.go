package projectcache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/exograd/go-eventline/elmodel"

	"github.com/launchdarkly/ccache"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"golang.org/x/sync/singleflight"
)

// Defaults for the project resolution cache. Project identifiers never change, so the TTL only
// bounds how long a deleted project's name keeps resolving.
const (
	DefaultCacheTTL  = 5 * time.Minute
	DefaultCacheSize = 64
)

// ErrClosed is returned by lookups made after the manager has been closed.
var ErrClosed = errors.New("project resolution attempted after the client was closed")

// FetchFunc queries the Eventline API for the project with the given name.
type FetchFunc func(ctx context.Context, name string) (elmodel.Project, error)

// Manager is the internal component that resolves project names to project identifiers for the
// X-Eventline-Project-Id header, caching successful resolutions.
type Manager struct {
	fetch    FetchFunc
	cache    *ccache.Cache
	cacheTTL time.Duration
	requests singleflight.Group
	loggers  ldlog.Loggers
	lock     sync.RWMutex
}

// NewManager creates the Manager. The fetch function must not be nil. Zero or negative size and
// TTL values revert to the defaults.
func NewManager(
	fetch FetchFunc,
	cacheSize int,
	cacheTTL time.Duration,
	loggers ldlog.Loggers,
) *Manager {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Manager{
		fetch:    fetch,
		cache:    ccache.New(ccache.Configure().MaxSize(int64(cacheSize))),
		cacheTTL: cacheTTL,
		loggers:  loggers,
	}
}

// Close shuts down the manager and its cache. Lookups made after Close return ErrClosed.
func (m *Manager) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.cache != nil {
		m.cache.Stop()
		m.cache = nil
	}
}

// GetProjectID resolves a project name to a project identifier, consulting the cache first.
//
// A name that cannot be resolved is not cached: the error is returned to the caller, and the next
// lookup for the same name queries the service again.
func (m *Manager) GetProjectID(ctx context.Context, name string) (string, error) {
	entry, ok := m.safeCacheGet(name)
	if !ok {
		return "", ErrClosed
	}
	if entry != nil && !entry.Expired() {
		if id, ok := entry.Value().(string); ok {
			return id, nil
		}
		m.loggers.Error("project cache got wrong value type from cache - this should not be possible")
		// COVERAGE: can't cause this condition in unit tests
	}

	// Use singleflight to ensure that we'll only do this query once even if multiple goroutines are
	// requesting it
	value, err, _ := m.requests.Do(name, func() (interface{}, error) {
		m.loggers.Debugf("resolving project name %q", name)
		project, err := m.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		return project.ID, nil
	})
	if err != nil {
		return "", err
	}
	id, _ := value.(string)
	m.safeCacheSet(name, id, m.cacheTTL)
	return id, nil
}

// safeCacheGet and safeCacheSet are necessary because trying to use a ccache.Cache after it's been
// shut down can cause a panic, so we nil it out on Close() and guard it with our lock. The boolean
// result of safeCacheGet is false if the manager has been closed.
func (m *Manager) safeCacheGet(key string) (*ccache.Item, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.cache == nil {
		return nil, false
	}
	return m.cache.Get(key), true
}

func (m *Manager) safeCacheSet(key string, value interface{}, ttl time.Duration) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.cache != nil {
		m.cache.Set(key, value, ttl)
	}
}
