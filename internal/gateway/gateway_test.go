package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clockCache is an in-memory Cache whose notion of "now" is controlled by the
// test, so TTL boundaries can be checked exactly.
type clockCache struct {
	mu      sync.Mutex
	now     time.Time
	entries map[string]clockEntry
	getErr  error
	sets    int
}

type clockEntry struct {
	val     []byte
	expires time.Time
}

func newClockCache() *clockCache {
	return &clockCache{now: time.Unix(1700000000, 0), entries: map[string]clockEntry{}}
}

func (c *clockCache) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *clockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	e, ok := c.entries[key]
	if !ok || !c.now.Before(e.expires) {
		return nil, false, nil
	}
	return e.val, true, nil
}

func (c *clockCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = clockEntry{val: value, expires: c.now.Add(ttl)}
	return nil
}

func countingServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchServesRepeatedURLFromCache(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, `{"results":[{"id":1}]}`)
	cache := newClockCache()
	g := New(cache, Options{TTL: time.Hour})
	ctx := context.Background()

	first, err := g.FetchRaw(ctx, srv.URL+"/movie/popular?page=1")
	require.NoError(t, err)
	cache.advance(59 * time.Minute)
	second, err := g.FetchRaw(ctx, srv.URL+"/movie/popular?page=1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits), "second call within TTL must not reach the provider")
	assert.JSONEq(t, string(first), string(second))
}

func TestFetchRefetchesOnceTTLElapsed(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, `{"ok":true}`)
	cache := newClockCache()
	g := New(cache, Options{TTL: time.Hour})
	ctx := context.Background()

	_, err := g.FetchRaw(ctx, srv.URL+"/x")
	require.NoError(t, err)
	cache.advance(time.Hour)
	_, err = g.FetchRaw(ctx, srv.URL+"/x")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestFetchTreatsParameterOrderingsAsDistinct(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, `{}`)
	g := New(newClockCache(), Options{})
	ctx := context.Background()

	_, err := g.FetchRaw(ctx, srv.URL+"/d?a=1&b=2")
	require.NoError(t, err)
	_, err = g.FetchRaw(ctx, srv.URL+"/d?b=2&a=1")
	require.NoError(t, err)
	_, err = g.FetchRaw(ctx, srv.URL+"/d?a=1&b=2")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestFetchDoesNotCacheStatusErrors(t *testing.T) {
	srv, hits := countingServer(t, http.StatusNotFound, `{"status_message":"not found"}`)
	cache := newClockCache()
	g := New(cache, Options{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := g.FetchRaw(ctx, srv.URL+"/movie/0?api_key=secret")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUpstream))
		assert.True(t, IsNotFound(err))
		assert.NotContains(t, err.Error(), "secret")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
	assert.Equal(t, 0, cache.sets)
}

func TestFetchDoesNotCacheInvalidJSON(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, `<html>maintenance</html>`)
	cache := newClockCache()
	g := New(cache, Options{})

	_, err := g.FetchRaw(context.Background(), srv.URL+"/x")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.True(t, errors.Is(err, ErrUpstream))

	_, _ = g.FetchRaw(context.Background(), srv.URL+"/x")
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
	assert.Equal(t, 0, cache.sets)
}

func TestFetchSurfacesTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := New(newClockCache(), Options{Timeout: time.Second})
	_, err := g.FetchRaw(context.Background(), url+"/x")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestFetchEnforcesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := New(newClockCache(), Options{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := g.FetchRaw(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestFetchTreatsCacheReadErrorAsMiss(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, `{"page":1}`)
	cache := newClockCache()
	cache.getErr = errors.New("connection refused")
	g := New(cache, Options{})

	var out struct {
		Page int `json:"page"`
	}
	require.NoError(t, g.Fetch(context.Background(), srv.URL, &out))
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetchWithHeaderSendsHeaderButKeysOnURL(t *testing.T) {
	var got string
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		got = r.Header.Get("trakt-api-key")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := New(newClockCache(), Options{})
	var out []any
	require.NoError(t, g.FetchWithHeader(context.Background(), srv.URL, http.Header{"trakt-api-key": {"abc"}}, &out))
	require.NoError(t, g.FetchWithHeader(context.Background(), srv.URL, http.Header{"trakt-api-key": {"other"}}, &out))
	assert.Equal(t, "abc", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCacheKeyIsPureFunctionOfURL(t *testing.T) {
	a := CacheKey("api_request", "https://example.org/x?a=1")
	assert.Equal(t, a, CacheKey("api_request", "https://example.org/x?a=1"))
	assert.NotEqual(t, a, CacheKey("api_request", "https://example.org/x?a=2"))
	assert.Regexp(t, `^api_request:[0-9a-f]{40}$`, a)
}

func TestRedisCacheHonoursTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	c := NewRedisCache(rdb)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte(`{"a":1}`), time.Hour))
	mr.FastForward(59 * time.Minute)
	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(b))

	mr.FastForward(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGatewayOverRedisSharesEntriesAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	srv, hits := countingServer(t, http.StatusOK, `{"id":27205}`)

	a := New(NewRedisCache(rdb), Options{})
	b := New(NewRedisCache(rdb), Options{})
	_, err := a.FetchRaw(context.Background(), srv.URL+"/movie/27205")
	require.NoError(t, err)
	_, err = b.FetchRaw(context.Background(), srv.URL+"/movie/27205")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.True(t, mr.Exists(CacheKey("api_request", srv.URL+"/movie/27205")))
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(4, time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	b, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(b))
}
