// Package gateway is the single chokepoint for outbound calls to catalog
// providers.  It issues GET requests with a bounded timeout, decodes JSON and
// serves repeated identical URLs from a shared cache for a fixed TTL.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"
)

// Options tunes a Gateway.  Zero values fall back to the defaults below.
type Options struct {
	Timeout      time.Duration // per request, default 10s
	TTL          time.Duration // cache lifetime, default 1h
	Prefix       string        // cache key namespace, default "api_request"
	MaxBodyBytes int64         // default 8 MiB
	RateLimit    float64       // outbound requests/second, 0 = unlimited
	HTTPClient   *http.Client  // overrides Timeout when set
	Logger       hclog.Logger
}

// Gateway fetches provider JSON through a read-through cache.  Concurrent
// misses on the same URL are not coalesced: each makes its own call, which
// is harmless because provider GETs are idempotent.
type Gateway struct {
	client  *http.Client
	cache   Cache
	ttl     time.Duration
	prefix  string
	maxBody int64
	limiter *rate.Limiter
	log     hclog.Logger
}

// New constructs a Gateway in front of cache.
func New(cache Cache, opts Options) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.Prefix == "" {
		opts.Prefix = "api_request"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 8 << 20
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	g := &Gateway{
		client:  client,
		cache:   cache,
		ttl:     opts.TTL,
		prefix:  opts.Prefix,
		maxBody: opts.MaxBodyBytes,
		log:     opts.Logger,
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return g
}

// FetchRaw returns the JSON payload at rawURL, from cache when a fresh entry
// exists.  Failures are never cached.
func (g *Gateway) FetchRaw(ctx context.Context, rawURL string) (json.RawMessage, error) {
	return g.fetch(ctx, rawURL, nil)
}

// Fetch is FetchRaw followed by decoding into out.
func (g *Gateway) Fetch(ctx context.Context, rawURL string, out any) error {
	return g.FetchWithHeader(ctx, rawURL, nil, out)
}

// FetchWithHeader sends static request headers (credentials, API versions).
// Headers do not contribute to the cache key.
func (g *Gateway) FetchWithHeader(ctx context.Context, rawURL string, header http.Header, out any) error {
	raw, err := g.fetch(ctx, rawURL, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{URL: rawURL, Err: err}
	}
	return nil
}

func (g *Gateway) fetch(ctx context.Context, rawURL string, header http.Header) (json.RawMessage, error) {
	key := CacheKey(g.prefix, rawURL)

	if b, ok, err := g.cache.Get(ctx, key); err != nil {
		g.log.Warn("cache read failed, treating as miss", "key", key, "error", err)
	} else if ok {
		g.log.Debug("cache hit", "url", redact(rawURL))
		return json.RawMessage(b), nil
	}

	body, err := g.get(ctx, rawURL, header)
	if err != nil {
		g.log.Error("provider request failed", "error", err)
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &DecodeError{URL: rawURL, Err: fmt.Errorf("invalid JSON payload (%d bytes)", len(body))}
	}

	if err := g.cache.Set(ctx, key, body, g.ttl); err != nil {
		g.log.Warn("cache write failed", "key", key, "error", err)
	} else {
		g.log.Debug("cached response", "url", redact(rawURL), "ttl", g.ttl)
	}
	return json.RawMessage(body), nil
}

func (g *Gateway) get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{URL: rawURL, Err: err}
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBody+1))
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	if int64(len(body)) > g.maxBody {
		return nil, &DecodeError{URL: rawURL, Err: fmt.Errorf("response exceeds %d bytes", g.maxBody)}
	}
	return body, nil
}
