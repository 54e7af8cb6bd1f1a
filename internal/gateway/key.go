package gateway

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
)

// CacheKey derives the cache key for a request URL.  It is a pure function of
// the URL bytes: no normalisation, so two orderings of the same query
// parameters are distinct entries.
func CacheKey(prefix, rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// redact hides credentials in URLs before they reach logs or error text.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	changed := false
	for _, k := range []string{"api_key", "apikey", "client_id"} {
		if q.Has(k) {
			q.Set(k, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
