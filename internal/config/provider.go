package config

import "time"

// ProviderConfig describes the outbound catalog providers and the shared
// fetch/cache gateway in front of them.
//
// TMDb is the primary metadata provider and requires APIKey.  TVMaze is the
// secondary listings provider and needs no credential.  Trakt is optional and
// only used when TraktClientID is set.
type ProviderConfig struct {
	TMDBBaseURL   string
	TMDBAPIKey    string
	Language      string
	TVMazeBaseURL string
	TraktBaseURL  string
	TraktClientID string

	Timeout      time.Duration // per outbound request
	CacheTTL     time.Duration // lifetime of a cached provider response
	CachePrefix  string        // namespace for gateway cache keys
	RateLimit    float64       // outbound requests per second; 0 disables
	MaxBodyBytes int64         // upper bound on a buffered response body
}

// LoadProviderConfig reads provider settings.  The TMDb key is required.
func LoadProviderConfig() ProviderConfig {
	return ProviderConfig{
		TMDBBaseURL:   envStr("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBAPIKey:    must("TMDB_API_KEY"),
		Language:      envStr("TMDB_LANGUAGE", "en-US"),
		TVMazeBaseURL: envStr("TVMAZE_BASE_URL", "https://api.tvmaze.com"),
		TraktBaseURL:  envStr("TRAKT_BASE_URL", "https://api.trakt.tv"),
		TraktClientID: envStr("TRAKT_CLIENT_ID", ""),

		Timeout:      envDur("PROVIDER_TIMEOUT", 10*time.Second),
		CacheTTL:     envDur("PROVIDER_CACHE_TTL", time.Hour),
		CachePrefix:  envStr("PROVIDER_CACHE_PREFIX", "api_request"),
		RateLimit:    envFloat("PROVIDER_RATE_LIMIT", 0),
		MaxBodyBytes: int64(envInt("PROVIDER_MAX_BODY_BYTES", 8<<20)),
	}
}
