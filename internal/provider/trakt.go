package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrTraktDisabled is returned when no Trakt client id is configured.
var ErrTraktDisabled = errors.New("trakt client id not configured")

// HeaderFetcher is a Fetcher that can send static request headers.
type HeaderFetcher interface {
	FetchWithHeader(ctx context.Context, rawURL string, header http.Header, out any) error
}

// TraktTrending is one entry of /movies/trending.
type TraktTrending struct {
	Watchers int        `json:"watchers"`
	Movie    TraktMovie `json:"movie"`
}

type TraktMovie struct {
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Overview string   `json:"overview"`
	IDs      TraktIDs `json:"ids"`
}

type TraktIDs struct {
	Trakt int64  `json:"trakt"`
	Slug  string `json:"slug"`
	IMDb  string `json:"imdb"`
	TMDB  int64  `json:"tmdb"`
}

// Trakt lists trending titles.  The client id travels as a header, so it
// never appears in cache keys.
type Trakt struct {
	gw       HeaderFetcher
	baseURL  string
	clientID string
}

func NewTrakt(gw HeaderFetcher, baseURL, clientID string) *Trakt {
	return &Trakt{gw: gw, baseURL: strings.TrimRight(baseURL, "/"), clientID: clientID}
}

func (t *Trakt) Enabled() bool { return t != nil && t.clientID != "" }

func (t *Trakt) TrendingMovies(ctx context.Context) ([]TraktTrending, error) {
	if !t.Enabled() {
		return nil, ErrTraktDisabled
	}
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("trakt-api-version", "2")
	hdr.Set("trakt-api-key", t.clientID)
	var out []TraktTrending
	if err := t.gw.FetchWithHeader(ctx, t.baseURL+"/movies/trending", hdr, &out); err != nil {
		return nil, err
	}
	return out, nil
}
