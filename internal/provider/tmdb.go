// Package provider builds request URLs for the third-party catalog providers
// and decodes their payloads.  All network access goes through a Fetcher
// (the caching gateway); this package never talks HTTP directly.
package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fetcher performs a cached GET of a fully formed URL and decodes the JSON
// payload into out.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, out any) error
}

// Discover selects a slice of the TMDb discover endpoint.  Zero fields are
// omitted from the URL.
type Discover struct {
	GenreID        int64
	SortBy         string
	ReleaseDateLTE string
	Page           int
}

// TMDB is the primary metadata provider client.
type TMDB struct {
	gw       Fetcher
	baseURL  string
	apiKey   string
	language string
	now      func() time.Time
}

// NewTMDB returns a TMDb client.  The credential is embedded in every URL it
// builds.
func NewTMDB(gw Fetcher, baseURL, apiKey, language string) *TMDB {
	if language == "" {
		language = "en-US"
	}
	return &TMDB{
		gw:       gw,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		language: language,
		now:      time.Now,
	}
}

// URL builds a request URL with parameters in a fixed order: api_key,
// language, then params as key/value pairs.  Keeping the order stable keeps
// cache keys stable.
func (t *TMDB) URL(path string, params ...string) string {
	var b strings.Builder
	b.WriteString(t.baseURL)
	b.WriteString(path)
	b.WriteString("?api_key=")
	b.WriteString(url.QueryEscape(t.apiKey))
	b.WriteString("&language=")
	b.WriteString(url.QueryEscape(t.language))
	for i := 0; i+1 < len(params); i += 2 {
		if params[i+1] == "" {
			continue
		}
		b.WriteByte('&')
		b.WriteString(params[i])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[i+1]))
	}
	return b.String()
}

func pageParam(p int) string {
	if p < 1 {
		p = 1
	}
	return strconv.Itoa(p)
}

func (t *TMDB) moviePage(ctx context.Context, u string) (*Page[Movie], error) {
	var out Page[Movie]
	if err := t.gw.Fetch(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TMDB) seriesPage(ctx context.Context, u string) (*Page[Series], error) {
	var out Page[Series]
	if err := t.gw.Fetch(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscoverMovies queries /discover/movie.
func (t *TMDB) DiscoverMovies(ctx context.Context, q Discover) (*Page[Movie], error) {
	var genre string
	if q.GenreID > 0 {
		genre = strconv.FormatInt(q.GenreID, 10)
	}
	return t.moviePage(ctx, t.URL("/discover/movie",
		"sort_by", q.SortBy,
		"release_date.lte", q.ReleaseDateLTE,
		"with_genres", genre,
		"page", pageParam(q.Page),
	))
}

// MoviesByGenre is one page of movies in a genre.
func (t *TMDB) MoviesByGenre(ctx context.Context, genreID int64, page int) (*Page[Movie], error) {
	return t.DiscoverMovies(ctx, Discover{GenreID: genreID, Page: page})
}

// LatestMovies lists released movies newest first.  Poster-less entries are
// dropped.
func (t *TMDB) LatestMovies(ctx context.Context, page int) (*Page[Movie], error) {
	p, err := t.DiscoverMovies(ctx, Discover{
		SortBy:         "release_date.desc",
		ReleaseDateLTE: t.now().Format("2006-01-02"),
		Page:           page,
	})
	if err != nil {
		return nil, err
	}
	p.Results = WithPoster(p.Results)
	return p, nil
}

func (t *TMDB) PopularMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return t.moviePage(ctx, t.URL("/movie/popular", "page", pageParam(page)))
}

func (t *TMDB) TopRatedMovies(ctx context.Context, page int) (*Page[Movie], error) {
	return t.moviePage(ctx, t.URL("/movie/top_rated", "page", pageParam(page)))
}

// TrendingMovies lists trending movies for window ("day" or "week").
func (t *TMDB) TrendingMovies(ctx context.Context, window string) (*Page[Movie], error) {
	if window != "day" {
		window = "week"
	}
	return t.moviePage(ctx, t.URL("/trending/movie/"+window))
}

// MovieDetails fetches one movie with its external identifiers.
func (t *TMDB) MovieDetails(ctx context.Context, id int64) (*Movie, error) {
	var out Movie
	u := t.URL(fmt.Sprintf("/movie/%d", id), "append_to_response", "external_ids")
	if err := t.gw.Fetch(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TMDB) SearchMovies(ctx context.Context, query string, page int) (*Page[Movie], error) {
	return t.moviePage(ctx, t.URL("/search/movie", "query", query, "page", pageParam(page)))
}

func (t *TMDB) MovieGenres(ctx context.Context) ([]Genre, error) {
	var out genreList
	if err := t.gw.Fetch(ctx, t.URL("/genre/movie/list"), &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

func (t *TMDB) SeriesGenres(ctx context.Context) ([]Genre, error) {
	var out genreList
	if err := t.gw.Fetch(ctx, t.URL("/genre/tv/list"), &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

func (t *TMDB) PopularSeries(ctx context.Context, page int) (*Page[Series], error) {
	return t.seriesPage(ctx, t.URL("/tv/popular", "page", pageParam(page)))
}

func (t *TMDB) SeriesByGenre(ctx context.Context, genreID int64, page int) (*Page[Series], error) {
	return t.seriesPage(ctx, t.URL("/discover/tv",
		"with_genres", strconv.FormatInt(genreID, 10),
		"page", pageParam(page),
	))
}

// SeriesDetails fetches one series with its season digests and external ids.
func (t *TMDB) SeriesDetails(ctx context.Context, id int64) (*Series, error) {
	var out Series
	u := t.URL(fmt.Sprintf("/tv/%d", id), "append_to_response", "external_ids")
	if err := t.gw.Fetch(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SeasonDetails fetches one season including its episodes.
func (t *TMDB) SeasonDetails(ctx context.Context, seriesID int64, season int) (*Season, error) {
	var out Season
	if err := t.gw.Fetch(ctx, t.URL(fmt.Sprintf("/tv/%d/season/%d", seriesID, season)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *TMDB) SearchSeries(ctx context.Context, query string, page int) (*Page[Series], error) {
	return t.seriesPage(ctx, t.URL("/search/tv", "query", query, "page", pageParam(page)))
}
