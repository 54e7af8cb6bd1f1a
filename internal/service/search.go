package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/provider"
)

// SearchResult holds the movies and series matching one query.
type SearchResult struct {
	Query  string         `json:"query"`
	Movies []model.Movie  `json:"movies"`
	Series []model.Series `json:"series"`
}

// Empty reports whether nothing matched.
func (r *SearchResult) Empty() bool { return len(r.Movies) == 0 && len(r.Series) == 0 }

// Search matches query against titles.  Each kind is answered from local
// rows when any contain the query (case-insensitively); otherwise one
// provider search runs and every poster-bearing hit is upserted and
// returned.  An empty query fails before any network call.
func (c *Catalog) Search(ctx context.Context, query string) (*SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	seen := genreSet{}
	movies, err := c.searchMovies(ctx, seen, q)
	if err != nil {
		return nil, err
	}
	series, err := c.searchSeries(ctx, seen, q)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Query: q, Movies: movies, Series: series}, nil
}

func (c *Catalog) searchMovies(ctx context.Context, seen genreSet, q string) ([]model.Movie, error) {
	if c.localFirst {
		local, err := c.movies.SearchByTitle(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("local movie search: %w", err)
		}
		if len(local) > 0 {
			return local, nil
		}
	}
	p, err := c.tmdb.SearchMovies(ctx, q, 1)
	if err != nil {
		return nil, fmt.Errorf("movie search: %w", err)
	}
	out := []model.Movie{}
	for _, m := range provider.WithPoster(p.Results) {
		rec, err := c.reconcileMovie(ctx, seen, m, nil, "search")
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (c *Catalog) searchSeries(ctx context.Context, seen genreSet, q string) ([]model.Series, error) {
	if c.localFirst {
		local, err := c.series.SearchByName(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("local series search: %w", err)
		}
		if len(local) > 0 {
			return local, nil
		}
	}
	p, err := c.tmdb.SearchSeries(ctx, q, 1)
	if err != nil {
		return nil, fmt.Errorf("series search: %w", err)
	}
	out := []model.Series{}
	for _, s := range provider.WithPoster(p.Results) {
		rec, err := c.reconcileSeries(ctx, seen, s, "search")
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}
