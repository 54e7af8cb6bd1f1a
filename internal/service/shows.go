package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/WayneOg/ease-E-movies/internal/pagination"
	"github.com/WayneOg/ease-E-movies/internal/provider"
)

// Secondary-provider listings are passed through as-is and never stored;
// their ids live in a different namespace from the primary provider's.

// ErrListingsDisabled is returned when no secondary provider is wired.
var ErrListingsDisabled = errors.New("series listings not configured")

// ShowListing pages through the first block of the TVMaze show index,
// skipping shows without an image.
func (c *Catalog) ShowListing(ctx context.Context, rawPage string) (pagination.Page[provider.Show], error) {
	if c.tvmaze == nil {
		return pagination.Page[provider.Show]{}, ErrListingsDisabled
	}
	shows, err := c.tvmaze.Shows(ctx, 1)
	if err != nil {
		return pagination.Page[provider.Show]{}, fmt.Errorf("show index: %w", err)
	}
	return pagination.Paginate(provider.WithPoster(shows), rawPage, pagination.DefaultSize), nil
}

// ShowSearch pages through the secondary provider's matches for query,
// skipping shows without an image.
func (c *Catalog) ShowSearch(ctx context.Context, query, rawPage string) (pagination.Page[provider.Show], error) {
	if c.tvmaze == nil {
		return pagination.Page[provider.Show]{}, ErrListingsDisabled
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return pagination.Page[provider.Show]{}, ErrEmptyQuery
	}
	hits, err := c.tvmaze.SearchShows(ctx, q)
	if err != nil {
		return pagination.Page[provider.Show]{}, fmt.Errorf("search shows %q: %w", q, err)
	}
	shows := make([]provider.Show, 0, len(hits))
	for _, h := range hits {
		shows = append(shows, h.Show)
	}
	return pagination.Paginate(provider.WithPoster(shows), rawPage, pagination.DefaultSize), nil
}

// ShowPage is a show with its seasons and the episodes of one season.
type ShowPage struct {
	Show     provider.Show          `json:"show"`
	Seasons  []provider.ShowSeason  `json:"seasons"`
	Season   int                    `json:"season"`
	Episodes []provider.ShowEpisode `json:"episodes"`
}

// ShowDetail loads a show, its season list and the episodes of season
// number (1-based).  A show without that season yields ErrSeasonNotFound.
func (c *Catalog) ShowDetail(ctx context.Context, showID int64, number int) (*ShowPage, error) {
	if c.tvmaze == nil {
		return nil, ErrListingsDisabled
	}
	show, err := c.tvmaze.Show(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("show %d: %w", showID, err)
	}
	seasons, err := c.tvmaze.Seasons(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("seasons of show %d: %w", showID, err)
	}
	page := &ShowPage{Show: *show, Seasons: seasons, Season: number, Episodes: []provider.ShowEpisode{}}
	if len(seasons) == 0 {
		return page, nil
	}
	for _, s := range seasons {
		if s.Number != number {
			continue
		}
		eps, err := c.tvmaze.SeasonEpisodes(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("episodes of season %d: %w", s.ID, err)
		}
		page.Episodes = eps
		return page, nil
	}
	return nil, ErrSeasonNotFound
}

// SeasonEpisodes lists the episodes of one season of a show, using the
// show's full episode list.
func (c *Catalog) SeasonEpisodes(ctx context.Context, showID int64, number int) ([]provider.ShowEpisode, error) {
	if c.tvmaze == nil {
		return nil, ErrListingsDisabled
	}
	all, err := c.tvmaze.ShowEpisodes(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("episodes of show %d: %w", showID, err)
	}
	out := []provider.ShowEpisode{}
	for _, e := range all {
		if e.Season == number {
			out = append(out, e)
		}
	}
	return out, nil
}
