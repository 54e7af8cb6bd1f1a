// Package service holds the catalog's reconciliation logic: it pulls slices
// of provider data through the caching gateway, upserts what must be kept
// into MySQL and hands handlers ready-to-render values.  Every operation is
// sequential within a request.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/queue"
	"github.com/WayneOg/ease-E-movies/internal/repository"
)

// ErrInvalidInput is wrapped by every validation failure.  Its messages are
// safe to show to clients.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrEmptyQuery     = fmt.Errorf("%w: please enter a search term", ErrInvalidInput)
	ErrUnknownGenre   = fmt.Errorf("%w: unknown genre", ErrInvalidInput)
	ErrEmptyName      = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrSeasonNotFound = errors.New("season not found")
)

// GenrePolicy decides what happens to an item's stored genres when a
// provider payload reports them.
type GenrePolicy string

const (
	// GenreAccumulate adds reported genres and never removes a link.
	GenreAccumulate GenrePolicy = "accumulate"
	// GenreReplace makes the stored set equal the reported set.
	GenreReplace GenrePolicy = "replace"
)

// ParseGenrePolicy accepts "accumulate" or "replace"; anything else is
// accumulate.
func ParseGenrePolicy(s string) GenrePolicy {
	if GenrePolicy(strings.ToLower(strings.TrimSpace(s))) == GenreReplace {
		return GenreReplace
	}
	return GenreAccumulate
}

// MetadataSource is the primary provider.  *provider.TMDB implements it.
type MetadataSource interface {
	DiscoverMovies(ctx context.Context, q provider.Discover) (*provider.Page[provider.Movie], error)
	MoviesByGenre(ctx context.Context, genreID int64, page int) (*provider.Page[provider.Movie], error)
	LatestMovies(ctx context.Context, page int) (*provider.Page[provider.Movie], error)
	PopularMovies(ctx context.Context, page int) (*provider.Page[provider.Movie], error)
	TopRatedMovies(ctx context.Context, page int) (*provider.Page[provider.Movie], error)
	TrendingMovies(ctx context.Context, window string) (*provider.Page[provider.Movie], error)
	MovieDetails(ctx context.Context, id int64) (*provider.Movie, error)
	SearchMovies(ctx context.Context, query string, page int) (*provider.Page[provider.Movie], error)
	MovieGenres(ctx context.Context) ([]provider.Genre, error)
	SeriesGenres(ctx context.Context) ([]provider.Genre, error)
	PopularSeries(ctx context.Context, page int) (*provider.Page[provider.Series], error)
	SeriesByGenre(ctx context.Context, genreID int64, page int) (*provider.Page[provider.Series], error)
	SeriesDetails(ctx context.Context, id int64) (*provider.Series, error)
	SeasonDetails(ctx context.Context, seriesID int64, season int) (*provider.Season, error)
	SearchSeries(ctx context.Context, query string, page int) (*provider.Page[provider.Series], error)
}

// ListingSource is the secondary, key-less listings provider.
type ListingSource interface {
	Shows(ctx context.Context, page int) ([]provider.Show, error)
	Show(ctx context.Context, id int64) (*provider.Show, error)
	Seasons(ctx context.Context, showID int64) ([]provider.ShowSeason, error)
	SeasonEpisodes(ctx context.Context, seasonID int64) ([]provider.ShowEpisode, error)
	ShowEpisodes(ctx context.Context, showID int64) ([]provider.ShowEpisode, error)
	SearchShows(ctx context.Context, query string) ([]provider.ShowHit, error)
}

// TrendingSource lists trending titles from Trakt.
type TrendingSource interface {
	TrendingMovies(ctx context.Context) ([]provider.TraktTrending, error)
}

type MovieStore interface {
	Upsert(ctx context.Context, id int64, a repository.MovieAttrs) (*model.Movie, bool, error)
	GetByID(ctx context.Context, id int64) (*model.Movie, error)
	SearchByTitle(ctx context.Context, q string) ([]model.Movie, error)
	ListByGenre(ctx context.Context, genreID int64) ([]model.Movie, error)
	ListAll(ctx context.Context) ([]model.Movie, error)
	AddGenres(ctx context.Context, movieID int64, genreIDs []int64) error
	ReplaceGenres(ctx context.Context, movieID int64, genreIDs []int64) error
	Genres(ctx context.Context, movieID int64) ([]model.Genre, error)
}

type SeriesStore interface {
	Upsert(ctx context.Context, id int64, a repository.SeriesAttrs) (*model.Series, bool, error)
	GetByID(ctx context.Context, id int64) (*model.Series, error)
	SearchByName(ctx context.Context, q string) ([]model.Series, error)
	Delete(ctx context.Context, id int64) error
	AddGenres(ctx context.Context, seriesID int64, genreIDs []int64) error
	ReplaceGenres(ctx context.Context, seriesID int64, genreIDs []int64) error
	Genres(ctx context.Context, seriesID int64) ([]model.Genre, error)
	UpsertSeason(ctx context.Context, seriesID int64, number int, a repository.SeasonAttrs) (int64, bool, error)
	UpsertEpisode(ctx context.Context, seasonID int64, number int, a repository.EpisodeAttrs) (int64, bool, error)
	Seasons(ctx context.Context, seriesID int64) ([]model.Season, error)
}

type GenreStore interface {
	Upsert(ctx context.Context, id int64, name string) (bool, error)
	GetByID(ctx context.Context, id int64) (*model.Genre, error)
	ListAll(ctx context.Context) ([]model.Genre, error)
}

type CategoryStore interface {
	Create(ctx context.Context, name, slug string) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	AddMovie(ctx context.Context, categoryID, movieID int64) error
	Movies(ctx context.Context, categoryID int64) ([]model.Movie, error)
}

// EventPublisher receives one event per reconciled record.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.CatalogEvent) error
}

// Deps are the collaborators of a Catalog.  Listings, Trending and Events
// may be nil.
type Deps struct {
	Metadata   MetadataSource
	Listings   ListingSource
	Trending   TrendingSource
	Movies     MovieStore
	Series     SeriesStore
	Genres     GenreStore
	Categories CategoryStore
	Events     EventPublisher
}

// Options tune reconciliation.
type Options struct {
	GenrePolicy GenrePolicy
	// SearchLocalFirst serves a search from local rows whenever any match,
	// consulting the provider only on zero local matches.
	SearchLocalFirst bool
	Logger           hclog.Logger
}

// Catalog is the reconciliation layer.
type Catalog struct {
	tmdb       MetadataSource
	tvmaze     ListingSource
	trakt      TrendingSource
	movies     MovieStore
	series     SeriesStore
	genres     GenreStore
	categories CategoryStore
	events     EventPublisher

	policy     GenrePolicy
	localFirst bool
	log        hclog.Logger
}

func New(d Deps, opts Options) *Catalog {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	policy := opts.GenrePolicy
	if policy != GenreReplace {
		policy = GenreAccumulate
	}
	return &Catalog{
		tmdb:       d.Metadata,
		tvmaze:     d.Listings,
		trakt:      d.Trending,
		movies:     d.Movies,
		series:     d.Series,
		genres:     d.Genres,
		categories: d.Categories,
		events:     d.Events,
		policy:     policy,
		localFirst: opts.SearchLocalFirst,
		log:        logger,
	}
}

// publish emits a catalog event.  Failures are logged and otherwise ignored.
func (c *Catalog) publish(ctx context.Context, kind string, id int64, title string, created bool, source string) {
	if created {
		c.log.Debug("record created", "kind", kind, "id", id, "source", source)
	}
	if c.events == nil {
		return
	}
	if err := c.events.Publish(ctx, queue.NewCatalogEvent(kind, id, title, created, source)); err != nil {
		c.log.Debug("event not published", "kind", kind, "id", id, "error", err)
	}
}

// genreSet tracks genre rows already ensured during one operation so each
// is written once.
type genreSet map[int64]bool

// ensureGenres upserts the named genres and returns their ids.
func (c *Catalog) ensureGenres(ctx context.Context, seen genreSet, genres []provider.Genre) ([]int64, error) {
	ids := make([]int64, 0, len(genres))
	dup := map[int64]bool{}
	for _, g := range genres {
		if g.ID == 0 || g.Name == "" || dup[g.ID] {
			continue
		}
		dup[g.ID] = true
		if !seen[g.ID] {
			if _, err := c.genres.Upsert(ctx, g.ID, g.Name); err != nil {
				return nil, fmt.Errorf("upsert genre %d: %w", g.ID, err)
			}
			seen[g.ID] = true
		}
		ids = append(ids, g.ID)
	}
	return ids, nil
}

// knownGenres names movie list-payload genre ids from the closed genre table.
// Ids outside the table carry no name and are skipped.
func knownGenres(ids []int64) []provider.Genre {
	out := make([]provider.Genre, 0, len(ids))
	for _, id := range ids {
		if name := provider.GenreName(id); name != "" {
			out = append(out, provider.Genre{ID: id, Name: provider.GenreTitle(name)})
		}
	}
	return out
}

// seriesGenres resolves series list-payload genre ids to stored genre rows.
// Ids not stored yet are looked up in the provider's TV genre list, which
// is upserted as a whole; ids that list does not carry either are skipped.
func (c *Catalog) seriesGenres(ctx context.Context, seen genreSet, ids []int64) ([]int64, error) {
	out := make([]int64, 0, len(ids))
	var missing []int64
	dup := map[int64]bool{}
	for _, id := range ids {
		if id == 0 || dup[id] {
			continue
		}
		dup[id] = true
		if seen[id] {
			out = append(out, id)
			continue
		}
		_, err := c.genres.GetByID(ctx, id)
		switch {
		case err == nil:
			seen[id] = true
			out = append(out, id)
		case errors.Is(err, repository.ErrGenreNotFound):
			missing = append(missing, id)
		default:
			return nil, fmt.Errorf("genre %d: %w", id, err)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	tv, err := c.tmdb.SeriesGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("tv genres: %w", err)
	}
	if _, err := c.ensureGenres(ctx, seen, tv); err != nil {
		return nil, err
	}
	for _, id := range missing {
		if seen[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// applyMovieGenres links reported genres according to the policy.  An
// empty report leaves the stored set alone under both policies.
func (c *Catalog) applyMovieGenres(ctx context.Context, movieID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if c.policy == GenreReplace {
		return c.movies.ReplaceGenres(ctx, movieID, ids)
	}
	return c.movies.AddGenres(ctx, movieID, ids)
}

func (c *Catalog) applySeriesGenres(ctx context.Context, seriesID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if c.policy == GenreReplace {
		return c.series.ReplaceGenres(ctx, seriesID, ids)
	}
	return c.series.AddGenres(ctx, seriesID, ids)
}

// reconcileMovie upserts one list or search payload and links its genres.
func (c *Catalog) reconcileMovie(ctx context.Context, seen genreSet, m provider.Movie, extraGenres []provider.Genre, source string) (*model.Movie, error) {
	rec, created, err := c.movies.Upsert(ctx, m.ID, listMovieAttrs(m))
	if err != nil {
		return nil, fmt.Errorf("upsert movie %d: %w", m.ID, err)
	}
	ids, err := c.ensureGenres(ctx, seen, append(knownGenres(m.GenreIDs), extraGenres...))
	if err != nil {
		return nil, err
	}
	if err := c.applyMovieGenres(ctx, m.ID, ids); err != nil {
		return nil, fmt.Errorf("link genres of movie %d: %w", m.ID, err)
	}
	c.publish(ctx, queue.KindMovie, rec.ID, rec.Title, created, source)
	return rec, nil
}

func (c *Catalog) reconcileSeries(ctx context.Context, seen genreSet, s provider.Series, source string) (*model.Series, error) {
	rec, created, err := c.series.Upsert(ctx, s.ID, listSeriesAttrs(s))
	if err != nil {
		return nil, fmt.Errorf("upsert series %d: %w", s.ID, err)
	}
	ids, err := c.seriesGenres(ctx, seen, s.GenreIDs)
	if err != nil {
		return nil, err
	}
	if err := c.applySeriesGenres(ctx, s.ID, ids); err != nil {
		return nil, fmt.Errorf("link genres of series %d: %w", s.ID, err)
	}
	c.publish(ctx, queue.KindSeries, rec.ID, rec.Name, created, source)
	return rec, nil
}
