package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/pagination"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/queue"
	"github.com/WayneOg/ease-E-movies/internal/repository"
)

// maxProviderPage is the highest page TMDb serves for list endpoints.
const maxProviderPage = 500

// Row is one titled strip of the landing page.
type Row struct {
	Slug   string
	Title  string
	Movies []provider.Movie
}

// Home builds the landing page: popular movies, one row per home genre and
// the latest releases.  Calls run one after the other and the first
// failure fails the page.
func (c *Catalog) Home(ctx context.Context) ([]Row, error) {
	rows := make([]Row, 0, len(provider.HomeRows)+2)

	popular, err := c.tmdb.PopularMovies(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("popular movies: %w", err)
	}
	rows = append(rows, Row{Slug: "popular", Title: "Popular", Movies: provider.WithPoster(popular.Results)})

	for _, slug := range provider.HomeRows {
		id, ok := provider.LookupGenre(slug)
		if !ok {
			continue
		}
		p, err := c.tmdb.MoviesByGenre(ctx, id, 1)
		if err != nil {
			return nil, fmt.Errorf("%s movies: %w", slug, err)
		}
		rows = append(rows, Row{Slug: slug, Title: provider.GenreTitle(slug), Movies: provider.WithPoster(p.Results)})
	}

	latest, err := c.tmdb.LatestMovies(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("latest movies: %w", err)
	}
	rows = append(rows, Row{Slug: "latest", Title: "Latest", Movies: latest.Results})
	return rows, nil
}

// SyncGenres refreshes the stored genre list from the provider and returns
// every stored genre.
func (c *Catalog) SyncGenres(ctx context.Context) ([]model.Genre, error) {
	genres, err := c.tmdb.MovieGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("movie genres: %w", err)
	}
	for _, g := range genres {
		created, err := c.genres.Upsert(ctx, g.ID, g.Name)
		if err != nil {
			return nil, fmt.Errorf("upsert genre %d: %w", g.ID, err)
		}
		c.publish(ctx, queue.KindGenre, g.ID, g.Name, created, "genres")
	}
	return c.genres.ListAll(ctx)
}

// GenrePage is a reconciled genre listing.
type GenrePage struct {
	Genre  model.Genre
	Movies pagination.Page[model.Movie]
}

// BrowseGenre fetches the provider's most popular movies for a genre,
// upserts every poster-bearing one, links it to the genre according to the
// genre policy and returns the locally stored movies of that genre.
func (c *Catalog) BrowseGenre(ctx context.Context, genreID int64, rawPage string) (*GenrePage, error) {
	genre, err := c.resolveGenre(ctx, genreID)
	if err != nil {
		return nil, err
	}
	p, err := c.tmdb.DiscoverMovies(ctx, provider.Discover{GenreID: genreID, SortBy: "popularity.desc"})
	if err != nil {
		return nil, fmt.Errorf("discover genre %d: %w", genreID, err)
	}
	seen := genreSet{genre.ID: true}
	browsed := []provider.Genre{{ID: genre.ID, Name: genre.Name}}
	for _, m := range provider.WithPoster(p.Results) {
		if _, err := c.reconcileMovie(ctx, seen, m, browsed, "genre"); err != nil {
			return nil, err
		}
	}
	local, err := c.movies.ListByGenre(ctx, genreID)
	if err != nil {
		return nil, fmt.Errorf("list genre %d: %w", genreID, err)
	}
	return &GenrePage{Genre: *genre, Movies: pagination.Paginate(local, rawPage, pagination.DefaultSize)}, nil
}

// resolveGenre returns the stored genre, creating it from the closed genre
// table when it has not been synced yet.
func (c *Catalog) resolveGenre(ctx context.Context, id int64) (*model.Genre, error) {
	g, err := c.genres.GetByID(ctx, id)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, repository.ErrGenreNotFound) {
		return nil, err
	}
	name := provider.GenreName(id)
	if name == "" {
		return nil, err
	}
	g = &model.Genre{ID: id, Name: provider.GenreTitle(name)}
	created, err := c.genres.Upsert(ctx, g.ID, g.Name)
	if err != nil {
		return nil, fmt.Errorf("upsert genre %d: %w", id, err)
	}
	c.publish(ctx, queue.KindGenre, g.ID, g.Name, created, "genre")
	return g, nil
}

// ProviderPage is a provider-paginated list after poster filtering.
type ProviderPage[T any] struct {
	pagination.Page[T]
	Slug  string `json:"-"`
	Title string `json:"-"`
}

func fromProvider[T provider.Posterable](p *provider.Page[T], page int) ProviderPage[T] {
	total := p.TotalPages
	if total > maxProviderPage {
		total = maxProviderPage
	}
	if total < 1 {
		total = 1
	}
	return ProviderPage[T]{Page: pagination.Page[T]{
		Items:    provider.WithPoster(p.Results),
		Number:   page,
		NumPages: total,
		Total:    p.TotalResults,
	}}
}

// providerPage turns a raw page token into a provider page number.
func providerPage(rawPage string) int {
	n := pagination.ParsePage(rawPage)
	if n > maxProviderPage {
		n = maxProviderPage
	}
	return n
}

// GenreListing is the provider's page of a named genre, unpersisted.  name
// may be any name or alias of the closed genre table.
func (c *Catalog) GenreListing(ctx context.Context, name, rawPage string) (*ProviderPage[provider.Movie], error) {
	id, ok := provider.LookupGenre(name)
	if !ok {
		return nil, ErrUnknownGenre
	}
	n := providerPage(rawPage)
	p, err := c.tmdb.MoviesByGenre(ctx, id, n)
	if err != nil {
		return nil, fmt.Errorf("%s movies: %w", name, err)
	}
	out := fromProvider(p, n)
	out.Slug, out.Title = name, provider.GenreTitle(name)
	return &out, nil
}

func (c *Catalog) PopularMovies(ctx context.Context, rawPage string) (*ProviderPage[provider.Movie], error) {
	n := providerPage(rawPage)
	p, err := c.tmdb.PopularMovies(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("popular movies: %w", err)
	}
	out := fromProvider(p, n)
	return &out, nil
}

func (c *Catalog) TopRatedMovies(ctx context.Context, rawPage string) (*ProviderPage[provider.Movie], error) {
	n := providerPage(rawPage)
	p, err := c.tmdb.TopRatedMovies(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("top rated movies: %w", err)
	}
	out := fromProvider(p, n)
	return &out, nil
}

func (c *Catalog) LatestMovies(ctx context.Context, rawPage string) (*ProviderPage[provider.Movie], error) {
	n := providerPage(rawPage)
	p, err := c.tmdb.LatestMovies(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("latest movies: %w", err)
	}
	out := fromProvider(p, n)
	return &out, nil
}

// TrendingMovies is this week's trending list.  TMDb serves it as a single
// page.
func (c *Catalog) TrendingMovies(ctx context.Context) (*ProviderPage[provider.Movie], error) {
	p, err := c.tmdb.TrendingMovies(ctx, "week")
	if err != nil {
		return nil, fmt.Errorf("trending movies: %w", err)
	}
	out := fromProvider(p, 1)
	return &out, nil
}

func (c *Catalog) PopularSeries(ctx context.Context, rawPage string) (*ProviderPage[provider.Series], error) {
	n := providerPage(rawPage)
	p, err := c.tmdb.PopularSeries(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("popular series: %w", err)
	}
	out := fromProvider(p, n)
	return &out, nil
}

// SeriesGenreListing is the provider's page of series in one genre,
// unpersisted.  Series genres use TMDb's TV genre ids, which differ from
// the movie table for several genres.
func (c *Catalog) SeriesGenreListing(ctx context.Context, genreID int64, rawPage string) (*ProviderPage[provider.Series], error) {
	if genreID <= 0 {
		return nil, fmt.Errorf("%w: invalid genre id", ErrInvalidInput)
	}
	n := providerPage(rawPage)
	p, err := c.tmdb.SeriesByGenre(ctx, genreID, n)
	if err != nil {
		return nil, fmt.Errorf("series of genre %d: %w", genreID, err)
	}
	out := fromProvider(p, n)
	return &out, nil
}

// TraktTrending lists trending movies from Trakt.
func (c *Catalog) TraktTrending(ctx context.Context) ([]provider.TraktTrending, error) {
	if c.trakt == nil {
		return nil, provider.ErrTraktDisabled
	}
	out, err := c.trakt.TrendingMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("trakt trending: %w", err)
	}
	return out, nil
}

// AllMovies pages through every stored movie.
func (c *Catalog) AllMovies(ctx context.Context, rawPage string) (pagination.Page[model.Movie], error) {
	all, err := c.movies.ListAll(ctx)
	if err != nil {
		return pagination.Page[model.Movie]{}, err
	}
	return pagination.Paginate(all, rawPage, pagination.DefaultSize), nil
}

// Genres lists stored genres without contacting the provider.
func (c *Catalog) Genres(ctx context.Context) ([]model.Genre, error) {
	return c.genres.ListAll(ctx)
}
