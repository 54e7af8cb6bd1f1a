// Package handler exposes the catalog over HTTP: rendered pages, the JSON
// API used by the separate client application and the admin endpoints.
package handler

import (
	"context"

	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/pagination"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/service"
)

// Catalog is the set of catalog operations the handlers call.
// *service.Catalog implements it.
type Catalog interface {
	Home(ctx context.Context) ([]service.Row, error)
	Genres(ctx context.Context) ([]model.Genre, error)
	SyncGenres(ctx context.Context) ([]model.Genre, error)
	BrowseGenre(ctx context.Context, genreID int64, rawPage string) (*service.GenrePage, error)
	GenreListing(ctx context.Context, name, rawPage string) (*service.ProviderPage[provider.Movie], error)

	PopularMovies(ctx context.Context, rawPage string) (*service.ProviderPage[provider.Movie], error)
	TopRatedMovies(ctx context.Context, rawPage string) (*service.ProviderPage[provider.Movie], error)
	LatestMovies(ctx context.Context, rawPage string) (*service.ProviderPage[provider.Movie], error)
	TrendingMovies(ctx context.Context) (*service.ProviderPage[provider.Movie], error)
	PopularSeries(ctx context.Context, rawPage string) (*service.ProviderPage[provider.Series], error)
	SeriesGenreListing(ctx context.Context, genreID int64, rawPage string) (*service.ProviderPage[provider.Series], error)
	TraktTrending(ctx context.Context) ([]provider.TraktTrending, error)
	AllMovies(ctx context.Context, rawPage string) (pagination.Page[model.Movie], error)

	Search(ctx context.Context, query string) (*service.SearchResult, error)
	MovieDetail(ctx context.Context, id int64) (*model.Movie, error)
	SeriesDetail(ctx context.Context, id int64) (*model.Series, error)
	SyncSeason(ctx context.Context, seriesID int64, number int) (*model.Season, error)

	ShowListing(ctx context.Context, rawPage string) (pagination.Page[provider.Show], error)
	ShowSearch(ctx context.Context, query, rawPage string) (pagination.Page[provider.Show], error)
	ShowDetail(ctx context.Context, showID int64, number int) (*service.ShowPage, error)
	SeasonEpisodes(ctx context.Context, showID int64, number int) ([]provider.ShowEpisode, error)

	Categories(ctx context.Context) ([]model.Category, error)
	CategoryMovies(ctx context.Context, slug, rawPage string) (*service.CategoryPage, error)
	CreateCategory(ctx context.Context, name, slug string) (*model.Category, error)
	AddMovieToCategory(ctx context.Context, slug string, movieID int64) (*model.Movie, error)
	DeleteSeries(ctx context.Context, id int64) error
}

var _ Catalog = (*service.Catalog)(nil)
