package model

import "time"

// Movie is the local mirror of a provider movie.  Rows are created or
// refreshed lazily whenever a page or API call needs them and are keyed by
// the provider id, so a second fetch of the same movie updates in place.
//
// Fields:
//  ID          – provider (TMDb) id, the natural key.
//  Title       – display title.
//  Overview    – synopsis, optional.
//  ReleaseDate – optional release date.
//  PosterPath  – poster path or absolute URL, optional.
//  VoteAverage – average rating, 0 when unknown.
//  Runtime     – minutes, 0 when unknown.
//  Tagline     – optional tagline.
//  IMDbID      – optional IMDb identifier.
//  TVDBID      – optional TheTVDB identifier.
//  Genres      – associated genres (movie_genres).
type Movie struct {
	ID          int64     `json:"id"`           // movies.id
	Title       string    `json:"title"`        // movies.title
	Overview    *string   `json:"overview"`     // movies.overview
	ReleaseDate Date      `json:"release_date"` // movies.release_date
	PosterPath  *string   `json:"poster_path"`  // movies.poster_path
	VoteAverage float64   `json:"vote_average"` // movies.vote_average
	Runtime     int       `json:"runtime"`      // movies.runtime
	Tagline     *string   `json:"tagline"`      // movies.tagline
	IMDbID      *string   `json:"imdb_id"`      // movies.imdb_id
	TVDBID      *int64    `json:"tvdb_id"`      // movies.tvdb_id
	Genres      []Genre   `json:"genres"`
	CreatedAt   time.Time `json:"-"` // movies.created_at
	UpdatedAt   time.Time `json:"-"` // movies.updated_at
}
