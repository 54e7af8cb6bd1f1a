package model

import "time"

// Series is the local mirror of a provider TV series.  It owns its seasons
// (and through them, episodes); deleting a series cascades to both.
//
// Fields:
//  ID               – provider (TMDb) id, the natural key.
//  Name             – display title.
//  Overview         – synopsis, optional.
//  FirstAirDate     – optional premiere date.
//  PosterPath       – optional poster path or URL.
//  VoteAverage      – average rating.
//  EpisodeRunTime   – typical episode length in minutes.
//  Tagline          – optional tagline.
//  IMDbID, TVDBID   – optional external identifiers.
//  NumberOfSeasons  – season count reported by the provider.
//  NumberOfEpisodes – episode count reported by the provider.
//  Status           – provider status string ("Ended", "Returning Series").
type Series struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Overview         *string   `json:"overview"`
	FirstAirDate     Date      `json:"first_air_date"`
	PosterPath       *string   `json:"poster_path"`
	VoteAverage      float64   `json:"vote_average"`
	EpisodeRunTime   int       `json:"episode_run_time"`
	Tagline          *string   `json:"tagline"`
	IMDbID           *string   `json:"imdb_id"`
	TVDBID           *int64    `json:"tvdb_id"`
	NumberOfSeasons  int       `json:"number_of_seasons"`
	NumberOfEpisodes int       `json:"number_of_episodes"`
	Status           *string   `json:"status"`
	Genres           []Genre   `json:"genres"`
	Seasons          []Season  `json:"seasons,omitempty"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// Season belongs to exactly one Series; (series_id, season_number) is unique.
type Season struct {
	ID           int64     `json:"id"`
	SeriesID     int64     `json:"-"`
	SeasonNumber int       `json:"season_number"`
	Name         *string   `json:"name"`
	Overview     *string   `json:"overview"`
	AirDate      Date      `json:"air_date"`
	EpisodeCount int       `json:"episode_count"`
	Episodes     []Episode `json:"episodes"`
}

// Episode belongs to exactly one Season; (season_id, episode_number) is unique.
type Episode struct {
	ID            int64   `json:"id"`
	SeasonID      int64   `json:"-"`
	EpisodeNumber int     `json:"episode_number"`
	Name          *string `json:"name"`
	Overview      *string `json:"overview"`
	AirDate       Date    `json:"air_date"`
	VoteAverage   float64 `json:"vote_average"`
}
