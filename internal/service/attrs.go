package service

import (
	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/repository"
)

// List and search payloads carry a subset of a title's fields; only those
// are written so a list refresh never blanks what a detail fetch stored.

func listMovieAttrs(m provider.Movie) repository.MovieAttrs {
	date := model.ParseDate(m.ReleaseDate)
	return repository.MovieAttrs{
		Title:       m.Title,
		Overview:    &m.Overview,
		ReleaseDate: &date,
		PosterPath:  &m.PosterPath,
		VoteAverage: &m.VoteAverage,
	}
}

func detailMovieAttrs(m provider.Movie) repository.MovieAttrs {
	a := listMovieAttrs(m)
	a.Runtime = &m.Runtime
	a.Tagline = &m.Tagline
	imdb := m.IMDbID
	var tvdb int64
	if m.ExternalIDs != nil {
		if imdb == "" {
			imdb = m.ExternalIDs.IMDbID
		}
		tvdb = m.ExternalIDs.TVDBID
	}
	a.IMDbID = &imdb
	a.TVDBID = &tvdb
	return a
}

func listSeriesAttrs(s provider.Series) repository.SeriesAttrs {
	date := model.ParseDate(s.FirstAirDate)
	return repository.SeriesAttrs{
		Name:         s.Name,
		Overview:     &s.Overview,
		FirstAirDate: &date,
		PosterPath:   &s.PosterPath,
		VoteAverage:  &s.VoteAverage,
	}
}

func detailSeriesAttrs(s provider.Series) repository.SeriesAttrs {
	a := listSeriesAttrs(s)
	runtime := s.RunTime()
	a.EpisodeRunTime = &runtime
	a.Tagline = &s.Tagline
	a.NumberOfSeasons = &s.NumberOfSeasons
	a.NumberOfEpisodes = &s.NumberOfEpisodes
	a.Status = &s.Status
	var imdb string
	var tvdb int64
	if s.ExternalIDs != nil {
		imdb, tvdb = s.ExternalIDs.IMDbID, s.ExternalIDs.TVDBID
	}
	a.IMDbID = &imdb
	a.TVDBID = &tvdb
	return a
}

func seasonAttrs(d provider.SeasonDigest) repository.SeasonAttrs {
	date := model.ParseDate(d.AirDate)
	return repository.SeasonAttrs{
		Name:         &d.Name,
		Overview:     &d.Overview,
		AirDate:      &date,
		EpisodeCount: &d.EpisodeCount,
	}
}

func episodeAttrs(e provider.Episode) repository.EpisodeAttrs {
	date := model.ParseDate(e.AirDate)
	return repository.EpisodeAttrs{
		Name:        &e.Name,
		Overview:    &e.Overview,
		AirDate:     &date,
		VoteAverage: &e.VoteAverage,
	}
}
