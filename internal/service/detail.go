package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/queue"
	"github.com/WayneOg/ease-E-movies/internal/repository"
)

// MovieDetail fetches the full provider record of a movie, upserts every
// attribute it carries together with its genres and returns the stored
// movie.
func (c *Catalog) MovieDetail(ctx context.Context, id int64) (*model.Movie, error) {
	m, err := c.tmdb.MovieDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("movie %d: %w", id, err)
	}
	rec, created, err := c.movies.Upsert(ctx, id, detailMovieAttrs(*m))
	if err != nil {
		return nil, fmt.Errorf("upsert movie %d: %w", id, err)
	}
	ids, err := c.ensureGenres(ctx, genreSet{}, m.Genres)
	if err != nil {
		return nil, err
	}
	if err := c.applyMovieGenres(ctx, id, ids); err != nil {
		return nil, fmt.Errorf("link genres of movie %d: %w", id, err)
	}
	if rec.Genres, err = c.movies.Genres(ctx, id); err != nil {
		return nil, err
	}
	c.publish(ctx, queue.KindMovie, rec.ID, rec.Title, created, "detail")
	return rec, nil
}

// SeriesDetail fetches a series, upserts it with its genres and one row per
// advertised season, and returns it with its stored seasons.
func (c *Catalog) SeriesDetail(ctx context.Context, id int64) (*model.Series, error) {
	s, err := c.tmdb.SeriesDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("series %d: %w", id, err)
	}
	rec, created, err := c.series.Upsert(ctx, id, detailSeriesAttrs(*s))
	if err != nil {
		return nil, fmt.Errorf("upsert series %d: %w", id, err)
	}
	ids, err := c.ensureGenres(ctx, genreSet{}, s.Genres)
	if err != nil {
		return nil, err
	}
	if err := c.applySeriesGenres(ctx, id, ids); err != nil {
		return nil, fmt.Errorf("link genres of series %d: %w", id, err)
	}
	for _, d := range s.Seasons {
		seasonID, seasonCreated, err := c.series.UpsertSeason(ctx, id, d.SeasonNumber, seasonAttrs(d))
		if err != nil {
			return nil, fmt.Errorf("upsert season %d of series %d: %w", d.SeasonNumber, id, err)
		}
		c.publish(ctx, queue.KindSeason, seasonID, fmt.Sprintf("%s %s", rec.Name, d.Name), seasonCreated, "detail")
	}
	if rec.Genres, err = c.series.Genres(ctx, id); err != nil {
		return nil, err
	}
	if rec.Seasons, err = c.series.Seasons(ctx, id); err != nil {
		return nil, err
	}
	c.publish(ctx, queue.KindSeries, rec.ID, rec.Name, created, "detail")
	return rec, nil
}

// SyncSeason fetches one season with its episodes and upserts both.  The
// series is synced first when it is not stored yet.
func (c *Catalog) SyncSeason(ctx context.Context, seriesID int64, number int) (*model.Season, error) {
	series, err := c.series.GetByID(ctx, seriesID)
	if errors.Is(err, repository.ErrSeriesNotFound) {
		series, err = c.SeriesDetail(ctx, seriesID)
	}
	if err != nil {
		return nil, err
	}
	s, err := c.tmdb.SeasonDetails(ctx, seriesID, number)
	if err != nil {
		return nil, fmt.Errorf("season %d of series %d: %w", number, seriesID, err)
	}
	count := len(s.Episodes)
	attrs := seasonAttrs(provider.SeasonDigest{SeasonNumber: number, Name: s.Name, Overview: s.Overview, AirDate: s.AirDate})
	attrs.EpisodeCount = &count
	seasonID, created, err := c.series.UpsertSeason(ctx, seriesID, number, attrs)
	if err != nil {
		return nil, fmt.Errorf("upsert season %d of series %d: %w", number, seriesID, err)
	}
	c.publish(ctx, queue.KindSeason, seasonID, fmt.Sprintf("%s %s", series.Name, s.Name), created, "season")
	for _, e := range s.Episodes {
		episodeID, created, err := c.series.UpsertEpisode(ctx, seasonID, e.EpisodeNumber, episodeAttrs(e))
		if err != nil {
			return nil, fmt.Errorf("upsert episode %d of season %d: %w", e.EpisodeNumber, number, err)
		}
		c.publish(ctx, queue.KindEpisode, episodeID, e.Name, created, "season")
	}
	seasons, err := c.series.Seasons(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	for i := range seasons {
		if seasons[i].SeasonNumber == number {
			return &seasons[i], nil
		}
	}
	return nil, ErrSeasonNotFound
}
