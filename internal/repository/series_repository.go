package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/WayneOg/ease-E-movies/internal/model"
)

// SeriesAttrs mirrors MovieAttrs for TV series.
type SeriesAttrs struct {
	Name             string
	Overview         *string
	FirstAirDate     *model.Date
	PosterPath       *string
	VoteAverage      *float64
	EpisodeRunTime   *int
	Tagline          *string
	IMDbID           *string
	TVDBID           *int64
	NumberOfSeasons  *int
	NumberOfEpisodes *int
	Status           *string
}

func (a SeriesAttrs) columns() []column {
	cols := []column{{"name", a.Name}}
	if a.Overview != nil {
		cols = append(cols, column{"overview", nullString(*a.Overview)})
	}
	if a.FirstAirDate != nil {
		cols = append(cols, column{"first_air_date", *a.FirstAirDate})
	}
	if a.PosterPath != nil {
		cols = append(cols, column{"poster_path", nullString(*a.PosterPath)})
	}
	if a.VoteAverage != nil {
		cols = append(cols, column{"vote_average", *a.VoteAverage})
	}
	if a.EpisodeRunTime != nil {
		cols = append(cols, column{"episode_run_time", *a.EpisodeRunTime})
	}
	if a.Tagline != nil {
		cols = append(cols, column{"tagline", nullString(*a.Tagline)})
	}
	if a.IMDbID != nil {
		cols = append(cols, column{"imdb_id", nullString(*a.IMDbID)})
	}
	if a.TVDBID != nil {
		cols = append(cols, column{"tvdb_id", nullInt(*a.TVDBID)})
	}
	if a.NumberOfSeasons != nil {
		cols = append(cols, column{"number_of_seasons", *a.NumberOfSeasons})
	}
	if a.NumberOfEpisodes != nil {
		cols = append(cols, column{"number_of_episodes", *a.NumberOfEpisodes})
	}
	if a.Status != nil {
		cols = append(cols, column{"status", nullString(*a.Status)})
	}
	return cols
}

// SeasonAttrs are the writable attributes of a season.  The season number
// is the key and is passed separately.
type SeasonAttrs struct {
	Name         *string
	Overview     *string
	AirDate      *model.Date
	EpisodeCount *int
}

func (a SeasonAttrs) columns() []column {
	var cols []column
	if a.Name != nil {
		cols = append(cols, column{"name", nullString(*a.Name)})
	}
	if a.Overview != nil {
		cols = append(cols, column{"overview", nullString(*a.Overview)})
	}
	if a.AirDate != nil {
		cols = append(cols, column{"air_date", *a.AirDate})
	}
	if a.EpisodeCount != nil {
		cols = append(cols, column{"episode_count", *a.EpisodeCount})
	}
	return cols
}

// EpisodeAttrs are the writable attributes of an episode.
type EpisodeAttrs struct {
	Name        *string
	Overview    *string
	AirDate     *model.Date
	VoteAverage *float64
}

func (a EpisodeAttrs) columns() []column {
	var cols []column
	if a.Name != nil {
		cols = append(cols, column{"name", nullString(*a.Name)})
	}
	if a.Overview != nil {
		cols = append(cols, column{"overview", nullString(*a.Overview)})
	}
	if a.AirDate != nil {
		cols = append(cols, column{"air_date", *a.AirDate})
	}
	if a.VoteAverage != nil {
		cols = append(cols, column{"vote_average", *a.VoteAverage})
	}
	return cols
}

const seriesColumns = "s.id, s.name, s.overview, s.first_air_date, s.poster_path, s.vote_average, s.episode_run_time, s.tagline, s.imdb_id, s.tvdb_id, s.number_of_seasons, s.number_of_episodes, s.status, s.created_at, s.updated_at"

// SeriesRepo handles series rows and the seasons and episodes they own.
type SeriesRepo struct {
	db *sql.DB
}

func NewSeriesRepo(db *sql.DB) *SeriesRepo {
	return &SeriesRepo{db: db}
}

// Upsert creates or refreshes the series keyed by its provider id.
func (r *SeriesRepo) Upsert(ctx context.Context, id int64, a SeriesAttrs) (*model.Series, bool, error) {
	q, args := upsertStmt("series", []column{{"id", id}}, a.columns(), "")
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, false, err
	}
	created, err := wasInserted(res)
	if err != nil {
		return nil, false, err
	}
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return s, created, nil
}

// GetByID loads a series with its genres.  Seasons are loaded separately
// through Seasons.
func (r *SeriesRepo) GetByID(ctx context.Context, id int64) (*model.Series, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+seriesColumns+" FROM series s WHERE s.id = ?", id)
	s, err := scanSeries(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	if s.Genres, err = seriesGenreLink.list(ctx, r.db, id); err != nil {
		return nil, err
	}
	return s, nil
}

// SearchByName returns series whose name contains q, ignoring case.
func (r *SeriesRepo) SearchByName(ctx context.Context, q string) ([]model.Series, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+seriesColumns+" FROM series s WHERE LOWER(s.name) LIKE ? ORDER BY s.name", likePattern(q))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Series{}
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Delete removes the series.  Seasons, episodes and genre links go with it
// through the foreign keys.
func (r *SeriesRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM series WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSeriesNotFound
	}
	return nil
}

func (r *SeriesRepo) AddGenres(ctx context.Context, seriesID int64, genreIDs []int64) error {
	return seriesGenreLink.add(ctx, r.db, seriesID, genreIDs)
}

func (r *SeriesRepo) ReplaceGenres(ctx context.Context, seriesID int64, genreIDs []int64) error {
	return seriesGenreLink.replace(ctx, r.db, seriesID, genreIDs)
}

// Genres lists the genres linked to the series.
func (r *SeriesRepo) Genres(ctx context.Context, seriesID int64) ([]model.Genre, error) {
	return seriesGenreLink.list(ctx, r.db, seriesID)
}

// UpsertSeason creates or refreshes the season (seriesID, number) and
// returns its surrogate id.
func (r *SeriesRepo) UpsertSeason(ctx context.Context, seriesID int64, number int, a SeasonAttrs) (int64, bool, error) {
	keys := []column{{"series_id", seriesID}, {"season_number", number}}
	q, args := upsertStmt("seasons", keys, a.columns(), "id")
	return execUpsertID(ctx, r.db, q, args)
}

// UpsertEpisode creates or refreshes the episode (seasonID, number).
func (r *SeriesRepo) UpsertEpisode(ctx context.Context, seasonID int64, number int, a EpisodeAttrs) (int64, bool, error) {
	keys := []column{{"season_id", seasonID}, {"episode_number", number}}
	q, args := upsertStmt("episodes", keys, a.columns(), "id")
	return execUpsertID(ctx, r.db, q, args)
}

// Seasons lists the seasons of a series in order, each with its episodes.
func (r *SeriesRepo) Seasons(ctx context.Context, seriesID int64) ([]model.Season, error) {
	const qSeasons = "SELECT id, series_id, season_number, name, overview, air_date, episode_count FROM seasons WHERE series_id = ? ORDER BY season_number"
	rows, err := r.db.QueryContext(ctx, qSeasons, seriesID)
	if err != nil {
		return nil, err
	}
	seasons := []model.Season{}
	index := map[int64]int{}
	for rows.Next() {
		var s model.Season
		if err := rows.Scan(&s.ID, &s.SeriesID, &s.SeasonNumber, &s.Name, &s.Overview, &s.AirDate, &s.EpisodeCount); err != nil {
			rows.Close()
			return nil, err
		}
		s.Episodes = []model.Episode{}
		index[s.ID] = len(seasons)
		seasons = append(seasons, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(seasons) == 0 {
		return seasons, nil
	}

	const qEpisodes = "SELECT e.id, e.season_id, e.episode_number, e.name, e.overview, e.air_date, e.vote_average FROM episodes e JOIN seasons se ON se.id = e.season_id WHERE se.series_id = ? ORDER BY se.season_number, e.episode_number"
	erows, err := r.db.QueryContext(ctx, qEpisodes, seriesID)
	if err != nil {
		return nil, err
	}
	defer erows.Close()
	for erows.Next() {
		var e model.Episode
		if err := erows.Scan(&e.ID, &e.SeasonID, &e.EpisodeNumber, &e.Name, &e.Overview, &e.AirDate, &e.VoteAverage); err != nil {
			return nil, err
		}
		if i, ok := index[e.SeasonID]; ok {
			seasons[i].Episodes = append(seasons[i].Episodes, e)
		}
	}
	return seasons, erows.Err()
}

func execUpsertID(ctx context.Context, db execer, q string, args []any) (int64, bool, error) {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, false, err
	}
	created, err := wasInserted(res)
	if err != nil {
		return 0, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return id, created, nil
}

func scanSeries(s rowScanner) (*model.Series, error) {
	var m model.Series
	err := s.Scan(&m.ID, &m.Name, &m.Overview, &m.FirstAirDate, &m.PosterPath, &m.VoteAverage,
		&m.EpisodeRunTime, &m.Tagline, &m.IMDbID, &m.TVDBID, &m.NumberOfSeasons, &m.NumberOfEpisodes,
		&m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
