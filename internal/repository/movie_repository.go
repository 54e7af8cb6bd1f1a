package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/WayneOg/ease-E-movies/internal/model"
)

// MovieAttrs carries the attributes one provider payload supplies for a
// movie.  Title is always written; a nil pointer means "not supplied" and
// leaves the stored value untouched on update.  Supplied empty strings and
// zero external ids are stored as NULL.
type MovieAttrs struct {
	Title       string
	Overview    *string
	ReleaseDate *model.Date
	PosterPath  *string
	VoteAverage *float64
	Runtime     *int
	Tagline     *string
	IMDbID      *string
	TVDBID      *int64
}

func (a MovieAttrs) columns() []column {
	cols := []column{{"title", a.Title}}
	if a.Overview != nil {
		cols = append(cols, column{"overview", nullString(*a.Overview)})
	}
	if a.ReleaseDate != nil {
		cols = append(cols, column{"release_date", *a.ReleaseDate})
	}
	if a.PosterPath != nil {
		cols = append(cols, column{"poster_path", nullString(*a.PosterPath)})
	}
	if a.VoteAverage != nil {
		cols = append(cols, column{"vote_average", *a.VoteAverage})
	}
	if a.Runtime != nil {
		cols = append(cols, column{"runtime", *a.Runtime})
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
	return cols
}

const movieColumns = "m.id, m.title, m.overview, m.release_date, m.poster_path, m.vote_average, m.runtime, m.tagline, m.imdb_id, m.tvdb_id, m.created_at, m.updated_at"

// MovieRepo encapsulates all database queries related to movies and their
// genre links.
type MovieRepo struct {
	db *sql.DB
}

func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Upsert creates the movie keyed by its provider id or refreshes the supplied
// attributes of the existing row in a single statement, then returns the
// stored record.  The boolean reports whether a new row was created.
func (r *MovieRepo) Upsert(ctx context.Context, id int64, a MovieAttrs) (*model.Movie, bool, error) {
	q, args := upsertStmt("movies", []column{{"id", id}}, a.columns(), "")
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, false, err
	}
	created, err := wasInserted(res)
	if err != nil {
		return nil, false, err
	}
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return m, created, nil
}

// GetByID loads a movie together with its genres.
func (r *MovieRepo) GetByID(ctx context.Context, id int64) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies m WHERE m.id = ?", id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	if m.Genres, err = movieGenreLink.list(ctx, r.db, id); err != nil {
		return nil, err
	}
	return m, nil
}

// SearchByTitle returns movies whose title contains q, ignoring case.
func (r *MovieRepo) SearchByTitle(ctx context.Context, q string) ([]model.Movie, error) {
	return r.list(ctx, "SELECT "+movieColumns+" FROM movies m WHERE LOWER(m.title) LIKE ? ORDER BY m.title", likePattern(q))
}

// ListByGenre returns the movies linked to genreID, each movie once.
func (r *MovieRepo) ListByGenre(ctx context.Context, genreID int64) ([]model.Movie, error) {
	return r.list(ctx, "SELECT DISTINCT "+movieColumns+" FROM movies m JOIN movie_genres mg ON mg.movie_id = m.id WHERE mg.genre_id = ? ORDER BY m.vote_average DESC, m.id", genreID)
}

// ListAll returns every stored movie ordered by title.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	return r.list(ctx, "SELECT "+movieColumns+" FROM movies m ORDER BY m.title")
}

// AddGenres links the movie to genreIDs without removing existing links.
func (r *MovieRepo) AddGenres(ctx context.Context, movieID int64, genreIDs []int64) error {
	return movieGenreLink.add(ctx, r.db, movieID, genreIDs)
}

// ReplaceGenres makes genreIDs the movie's exact genre set.
func (r *MovieRepo) ReplaceGenres(ctx context.Context, movieID int64, genreIDs []int64) error {
	return movieGenreLink.replace(ctx, r.db, movieID, genreIDs)
}

// Genres lists the genres linked to the movie.
func (r *MovieRepo) Genres(ctx context.Context, movieID int64) ([]model.Genre, error) {
	return movieGenreLink.list(ctx, r.db, movieID)
}

// list runs a movie query.  Genres are not loaded for list results.
func (r *MovieRepo) list(ctx context.Context, q string, args ...any) ([]model.Movie, error) {
	return queryMovies(ctx, r.db, q, args...)
}

func queryMovies(ctx context.Context, db queryer, q string, args ...any) ([]model.Movie, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func scanMovie(s rowScanner) (*model.Movie, error) {
	var m model.Movie
	err := s.Scan(&m.ID, &m.Title, &m.Overview, &m.ReleaseDate, &m.PosterPath, &m.VoteAverage,
		&m.Runtime, &m.Tagline, &m.IMDbID, &m.TVDBID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
