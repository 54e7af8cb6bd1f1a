package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/WayneOg/ease-E-movies/internal/model"
)

// GenreRepo stores the provider's genre list.  Genres are keyed by the
// provider id and only their name is ever refreshed.
type GenreRepo struct {
	db *sql.DB
}

func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// Upsert creates the genre or refreshes its name.  The boolean reports
// whether the row is new.
func (r *GenreRepo) Upsert(ctx context.Context, id int64, name string) (bool, error) {
	q, args := upsertStmt("genres", []column{{"id", id}}, []column{{"name", name}}, "")
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	return wasInserted(res)
}

func (r *GenreRepo) GetByID(ctx context.Context, id int64) (*model.Genre, error) {
	var g model.Genre
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM genres WHERE id = ?", id).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListAll returns every stored genre ordered by name.
func (r *GenreRepo) ListAll(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM genres ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
