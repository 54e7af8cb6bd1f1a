package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/WayneOg/ease-E-movies/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// CategoryRepo manages the locally curated categories.  Categories never
// come from a provider.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create inserts a category.  A taken slug yields ErrConflict.
func (r *CategoryRepo) Create(ctx context.Context, name, slug string) (*model.Category, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO categories (name, slug) VALUES (?, ?)", name, slug)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Category{ID: id, Name: name, Slug: slug}, nil
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name, slug FROM categories WHERE slug = ?", slug).Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, slug FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddMovie files a stored movie under the category.  Adding it twice is a
// no-op.
func (r *CategoryRepo) AddMovie(ctx context.Context, categoryID, movieID int64) error {
	_, err := r.db.ExecContext(ctx, "INSERT IGNORE INTO category_movies (category_id, movie_id) VALUES (?, ?)", categoryID, movieID)
	return err
}

// Movies lists the movies filed under the category, best rated first.
func (r *CategoryRepo) Movies(ctx context.Context, categoryID int64) ([]model.Movie, error) {
	q := "SELECT " + movieColumns + " FROM movies m JOIN category_movies cm ON cm.movie_id = m.id WHERE cm.category_id = ? ORDER BY m.vote_average DESC, m.id"
	return queryMovies(ctx, r.db, q, categoryID)
}
