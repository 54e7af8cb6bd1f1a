package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/pagination"
	"github.com/WayneOg/ease-E-movies/internal/repository"
)

// CategoryPage is one page of the movies filed under a category.
type CategoryPage struct {
	Category model.Category
	Movies   pagination.Page[model.Movie]
}

func (c *Catalog) Categories(ctx context.Context) ([]model.Category, error) {
	return c.categories.List(ctx)
}

// CategoryMovies lists the stored movies of the category with slug.
func (c *Catalog) CategoryMovies(ctx context.Context, slug, rawPage string) (*CategoryPage, error) {
	cat, err := c.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	movies, err := c.categories.Movies(ctx, cat.ID)
	if err != nil {
		return nil, fmt.Errorf("movies of category %q: %w", slug, err)
	}
	return &CategoryPage{Category: *cat, Movies: pagination.Paginate(movies, rawPage, pagination.DefaultSize)}, nil
}

// CreateCategory stores a new category.  The slug is derived from name
// unless given.
func (c *Catalog) CreateCategory(ctx context.Context, name, slug string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if slug = Slugify(slug); slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: name has no usable characters", ErrInvalidInput)
	}
	return c.categories.Create(ctx, name, slug)
}

// AddMovieToCategory files a movie under a category.  A movie that is not
// stored yet is synced from the provider first.
func (c *Catalog) AddMovieToCategory(ctx context.Context, slug string, movieID int64) (*model.Movie, error) {
	cat, err := c.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	m, err := c.movies.GetByID(ctx, movieID)
	if errors.Is(err, repository.ErrMovieNotFound) {
		m, err = c.MovieDetail(ctx, movieID)
	}
	if err != nil {
		return nil, err
	}
	if err := c.categories.AddMovie(ctx, cat.ID, movieID); err != nil {
		return nil, fmt.Errorf("add movie %d to %q: %w", movieID, slug, err)
	}
	return m, nil
}

// DeleteSeries removes a stored series with its seasons and episodes.
func (c *Catalog) DeleteSeries(ctx context.Context, id int64) error {
	if err := c.series.Delete(ctx, id); err != nil {
		return err
	}
	c.log.Info("series deleted", "id", id)
	return nil
}

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
