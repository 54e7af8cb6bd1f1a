// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import "errors"

// ErrConflict is returned when a write collides with an existing unique
// value, such as creating a category whose slug is taken. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrSeriesNotFound   = errors.New("series not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrCategoryNotFound = errors.New("category not found")
)
