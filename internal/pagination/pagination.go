// Package pagination slices an already materialised list into fixed-size
// pages for page and API handlers.
package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultSize is the number of items per page used across the site.
const DefaultSize = 20

// Page is one slice of a list plus the numbers a template needs to render
// navigation.
type Page[T any] struct {
	Items    []T `json:"results"`
	Number   int `json:"page"`
	NumPages int `json:"total_pages"`
	Total    int `json:"total_results"`
}

func (p Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p Page[T]) Previous() int     { return p.Number - 1 }
func (p Page[T]) Next() int         { return p.Number + 1 }

// ParsePage converts a raw page token.  Anything that is not an integer, and
// any integer below 1, becomes 1.  A positive integer too large for an int
// becomes math.MaxInt so callers clamp it to their last page.
func ParsePage(raw string) int {
	tok := strings.TrimSpace(raw)
	n, err := strconv.Atoi(tok)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(tok, "-") {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate returns page rawPage of items.  A page past the end clamps to the
// last page.  An empty list still has one (empty) page.
func Paginate[T any](items []T, rawPage string, size int) Page[T] {
	if size <= 0 {
		size = DefaultSize
	}
	numPages := (len(items) + size - 1) / size
	if numPages == 0 {
		numPages = 1
	}
	n := ParsePage(rawPage)
	if n > numPages {
		n = numPages
	}
	start := (n - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	return Page[T]{
		Items:    items[start:end],
		Number:   n,
		NumPages: numPages,
		Total:    len(items),
	}
}
