package provider

// Posterable is any provider item that may carry a poster reference.
type Posterable interface {
	Poster() string
}

// WithPoster drops items without a displayable poster.  Order is kept and the
// result never has more items than the input.
func WithPoster[T Posterable](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Poster() != "" {
			out = append(out, it)
		}
	}
	return out
}
