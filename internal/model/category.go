package model

// Category is a local-only grouping label curated by administrators.  It is
// independent of provider data and backs the static /categories browsing path.
type Category struct {
	ID   int64  `json:"id"`   // categories.id
	Name string `json:"name"` // categories.name
	Slug string `json:"slug"` // categories.slug, unique
}
