package provider

import (
	"sort"
	"strings"
)

// GenreIDs is the closed table of TMDb movie genres the catalog browses by
// name.  Every per-genre listing goes through this one table.
var GenreIDs = map[string]int64{
	"action":          28,
	"adventure":       12,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"fantasy":         14,
	"history":         36,
	"horror":          27,
	"music":           10402,
	"mystery":         9648,
	"romance":         10749,
	"science_fiction": 878,
	"thriller":        53,
	"war":             10752,
	"western":         37,
}

// genreAliases maps route slugs used by the site to table names.
var genreAliases = map[string]string{
	"scifi":         "science_fiction",
	"sci-fi":        "science_fiction",
	"investigative": "mystery",
}

// genreTitles are display names for the table entries.
var genreTitles = map[string]string{
	"science_fiction": "Science Fiction",
	"mystery":         "Mystery",
}

// HomeRows lists, in display order, the genre rows shown on the landing page.
var HomeRows = []string{"action", "horror", "animation", "scifi", "romance", "investigative", "drama", "comedy"}

// LookupGenre resolves a genre name or alias (case-insensitive) to its TMDb id.
func LookupGenre(name string) (int64, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := genreAliases[n]; ok {
		n = alias
	}
	id, ok := GenreIDs[n]
	return id, ok
}

// GenreTitle returns a display name for a genre name or alias.
func GenreTitle(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "investigative" {
		return "Investigative"
	}
	if alias, ok := genreAliases[n]; ok {
		n = alias
	}
	if t, ok := genreTitles[n]; ok {
		return t
	}
	if n == "" {
		return ""
	}
	return strings.ToUpper(n[:1]) + n[1:]
}

// GenreName returns the table name for a TMDb id, or "".
func GenreName(id int64) string {
	for name, gid := range GenreIDs {
		if gid == id {
			return name
		}
	}
	return ""
}

// GenreSlugs returns every name and alias accepted by LookupGenre, sorted.
func GenreSlugs() []string {
	out := make([]string, 0, len(GenreIDs)+len(genreAliases))
	for n := range GenreIDs {
		out = append(out, n)
	}
	for a := range genreAliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
