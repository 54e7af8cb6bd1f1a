package provider

// TMDb payload shapes.  Only fields the catalog uses are decoded; missing
// keys decode to zero values, which callers treat as "unknown".

// Movie is a TMDb movie from list, search or detail responses.
type Movie struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	ReleaseDate  string    `json:"release_date"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	VoteAverage  float64   `json:"vote_average"`
	GenreIDs     []int64   `json:"genre_ids"`
	Genres       []Genre   `json:"genres"`
	Runtime      int       `json:"runtime"`
	Tagline      string    `json:"tagline"`
	IMDbID       string    `json:"imdb_id"`
	ExternalIDs  *External `json:"external_ids"`
}

func (m Movie) Poster() string { return m.PosterPath }

// Series is a TMDb TV series.
type Series struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Overview         string         `json:"overview"`
	FirstAirDate     string         `json:"first_air_date"`
	PosterPath       string         `json:"poster_path"`
	BackdropPath     string         `json:"backdrop_path"`
	VoteAverage      float64        `json:"vote_average"`
	GenreIDs         []int64        `json:"genre_ids"`
	Genres           []Genre        `json:"genres"`
	EpisodeRunTime   []int          `json:"episode_run_time"`
	Tagline          string         `json:"tagline"`
	NumberOfSeasons  int            `json:"number_of_seasons"`
	NumberOfEpisodes int            `json:"number_of_episodes"`
	Status           string         `json:"status"`
	Seasons          []SeasonDigest `json:"seasons"`
	ExternalIDs      *External      `json:"external_ids"`
}

func (s Series) Poster() string { return s.PosterPath }

// RunTime returns the first advertised episode run time, or 0.
func (s Series) RunTime() int {
	if len(s.EpisodeRunTime) == 0 {
		return 0
	}
	return s.EpisodeRunTime[0]
}

// SeasonDigest is the season summary embedded in series details.
type SeasonDigest struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	AirDate      string `json:"air_date"`
	EpisodeCount int    `json:"episode_count"`
	PosterPath   string `json:"poster_path"`
}

// Season is a full TMDb season with its episodes.
type Season struct {
	SeasonNumber int       `json:"season_number"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	AirDate      string    `json:"air_date"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is a TMDb episode.
type Episode struct {
	EpisodeNumber int     `json:"episode_number"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       string  `json:"air_date"`
	VoteAverage   float64 `json:"vote_average"`
}

// Genre is a TMDb genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// External carries the identifiers appended by append_to_response=external_ids.
type External struct {
	IMDbID string `json:"imdb_id"`
	TVDBID int64  `json:"tvdb_id"`
}

// Page is a paginated TMDb list response.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}
