package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WayneOg/ease-E-movies/internal/gateway"
	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/queue"
	"github.com/WayneOg/ease-E-movies/internal/repository"
)

const (
	searchMovieBody = `{"page":1,"total_pages":1,"total_results":2,"results":[
		{"id":27205,"title":"Inception","poster_path":"/inc.jpg","release_date":"2010-07-15","vote_average":8.4,"genre_ids":[28,878]},
		{"id":99999,"title":"Inception: The Cobol Job","poster_path":null,"release_date":"2010-12-07"}]}`
	searchTVBody = `{"page":1,"total_pages":1,"total_results":1,"results":[
		{"id":64,"name":"Inception Chronicles","poster_path":"/ic.jpg","first_air_date":"2015-01-01","genre_ids":[10765]}]}`
	actionBody = `{"page":1,"total_pages":1,"total_results":2,"results":[
		{"id":550,"title":"Fight Club","poster_path":"/fc.jpg","genre_ids":[28]},
		{"id":551,"title":"No Poster","poster_path":"","genre_ids":[28]}]}`
	adventureBody = `{"page":1,"total_pages":1,"total_results":1,"results":[
		{"id":550,"title":"Fight Club","poster_path":"/fc.jpg","genre_ids":[12]}]}`
	listBody = `{"page":1,"total_pages":3,"total_results":41,"results":[
		{"id":1,"title":"One","poster_path":"/1.jpg"},
		{"id":2,"title":"Two","poster_path":""}]}`
	movieDetailBody = `{"id":27205,"title":"Inception","overview":"Dreams.","release_date":"2010-07-15",
		"poster_path":"/inc.jpg","vote_average":8.4,"runtime":148,"tagline":"Your mind is the scene of the crime.",
		"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}],
		"external_ids":{"imdb_id":"tt1375666","tvdb_id":0}}`
	seriesDetailBody = `{"id":1399,"name":"Game of Thrones","poster_path":"/got.jpg","episode_run_time":[60],
		"number_of_seasons":2,"status":"Ended","genres":[{"id":10765,"name":"Sci-Fi & Fantasy"}],
		"seasons":[{"season_number":1,"name":"Season 1","episode_count":10},{"season_number":2,"name":"Season 2","episode_count":10}],
		"external_ids":{"imdb_id":"tt0944947","tvdb_id":121361}}`
	seasonBody = `{"season_number":1,"name":"Season 1","episodes":[
		{"episode_number":1,"name":"Winter Is Coming"},{"episode_number":2,"name":"The Kingsroad"}]}`
	genreListBody   = `{"genres":[{"id":28,"name":"Action"},{"id":12,"name":"Adventure"}]}`
	tvGenreListBody = `{"genres":[{"id":10759,"name":"Action & Adventure"},{"id":10765,"name":"Sci-Fi & Fantasy"}]}`
	tvGenreBody     = `{"page":1,"total_pages":2,"total_results":3,"results":[
		{"id":64,"name":"Inception Chronicles","poster_path":"/ic.jpg","genre_ids":[10765]},
		{"id":65,"name":"No Poster","poster_path":null,"genre_ids":[10765]}]}`
)

// fakeTMDB serves canned TMDb payloads and counts requests per endpoint.
type fakeTMDB struct {
	mu   sync.Mutex
	hits map[string]int
}

func (f *fakeTMDB) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeTMDB) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.hits {
		n += v
	}
	return n
}

func (f *fakeTMDB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if g := r.URL.Query().Get("with_genres"); g != "" {
		key += "?with_genres=" + g
	}
	f.mu.Lock()
	f.hits[key]++
	f.mu.Unlock()

	body := ""
	switch key {
	case "/search/movie":
		body = searchMovieBody
	case "/search/tv":
		body = searchTVBody
	case "/discover/movie?with_genres=28":
		if r.URL.Query().Get("sort_by") == "popularity.desc" {
			body = actionBody
		} else {
			body = listBody
		}
	case "/discover/movie?with_genres=12":
		body = adventureBody
	case "/movie/27205":
		body = movieDetailBody
	case "/tv/1399":
		body = seriesDetailBody
	case "/tv/1399/season/1":
		body = seasonBody
	case "/genre/movie/list":
		body = genreListBody
	case "/genre/tv/list":
		body = tvGenreListBody
	case "/discover/tv?with_genres=10765":
		body = tvGenreBody
	case "/movie/popular", "/movie/top_rated", "/trending/movie/week", "/tv/popular", "/discover/movie":
		body = listBody
	default:
		if len(key) > len("/discover/movie") && key[:len("/discover/movie")] == "/discover/movie" {
			body = listBody
			break
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_message":"The resource you requested could not be found."}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

type harness struct {
	cat    *Catalog
	tmdb   *fakeTMDB
	genres *fakeGenres
	movies *fakeMovies
	series *fakeSeries
	cats   *fakeCategories
	events *recordingPublisher
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	ft := &fakeTMDB{hits: map[string]int{}}
	srv := httptest.NewServer(ft)
	t.Cleanup(srv.Close)

	gw := gateway.New(gateway.NewMemoryCache(256, time.Hour), gateway.Options{Timeout: 2 * time.Second})
	h := &harness{tmdb: ft, genres: newFakeGenres(), cats: newFakeCategories(), events: &recordingPublisher{}}
	h.movies = newFakeMovies(h.genres)
	h.series = newFakeSeries(h.genres)
	h.cat = New(Deps{
		Metadata:   provider.NewTMDB(gw, srv.URL, "secret", "en-US"),
		Movies:     h.movies,
		Series:     h.series,
		Genres:     h.genres,
		Categories: h.cats,
		Events:     h.events,
	}, opts)
	return h
}

func genreIDs(gs []model.Genre) []int64 {
	out := make([]int64, 0, len(gs))
	for _, g := range gs {
		out = append(out, g.ID)
	}
	return out
}

func TestSearchFreshStoreCallsProviderOncePerKind(t *testing.T) {
	h := newHarness(t, Options{SearchLocalFirst: true})

	res, err := h.cat.Search(context.Background(), "Inception")
	require.NoError(t, err)

	assert.Equal(t, 1, h.tmdb.count("/search/movie"))
	assert.Equal(t, 1, h.tmdb.count("/search/tv"))
	require.Len(t, res.Movies, 1)
	assert.Equal(t, int64(27205), res.Movies[0].ID)
	require.Len(t, res.Series, 1)
	assert.Equal(t, int64(64), res.Series[0].ID)

	// the poster-less hit is neither returned nor stored
	assert.Len(t, h.movies.rows, 1)
	_, stored := h.movies.rows[99999]
	assert.False(t, stored)

	assert.Equal(t, 1, h.events.count(queue.KindMovie, true))
	assert.Equal(t, 1, h.events.count(queue.KindSeries, true))
	// list genre ids are linked when the closed table knows them
	assert.ElementsMatch(t, []int64{28, 878}, genreIDs(h.movies.genres.list(h.movies.links[27205])))
	// series ids come from the TV genre list, fetched once
	assert.Equal(t, 1, h.tmdb.count("/genre/tv/list"))
	assert.Equal(t, []int64{10765}, genreIDs(h.series.genres.list(h.series.links[64])))
	assert.Equal(t, "Sci-Fi & Fantasy", h.genres.rows[10765])
}

func TestSearchSkipsSeriesGenresMissingFromTVList(t *testing.T) {
	h := newHarness(t, Options{SearchLocalFirst: true})
	seen := genreSet{}

	ids, err := h.cat.seriesGenres(context.Background(), seen, []int64{10765, 424242, 10765})
	require.NoError(t, err)
	assert.Equal(t, []int64{10765}, ids)

	// a stored id needs no provider call
	ids, err = h.cat.seriesGenres(context.Background(), genreSet{}, []int64{10759})
	require.NoError(t, err)
	assert.Equal(t, []int64{10759}, ids)
	assert.Equal(t, 1, h.tmdb.count("/genre/tv/list"))
}

func TestSeriesGenreListing(t *testing.T) {
	h := newHarness(t, Options{})

	p, err := h.cat.SeriesGenreListing(context.Background(), 10765, "1")
	require.NoError(t, err)
	require.Len(t, p.Items, 1)
	assert.Equal(t, int64(64), p.Items[0].ID)
	assert.Equal(t, 1, h.tmdb.count("/discover/tv?with_genres=10765"))
	assert.Empty(t, h.series.rows)

	_, err = h.cat.SeriesGenreListing(context.Background(), 0, "1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchAnswersFromLocalMatches(t *testing.T) {
	h := newHarness(t, Options{SearchLocalFirst: true})
	_, err := h.cat.Search(context.Background(), "Inception")
	require.NoError(t, err)

	res, err := h.cat.Search(context.Background(), "incep")
	require.NoError(t, err)
	assert.Len(t, res.Movies, 1)
	assert.Len(t, res.Series, 1)
	assert.Equal(t, 3, h.tmdb.total())
}

func TestSearchWithoutLocalFirstAlwaysReconciles(t *testing.T) {
	h := newHarness(t, Options{SearchLocalFirst: false})
	_, err := h.cat.Search(context.Background(), "Inception")
	require.NoError(t, err)
	_, err = h.cat.Search(context.Background(), "Inception")
	require.NoError(t, err)

	// the second round comes from the gateway cache but is reconciled again
	assert.Equal(t, 1, h.tmdb.count("/search/movie"))
	assert.Equal(t, 1, h.events.count(queue.KindMovie, false))
	assert.Len(t, h.movies.rows, 1)
}

func TestSearchEmptyQueryFailsBeforeAnyCall(t *testing.T) {
	h := newHarness(t, Options{SearchLocalFirst: true})

	_, err := h.cat.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, h.tmdb.total())
}

func TestBrowseGenreAccumulatesGenres(t *testing.T) {
	h := newHarness(t, Options{GenrePolicy: GenreAccumulate})
	ctx := context.Background()

	_, err := h.cat.BrowseGenre(ctx, 28, "1")
	require.NoError(t, err)
	page, err := h.cat.BrowseGenre(ctx, 12, "1")
	require.NoError(t, err)

	m, err := h.movies.GetByID(ctx, 550)
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 28}, genreIDs(m.Genres))
	assert.Equal(t, "Adventure", page.Genre.Name)
	require.Len(t, page.Movies.Items, 1)
	assert.Equal(t, int64(550), page.Movies.Items[0].ID)
}

func TestBrowseGenreReplacePolicy(t *testing.T) {
	h := newHarness(t, Options{GenrePolicy: GenreReplace})
	ctx := context.Background()

	_, err := h.cat.BrowseGenre(ctx, 28, "")
	require.NoError(t, err)
	_, err = h.cat.BrowseGenre(ctx, 12, "")
	require.NoError(t, err)

	m, err := h.movies.GetByID(ctx, 550)
	require.NoError(t, err)
	assert.Equal(t, []int64{12}, genreIDs(m.Genres))
}

func TestBrowseGenreIsIdempotent(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	first, err := h.cat.BrowseGenre(ctx, 28, "1")
	require.NoError(t, err)
	before := *h.movies.rows[550]
	second, err := h.cat.BrowseGenre(ctx, 28, "1")
	require.NoError(t, err)

	assert.Equal(t, before, *h.movies.rows[550])
	assert.Equal(t, first.Movies, second.Movies)
	assert.Len(t, h.movies.rows, 1)
	assert.Equal(t, 1, h.events.count(queue.KindMovie, true))
	assert.Equal(t, 1, h.events.count(queue.KindMovie, false))
	assert.Equal(t, 1, h.tmdb.count("/discover/movie?with_genres=28"))
}

func TestBrowseGenreUnknownID(t *testing.T) {
	h := newHarness(t, Options{})

	_, err := h.cat.BrowseGenre(context.Background(), 424242, "1")
	assert.ErrorIs(t, err, repository.ErrGenreNotFound)
	assert.Zero(t, h.tmdb.total())
}

func TestMovieDetailStoresFullRecord(t *testing.T) {
	h := newHarness(t, Options{})

	m, err := h.cat.MovieDetail(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, 148, m.Runtime)
	require.NotNil(t, m.IMDbID)
	assert.Equal(t, "tt1375666", *m.IMDbID)
	assert.Nil(t, m.TVDBID)
	require.NotNil(t, m.Tagline)
	assert.Equal(t, []int64{28, 878}, genreIDs(m.Genres))
	assert.Equal(t, "2010-07-15", m.ReleaseDate.String())
	assert.Equal(t, "Science Fiction", h.genres.rows[878])
}

func TestMovieDetailProviderNotFound(t *testing.T) {
	h := newHarness(t, Options{})

	_, err := h.cat.MovieDetail(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, gateway.IsNotFound(err))
	assert.ErrorIs(t, err, gateway.ErrUpstream)
	assert.Empty(t, h.movies.rows)
}

func TestSeriesDetailStoresSeasons(t *testing.T) {
	h := newHarness(t, Options{})

	s, err := h.cat.SeriesDetail(context.Background(), 1399)
	require.NoError(t, err)
	assert.Equal(t, 60, s.EpisodeRunTime)
	require.Len(t, s.Seasons, 2)
	assert.Equal(t, 1, s.Seasons[0].SeasonNumber)
	assert.Equal(t, 10, s.Seasons[1].EpisodeCount)
	assert.Equal(t, []int64{10765}, genreIDs(s.Genres))
}

func TestSyncSeasonUpsertsEpisodesOnce(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	season, err := h.cat.SyncSeason(ctx, 1399, 1)
	require.NoError(t, err)
	require.Len(t, season.Episodes, 2)
	assert.Equal(t, "The Kingsroad", *season.Episodes[1].Name)
	assert.Equal(t, 2, season.EpisodeCount)

	_, err = h.cat.SyncSeason(ctx, 1399, 1)
	require.NoError(t, err)
	assert.Len(t, h.series.episodes, 2)
	assert.Len(t, h.series.seasons, 2)
	assert.Equal(t, 2, h.events.count(queue.KindEpisode, true))
	assert.Equal(t, 2, h.events.count(queue.KindEpisode, false))
}

func TestHomeFetchesEveryRow(t *testing.T) {
	h := newHarness(t, Options{})

	rows, err := h.cat.Home(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, len(provider.HomeRows)+2)
	assert.Equal(t, "popular", rows[0].Slug)
	assert.Equal(t, "latest", rows[len(rows)-1].Slug)
	for _, r := range rows {
		for _, m := range r.Movies {
			assert.NotEmpty(t, m.PosterPath, r.Slug)
		}
	}
	assert.Equal(t, len(provider.HomeRows)+2, h.tmdb.total())
}

func TestGenreListing(t *testing.T) {
	h := newHarness(t, Options{})

	p, err := h.cat.GenreListing(context.Background(), "action", "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 3, p.NumPages)
	assert.Len(t, p.Items, 1)
	assert.Equal(t, "Action", p.Title)

	_, err = h.cat.GenreListing(context.Background(), "bogus", "1")
	assert.ErrorIs(t, err, ErrUnknownGenre)
}

func TestSyncGenres(t *testing.T) {
	h := newHarness(t, Options{})

	genres, err := h.cat.SyncGenres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Genre{{ID: 28, Name: "Action"}, {ID: 12, Name: "Adventure"}}, genres)
	assert.Equal(t, 2, h.events.count(queue.KindGenre, true))
}

func TestCategories(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()

	_, err := h.cat.CreateCategory(ctx, "  ", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	c, err := h.cat.CreateCategory(ctx, "Staff Picks!", "")
	require.NoError(t, err)
	assert.Equal(t, "staff-picks", c.Slug)

	_, err = h.cat.CreateCategory(ctx, "Staff picks", "")
	assert.ErrorIs(t, err, repository.ErrConflict)

	m, err := h.cat.AddMovieToCategory(ctx, "staff-picks", 27205)
	require.NoError(t, err)
	assert.Equal(t, "Inception", m.Title)
	assert.Equal(t, 1, h.tmdb.count("/movie/27205"))

	page, err := h.cat.CategoryMovies(ctx, "staff-picks", "")
	require.NoError(t, err)
	require.Len(t, page.Movies.Items, 1)

	_, err = h.cat.CategoryMovies(ctx, "missing", "")
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
}

func TestDeleteSeriesCascades(t *testing.T) {
	h := newHarness(t, Options{})
	ctx := context.Background()
	_, err := h.cat.SyncSeason(ctx, 1399, 1)
	require.NoError(t, err)

	require.NoError(t, h.cat.DeleteSeries(ctx, 1399))
	assert.Empty(t, h.series.seasons)
	assert.Empty(t, h.series.episodes)
	assert.ErrorIs(t, h.cat.DeleteSeries(ctx, 1399), repository.ErrSeriesNotFound)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "sci-fi-classics", Slugify("  Sci-Fi   Classics "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestParseGenrePolicy(t *testing.T) {
	assert.Equal(t, GenreReplace, ParseGenrePolicy(" Replace "))
	assert.Equal(t, GenreAccumulate, ParseGenrePolicy("anything"))
}

type stubListings struct {
	seasons []provider.ShowSeason
	asked   []int64
	queries []string
}

func (s *stubListings) Shows(context.Context, int) ([]provider.Show, error) {
	return []provider.Show{{ID: 1, Name: "A", Image: &provider.Image{Medium: "a.jpg"}}, {ID: 2, Name: "B"}}, nil
}

func (s *stubListings) Show(_ context.Context, id int64) (*provider.Show, error) {
	return &provider.Show{ID: id, Name: "Show"}, nil
}

func (s *stubListings) Seasons(context.Context, int64) ([]provider.ShowSeason, error) {
	return s.seasons, nil
}

func (s *stubListings) SeasonEpisodes(_ context.Context, seasonID int64) ([]provider.ShowEpisode, error) {
	s.asked = append(s.asked, seasonID)
	return []provider.ShowEpisode{{ID: 9, Season: 2, Number: 1}}, nil
}

func (s *stubListings) SearchShows(_ context.Context, query string) ([]provider.ShowHit, error) {
	s.queries = append(s.queries, query)
	return []provider.ShowHit{
		{Score: 0.9, Show: provider.Show{ID: 4, Name: "Girls", Image: &provider.Image{Medium: "g.jpg"}}},
		{Score: 0.5, Show: provider.Show{ID: 5, Name: "Girls5eva"}},
	}, nil
}

func (s *stubListings) ShowEpisodes(context.Context, int64) ([]provider.ShowEpisode, error) {
	return []provider.ShowEpisode{{ID: 1, Season: 1, Number: 1}, {ID: 2, Season: 2, Number: 1}, {ID: 3, Season: 2, Number: 2}}, nil
}

func TestShowDetailResolvesSeasonNumberToID(t *testing.T) {
	l := &stubListings{seasons: []provider.ShowSeason{{ID: 101, Number: 1}, {ID: 205, Number: 2}}}
	c := New(Deps{Listings: l}, Options{})

	page, err := c.ShowDetail(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{205}, l.asked)
	assert.Len(t, page.Episodes, 1)

	_, err = c.ShowDetail(context.Background(), 7, 9)
	assert.True(t, errors.Is(err, ErrSeasonNotFound))

	eps, err := c.SeasonEpisodes(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Len(t, eps, 2)

	shows, err := c.ShowListing(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, shows.Items, 1)
}

func TestShowSearch(t *testing.T) {
	l := &stubListings{}
	c := New(Deps{Listings: l}, Options{})

	page, err := c.ShowSearch(context.Background(), "  girls ", "1")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(4), page.Items[0].ID)
	assert.Equal(t, []string{"girls"}, l.queries)

	_, err = c.ShowSearch(context.Background(), " ", "1")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Len(t, l.queries, 1)
}

func TestListingsDisabled(t *testing.T) {
	c := New(Deps{}, Options{})
	_, err := c.ShowListing(context.Background(), "1")
	assert.ErrorIs(t, err, ErrListingsDisabled)
	_, err = c.ShowSearch(context.Background(), "girls", "1")
	assert.ErrorIs(t, err, ErrListingsDisabled)
	_, err = c.TraktTrending(context.Background())
	assert.ErrorIs(t, err, provider.ErrTraktDisabled)
}
