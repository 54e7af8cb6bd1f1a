package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/WayneOg/ease-E-movies/internal/model"
	"github.com/WayneOg/ease-E-movies/internal/queue"
	"github.com/WayneOg/ease-E-movies/internal/repository"
)

// In-memory stores with the same contract as the MySQL repositories.

type fakeGenres struct {
	rows map[int64]string
}

func newFakeGenres() *fakeGenres { return &fakeGenres{rows: map[int64]string{}} }

func (f *fakeGenres) Upsert(_ context.Context, id int64, name string) (bool, error) {
	_, ok := f.rows[id]
	f.rows[id] = name
	return !ok, nil
}

func (f *fakeGenres) GetByID(_ context.Context, id int64) (*model.Genre, error) {
	name, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrGenreNotFound
	}
	return &model.Genre{ID: id, Name: name}, nil
}

func (f *fakeGenres) ListAll(_ context.Context) ([]model.Genre, error) {
	out := []model.Genre{}
	for id, name := range f.rows {
		out = append(out, model.Genre{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeGenres) list(ids map[int64]bool) []model.Genre {
	out := []model.Genre{}
	for id := range ids {
		out = append(out, model.Genre{ID: id, Name: f.rows[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeMovies struct {
	genres *fakeGenres
	rows   map[int64]*model.Movie
	links  map[int64]map[int64]bool
}

func newFakeMovies(g *fakeGenres) *fakeMovies {
	return &fakeMovies{genres: g, rows: map[int64]*model.Movie{}, links: map[int64]map[int64]bool{}}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (f *fakeMovies) Upsert(_ context.Context, id int64, a repository.MovieAttrs) (*model.Movie, bool, error) {
	m, ok := f.rows[id]
	if !ok {
		m = &model.Movie{ID: id}
		f.rows[id] = m
	}
	m.Title = a.Title
	if a.Overview != nil {
		m.Overview = optString(*a.Overview)
	}
	if a.ReleaseDate != nil {
		m.ReleaseDate = *a.ReleaseDate
	}
	if a.PosterPath != nil {
		m.PosterPath = optString(*a.PosterPath)
	}
	if a.VoteAverage != nil {
		m.VoteAverage = *a.VoteAverage
	}
	if a.Runtime != nil {
		m.Runtime = *a.Runtime
	}
	if a.Tagline != nil {
		m.Tagline = optString(*a.Tagline)
	}
	if a.IMDbID != nil {
		m.IMDbID = optString(*a.IMDbID)
	}
	if a.TVDBID != nil && *a.TVDBID != 0 {
		v := *a.TVDBID
		m.TVDBID = &v
	}
	cp := *m
	cp.Genres = f.genres.list(f.links[id])
	return &cp, !ok, nil
}

func (f *fakeMovies) GetByID(_ context.Context, id int64) (*model.Movie, error) {
	m, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	cp := *m
	cp.Genres = f.genres.list(f.links[id])
	return &cp, nil
}

func (f *fakeMovies) sorted(keep func(*model.Movie) bool) []model.Movie {
	out := []model.Movie{}
	for _, m := range f.rows {
		if keep(m) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeMovies) SearchByTitle(_ context.Context, q string) ([]model.Movie, error) {
	q = strings.ToLower(q)
	return f.sorted(func(m *model.Movie) bool { return strings.Contains(strings.ToLower(m.Title), q) }), nil
}

func (f *fakeMovies) ListByGenre(_ context.Context, genreID int64) ([]model.Movie, error) {
	return f.sorted(func(m *model.Movie) bool { return f.links[m.ID][genreID] }), nil
}

func (f *fakeMovies) ListAll(_ context.Context) ([]model.Movie, error) {
	return f.sorted(func(*model.Movie) bool { return true }), nil
}

func (f *fakeMovies) AddGenres(_ context.Context, movieID int64, ids []int64) error {
	if f.links[movieID] == nil {
		f.links[movieID] = map[int64]bool{}
	}
	for _, id := range ids {
		f.links[movieID][id] = true
	}
	return nil
}

func (f *fakeMovies) ReplaceGenres(ctx context.Context, movieID int64, ids []int64) error {
	delete(f.links, movieID)
	return f.AddGenres(ctx, movieID, ids)
}

func (f *fakeMovies) Genres(_ context.Context, movieID int64) ([]model.Genre, error) {
	return f.genres.list(f.links[movieID]), nil
}

type seasonKey struct {
	series int64
	number int
}

type episodeKey struct {
	season int64
	number int
}

type fakeSeries struct {
	genres   *fakeGenres
	rows     map[int64]*model.Series
	links    map[int64]map[int64]bool
	seasons  map[seasonKey]*model.Season
	episodes map[episodeKey]*model.Episode
	nextID   int64
}

func newFakeSeries(g *fakeGenres) *fakeSeries {
	return &fakeSeries{
		genres:   g,
		rows:     map[int64]*model.Series{},
		links:    map[int64]map[int64]bool{},
		seasons:  map[seasonKey]*model.Season{},
		episodes: map[episodeKey]*model.Episode{},
	}
}

func (f *fakeSeries) Upsert(_ context.Context, id int64, a repository.SeriesAttrs) (*model.Series, bool, error) {
	s, ok := f.rows[id]
	if !ok {
		s = &model.Series{ID: id}
		f.rows[id] = s
	}
	s.Name = a.Name
	if a.PosterPath != nil {
		s.PosterPath = optString(*a.PosterPath)
	}
	if a.NumberOfSeasons != nil {
		s.NumberOfSeasons = *a.NumberOfSeasons
	}
	if a.EpisodeRunTime != nil {
		s.EpisodeRunTime = *a.EpisodeRunTime
	}
	if a.Status != nil {
		s.Status = optString(*a.Status)
	}
	cp := *s
	return &cp, !ok, nil
}

func (f *fakeSeries) GetByID(_ context.Context, id int64) (*model.Series, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrSeriesNotFound
	}
	cp := *s
	cp.Genres = f.genres.list(f.links[id])
	return &cp, nil
}

func (f *fakeSeries) SearchByName(_ context.Context, q string) ([]model.Series, error) {
	q = strings.ToLower(q)
	out := []model.Series{}
	for _, s := range f.rows {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSeries) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrSeriesNotFound
	}
	delete(f.rows, id)
	delete(f.links, id)
	for k, s := range f.seasons {
		if k.series == id {
			for ek := range f.episodes {
				if ek.season == s.ID {
					delete(f.episodes, ek)
				}
			}
			delete(f.seasons, k)
		}
	}
	return nil
}

func (f *fakeSeries) AddGenres(_ context.Context, seriesID int64, ids []int64) error {
	if f.links[seriesID] == nil {
		f.links[seriesID] = map[int64]bool{}
	}
	for _, id := range ids {
		f.links[seriesID][id] = true
	}
	return nil
}

func (f *fakeSeries) ReplaceGenres(ctx context.Context, seriesID int64, ids []int64) error {
	delete(f.links, seriesID)
	return f.AddGenres(ctx, seriesID, ids)
}

func (f *fakeSeries) Genres(_ context.Context, seriesID int64) ([]model.Genre, error) {
	return f.genres.list(f.links[seriesID]), nil
}

func (f *fakeSeries) UpsertSeason(_ context.Context, seriesID int64, number int, a repository.SeasonAttrs) (int64, bool, error) {
	k := seasonKey{seriesID, number}
	s, ok := f.seasons[k]
	if !ok {
		f.nextID++
		s = &model.Season{ID: f.nextID, SeriesID: seriesID, SeasonNumber: number}
		f.seasons[k] = s
	}
	if a.Name != nil {
		s.Name = optString(*a.Name)
	}
	if a.EpisodeCount != nil {
		s.EpisodeCount = *a.EpisodeCount
	}
	return s.ID, !ok, nil
}

func (f *fakeSeries) UpsertEpisode(_ context.Context, seasonID int64, number int, a repository.EpisodeAttrs) (int64, bool, error) {
	k := episodeKey{seasonID, number}
	e, ok := f.episodes[k]
	if !ok {
		f.nextID++
		e = &model.Episode{ID: f.nextID, SeasonID: seasonID, EpisodeNumber: number}
		f.episodes[k] = e
	}
	if a.Name != nil {
		e.Name = optString(*a.Name)
	}
	return e.ID, !ok, nil
}

func (f *fakeSeries) Seasons(_ context.Context, seriesID int64) ([]model.Season, error) {
	out := []model.Season{}
	for k, s := range f.seasons {
		if k.series != seriesID {
			continue
		}
		cp := *s
		cp.Episodes = []model.Episode{}
		for _, e := range f.episodes {
			if e.SeasonID == s.ID {
				cp.Episodes = append(cp.Episodes, *e)
			}
		}
		sort.Slice(cp.Episodes, func(i, j int) bool { return cp.Episodes[i].EpisodeNumber < cp.Episodes[j].EpisodeNumber })
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeasonNumber < out[j].SeasonNumber })
	return out, nil
}

type fakeCategories struct {
	rows   map[string]*model.Category
	movies map[int64][]int64
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{rows: map[string]*model.Category{}, movies: map[int64][]int64{}}
}

func (f *fakeCategories) Create(_ context.Context, name, slug string) (*model.Category, error) {
	if _, ok := f.rows[slug]; ok {
		return nil, repository.ErrConflict
	}
	c := &model.Category{ID: int64(len(f.rows) + 1), Name: name, Slug: slug}
	f.rows[slug] = c
	return c, nil
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	c, ok := f.rows[slug]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeCategories) List(_ context.Context) ([]model.Category, error) {
	out := []model.Category{}
	for _, c := range f.rows {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategories) AddMovie(_ context.Context, categoryID, movieID int64) error {
	for _, id := range f.movies[categoryID] {
		if id == movieID {
			return nil
		}
	}
	f.movies[categoryID] = append(f.movies[categoryID], movieID)
	return nil
}

func (f *fakeCategories) Movies(_ context.Context, categoryID int64) ([]model.Movie, error) {
	out := []model.Movie{}
	for _, id := range f.movies[categoryID] {
		out = append(out, model.Movie{ID: id})
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.CatalogEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.CatalogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) count(kind string, created bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ev := range p.events {
		if ev.Kind == kind && ev.Created == created {
			n++
		}
	}
	return n
}
