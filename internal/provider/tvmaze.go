package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Show is a TVMaze show.
type Show struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	Premiered string    `json:"premiered"`
	Status    string    `json:"status"`
	Genres    []string  `json:"genres"`
	Image     *Image    `json:"image"`
	Rating    Rating    `json:"rating"`
	Externals Externals `json:"externals"`
}

// Poster returns the medium image URL, the only size the listings use.
func (s Show) Poster() string {
	if s.Image == nil {
		return ""
	}
	return s.Image.Medium
}

type Image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

type Rating struct {
	Average *float64 `json:"average"`
}

type Externals struct {
	IMDb    string `json:"imdb"`
	TheTVDB int64  `json:"thetvdb"`
}

// ShowSeason is a TVMaze season.  Its ID is global, not per show.
type ShowSeason struct {
	ID           int64  `json:"id"`
	Number       int    `json:"number"`
	Name         string `json:"name"`
	EpisodeOrder int    `json:"episodeOrder"`
	PremiereDate string `json:"premiereDate"`
	Summary      string `json:"summary"`
}

// ShowEpisode is a TVMaze episode.
type ShowEpisode struct {
	ID      int64  `json:"id"`
	Season  int    `json:"season"`
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Airdate string `json:"airdate"`
	Summary string `json:"summary"`
}

// ShowHit is one TVMaze search result.
type ShowHit struct {
	Score float64 `json:"score"`
	Show  Show    `json:"show"`
}

// TVMaze is the secondary listings provider.  It needs no credential.
type TVMaze struct {
	gw      Fetcher
	baseURL string
}

func NewTVMaze(gw Fetcher, baseURL string) *TVMaze {
	return &TVMaze{gw: gw, baseURL: strings.TrimRight(baseURL, "/")}
}

// Shows returns one page of the show index.  TVMaze pages are zero-based;
// page here is one-based like every other listing in the catalog.
func (m *TVMaze) Shows(ctx context.Context, page int) ([]Show, error) {
	if page < 1 {
		page = 1
	}
	var out []Show
	u := m.baseURL + "/shows?page=" + strconv.Itoa(page-1)
	if err := m.gw.Fetch(ctx, u, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *TVMaze) Show(ctx context.Context, id int64) (*Show, error) {
	var out Show
	if err := m.gw.Fetch(ctx, fmt.Sprintf("%s/shows/%d", m.baseURL, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *TVMaze) Seasons(ctx context.Context, showID int64) ([]ShowSeason, error) {
	var out []ShowSeason
	if err := m.gw.Fetch(ctx, fmt.Sprintf("%s/shows/%d/seasons", m.baseURL, showID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *TVMaze) SeasonEpisodes(ctx context.Context, seasonID int64) ([]ShowEpisode, error) {
	var out []ShowEpisode
	if err := m.gw.Fetch(ctx, fmt.Sprintf("%s/seasons/%d/episodes", m.baseURL, seasonID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *TVMaze) ShowEpisodes(ctx context.Context, showID int64) ([]ShowEpisode, error) {
	var out []ShowEpisode
	if err := m.gw.Fetch(ctx, fmt.Sprintf("%s/shows/%d/episodes", m.baseURL, showID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *TVMaze) SearchShows(ctx context.Context, query string) ([]ShowHit, error) {
	var out []ShowHit
	if err := m.gw.Fetch(ctx, m.baseURL+"/search/shows?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return out, nil
}
