package handler

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"
)

// APIHandler serves the JSON API.  Responses mirror the provider shapes
// the client application already understands: lists carry "results",
// "page", "total_pages" and "total_results".
type APIHandler struct {
	Catalog Catalog
	Log     hclog.Logger
}

func NewAPIHandler(cat Catalog, log hclog.Logger) *APIHandler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &APIHandler{Catalog: cat, Log: log}
}

// Movies lists popular movies, one provider page at a time.
func (h *APIHandler) Movies(c echo.Context) error {
	p, err := h.Catalog.PopularMovies(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Movie syncs and returns one movie with its genres.
func (h *APIHandler) Movie(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	m, err := h.Catalog.MovieDetail(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *APIHandler) SeriesList(c echo.Context) error {
	p, err := h.Catalog.PopularSeries(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// SeriesGenre lists series of one TMDb TV genre id.
func (h *APIHandler) SeriesGenre(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	p, err := h.Catalog.SeriesGenreListing(c.Request().Context(), id, c.QueryParam("page"))
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Series syncs a series and returns it with its stored seasons.
func (h *APIHandler) Series(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	s, err := h.Catalog.SeriesDetail(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Season syncs one season of a series with its episodes.
func (h *APIHandler) Season(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	number, err := paramInt(c, "season")
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	s, err := h.Catalog.SyncSeason(c.Request().Context(), id, number)
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Search answers ?q= with matching movies and series.  An empty query is
// rejected with 400 before any provider call.
func (h *APIHandler) Search(c echo.Context) error {
	res, err := h.Catalog.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *APIHandler) Trending(c echo.Context) error {
	p, err := h.Catalog.TrendingMovies(c.Request().Context())
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *APIHandler) Popular(c echo.Context) error {
	return h.Movies(c)
}

func (h *APIHandler) TopRated(c echo.Context) error {
	p, err := h.Catalog.TopRatedMovies(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *APIHandler) Latest(c echo.Context) error {
	p, err := h.Catalog.LatestMovies(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Genre lists movies of a named genre from the closed genre table.
func (h *APIHandler) Genre(c echo.Context) error {
	name := c.Param("name")
	p, err := h.Catalog.GenreListing(c.Request().Context(), name, c.QueryParam("page"))
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"genre":         name,
		"results":       p.Items,
		"page":          p.Number,
		"total_pages":   p.NumPages,
		"total_results": p.Total,
	})
}

// Genres lists stored genres, syncing them from the provider the first
// time.
func (h *APIHandler) Genres(c echo.Context) error {
	ctx := c.Request().Context()
	genres, err := h.Catalog.Genres(ctx)
	if err == nil && len(genres) == 0 {
		genres, err = h.Catalog.SyncGenres(ctx)
	}
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"genres": genres})
}

func (h *APIHandler) TraktTrending(c echo.Context) error {
	out, err := h.Catalog.TraktTrending(c.Request().Context())
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"results": out})
}
