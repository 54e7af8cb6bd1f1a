package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/WayneOg/ease-E-movies/internal/pagination"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/service"
	"github.com/WayneOg/ease-E-movies/internal/web"
)

// PageHandler renders the HTML pages.  Failures render the error page with
// the status classify picks.
type PageHandler struct {
	Catalog Catalog
	Log     hclog.Logger
}

func NewPageHandler(cat Catalog, log hclog.Logger) *PageHandler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &PageHandler{Catalog: cat, Log: log}
}

func (h *PageHandler) Home(c echo.Context) error {
	rows, err := h.Catalog.Home(c.Request().Context())
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "home.html", web.View{Data: rows})
}

// Genres syncs the provider's genre list and shows every stored genre.
func (h *PageHandler) Genres(c echo.Context) error {
	genres, err := h.Catalog.SyncGenres(c.Request().Context())
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "genres.html", web.View{Title: "Genres", Data: genres})
}

// Genre reconciles and pages through the stored movies of one genre id.
func (h *PageHandler) Genre(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return pageError(c, h.Log, err)
	}
	p, err := h.Catalog.BrowseGenre(c.Request().Context(), id, c.QueryParam("page"))
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "genre.html", web.View{Title: p.Genre.Name, Data: p})
}

// Browse shows the provider listing of the genre named in the path.
func (h *PageHandler) Browse(c echo.Context) error {
	return h.listing(c, c.Param("name"))
}

// NamedGenre returns a handler for a fixed genre route such as /action.
func (h *PageHandler) NamedGenre(name string) echo.HandlerFunc {
	return func(c echo.Context) error { return h.listing(c, name) }
}

func (h *PageHandler) listing(c echo.Context, name string) error {
	p, err := h.Catalog.GenreListing(c.Request().Context(), name, c.QueryParam("page"))
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "listing.html", web.View{Title: p.Title + " Movies", Data: p})
}

// Search renders the results of ?q=.  An empty query renders an empty
// result page with a hint instead of an error.
func (h *PageHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	res, err := h.Catalog.Search(c.Request().Context(), q)
	if errors.Is(err, service.ErrEmptyQuery) {
		return c.Render(http.StatusOK, "search.html", web.View{
			Title:   "Search",
			Message: "Please enter a search term.",
			Data:    &service.SearchResult{},
		})
	}
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "search.html", web.View{Title: "Search", Query: res.Query, Data: res})
}

// Movies pages through every stored movie.
func (h *PageHandler) Movies(c echo.Context) error {
	p, err := h.Catalog.AllMovies(c.Request().Context(), c.QueryParam("page"))
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "movies.html", web.View{Title: "Movies", Data: p})
}

func (h *PageHandler) Movie(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return pageError(c, h.Log, err)
	}
	m, err := h.Catalog.MovieDetail(c.Request().Context(), id)
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "movie.html", web.View{Title: m.Title, Data: m})
}

func (h *PageHandler) Category(c echo.Context) error {
	p, err := h.Catalog.CategoryMovies(c.Request().Context(), c.Param("slug"), c.QueryParam("page"))
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "movies.html", web.View{Title: p.Category.Name, Data: p.Movies})
}

// Shows lists series from the secondary provider, or its matches for ?q=.
func (h *PageHandler) Shows(c echo.Context) error {
	ctx := c.Request().Context()
	q := strings.TrimSpace(c.QueryParam("q"))
	var (
		p   pagination.Page[provider.Show]
		err error
	)
	if q != "" {
		p, err = h.Catalog.ShowSearch(ctx, q, c.QueryParam("page"))
	} else {
		p, err = h.Catalog.ShowListing(ctx, c.QueryParam("page"))
	}
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "shows.html", web.View{Title: "Series", Query: q, Data: p})
}

// Show renders a show with one season's episodes, season 1 unless the path
// names another.
func (h *PageHandler) Show(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return pageError(c, h.Log, err)
	}
	number := 1
	if c.Param("season") != "" {
		if number, err = paramInt(c, "season"); err != nil {
			return pageError(c, h.Log, err)
		}
	}
	p, err := h.Catalog.ShowDetail(c.Request().Context(), id, number)
	if err != nil {
		return pageError(c, h.Log, err)
	}
	return c.Render(http.StatusOK, "show.html", web.View{Title: p.Show.Name, Data: p})
}

// Episodes returns the episodes of one season as JSON for the season picker.
func (h *PageHandler) Episodes(c echo.Context) error {
	id, err := paramID(c, "series")
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	number, err := paramInt(c, "season")
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	eps, err := h.Catalog.SeasonEpisodes(c.Request().Context(), id, number)
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	if eps == nil {
		eps = []provider.ShowEpisode{}
	}
	return c.JSON(http.StatusOK, echo.Map{"episodes": eps})
}
