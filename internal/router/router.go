// Package router registers the HTTP routes on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/WayneOg/ease-E-movies/internal/handler"
	"github.com/WayneOg/ease-E-movies/internal/middleware"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/utils"
)

// RegisterRoutes exposes the health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterPages registers the rendered pages.  mws (rate limiting) apply to
// every page.
func RegisterPages(e *echo.Echo, p *handler.PageHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("", mws...)
	g.GET("/", p.Home)
	g.GET("/genres", p.Genres)
	g.GET("/genre/:id", p.Genre)
	g.GET("/browse/:name", p.Browse)
	for _, name := range provider.GenreSlugs() {
		g.GET("/"+name, p.NamedGenre(name))
	}
	g.GET("/search", p.Search)
	g.GET("/movielist", p.Movies)
	g.GET("/categories", p.Movies)
	g.GET("/categories/:slug", p.Category)
	g.GET("/movie_details/:id", p.Movie)
	g.GET("/series", p.Shows)
	g.GET("/series/:id", p.Show)
	g.GET("/series/:id/season/:season", p.Show)
	g.GET("/series/:series/season/:season/fetch", p.Episodes)
	g.GET("/fetch_episodes/:series/:season", p.Episodes)
}

// RegisterAPI registers the JSON API under /api.  mws typically carry the
// rate limiter followed by the response cache.
func RegisterAPI(e *echo.Echo, h *handler.APIHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/api", mws...)
	g.GET("/movies", h.Movies)
	g.GET("/movies/:id", h.Movie)
	g.GET("/series", h.SeriesList)
	g.GET("/series/genre/:id", h.SeriesGenre)
	g.GET("/series/:id", h.Series)
	g.GET("/series/:id/season/:season", h.Season)
	g.GET("/search", h.Search)
	g.GET("/trending", h.Trending)
	g.GET("/popular", h.Popular)
	g.GET("/top-rated", h.TopRated)
	g.GET("/genre/:name", h.Genre)
	g.GET("/latest", h.Latest)
	g.GET("/genres", h.Genres)
	g.GET("/trakt/trending", h.TraktTrending)
}

// RegisterAdmin registers the admin endpoints under /v1/admin.  Login is
// open; everything else needs an admin access token.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, mws ...echo.MiddlewareFunc) {
	e.POST("/v1/admin/login", a.Login, mws...)

	g := e.Group("/v1/admin",
		middleware.AdminAuth(jwtSecret),
		middleware.RequireRole(utils.AdminRole),
	)
	g.Use(mws...)
	g.GET("/categories", a.ListCategories)
	g.POST("/categories", a.CreateCategory)
	g.POST("/categories/:slug/movies", a.AddCategoryMovie)
	g.DELETE("/series/:id", a.DeleteSeries)
}
