package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/WayneOg/ease-E-movies/internal/gateway"
	"github.com/WayneOg/ease-E-movies/internal/provider"
	"github.com/WayneOg/ease-E-movies/internal/repository"
	"github.com/WayneOg/ease-E-movies/internal/service"
	"github.com/WayneOg/ease-E-movies/internal/web"
)

var errInvalidID = errors.New("invalid id")

// classify maps an error to the status and message shown to clients.  Only
// validation messages are passed through; everything else is generic.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidID):
		return http.StatusBadRequest, "invalid id"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
	case errors.Is(err, repository.ErrMovieNotFound):
		return http.StatusNotFound, "movie not found"
	case errors.Is(err, repository.ErrSeriesNotFound):
		return http.StatusNotFound, "series not found"
	case errors.Is(err, repository.ErrGenreNotFound):
		return http.StatusNotFound, "genre not found"
	case errors.Is(err, repository.ErrCategoryNotFound):
		return http.StatusNotFound, "category not found"
	case errors.Is(err, service.ErrSeasonNotFound):
		return http.StatusNotFound, "season not found"
	case errors.Is(err, provider.ErrTraktDisabled), errors.Is(err, service.ErrListingsDisabled):
		return http.StatusNotFound, "not available"
	case gateway.IsNotFound(err):
		return http.StatusNotFound, "not found"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, gateway.ErrUpstream):
		return http.StatusInternalServerError, "upstream provider error"
	}
	return http.StatusInternalServerError, "internal error"
}

// jsonError writes err as {"error": msg}.  Server-side failures are logged
// with their full detail.
func jsonError(c echo.Context, log hclog.Logger, err error) error {
	code, msg := classify(err)
	logFailure(c, log, code, err)
	return c.JSON(code, echo.Map{"error": msg})
}

// pageError renders the error page for err.
func pageError(c echo.Context, log hclog.Logger, err error) error {
	code, msg := classify(err)
	logFailure(c, log, code, err)
	if code == http.StatusInternalServerError {
		msg = "Something went wrong while loading this page. Please try again later."
	}
	return c.Render(code, "error.html", web.View{Title: msg})
}

func logFailure(c echo.Context, log hclog.Logger, code int, err error) {
	if code >= http.StatusInternalServerError {
		log.Error("request failed", "path", c.Request().URL.Path, "error", err)
		return
	}
	log.Debug("request rejected", "path", c.Request().URL.Path, "status", code, "error", err)
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func paramInt(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		return 0, errInvalidID
	}
	return n, nil
}
