package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	"github.com/WayneOg/ease-E-movies/internal/utils"
)

// AdminHandler manages curated data: categories and stored series.  Login
// checks the single configured admin account and issues an access token.
type AdminHandler struct {
	Catalog      Catalog
	Log          hclog.Logger
	Secret       string
	User         string
	PasswordHash string
	TTL          time.Duration
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type categoryReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type categoryMovieReq struct {
	MovieID int64 `json:"movie_id"`
}

// Login verifies the admin credentials and returns a signed access token.
// With no password hash configured every login is refused.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password required"})
	}
	if h.PasswordHash == "" || req.Username != h.User || !utils.VerifyPassword(h.PasswordHash, req.Password) {
		h.Log.Warn("admin login refused", "username", req.Username, "ip", c.RealIP())
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(h.Secret, h.User, h.TTL)
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tok)
}

func (h *AdminHandler) ListCategories(c echo.Context) error {
	cats, err := h.Catalog.Categories(c.Request().Context())
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cats})
}

// CreateCategory stores a category; the slug is derived from the name when
// omitted.
func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cat, err := h.Catalog.CreateCategory(c.Request().Context(), req.Name, req.Slug)
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

// AddCategoryMovie files a movie under the category in the path.
func (h *AdminHandler) AddCategoryMovie(c echo.Context) error {
	var req categoryMovieReq
	if err := c.Bind(&req); err != nil || req.MovieID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id required"})
	}
	m, err := h.Catalog.AddMovieToCategory(c.Request().Context(), c.Param("slug"), req.MovieID)
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteSeries removes a stored series together with its seasons and
// episodes.
func (h *AdminHandler) DeleteSeries(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return jsonError(c, h.Log, err)
	}
	if err := h.Catalog.DeleteSeries(c.Request().Context(), id); err != nil {
		return jsonError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
