package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"
)

// PosterResolver turns a title and year into an image URL. It never fails;
// lookups that cannot be resolved return a placeholder.
type PosterResolver interface {
    Resolve(ctx context.Context, title, year string) string
    Fallback() string
}

// PosterHandler redirects to the resolved poster image.
type PosterHandler struct {
    Resolver PosterResolver
}

func NewPosterHandler(r PosterResolver) *PosterHandler { return &PosterHandler{Resolver: r} }

// Poster handles GET /poster?title=&year=.
func (h *PosterHandler) Poster(c echo.Context) error {
    u := h.Resolver.Resolve(c.Request().Context(), c.QueryParam("title"), c.QueryParam("year"))
    // The placeholder must not be cached so the next request retries upstream.
    if u == h.Resolver.Fallback() {
        c.Response().Header().Set("Cache-Control", "no-store")
    } else {
        c.Response().Header().Set("Cache-Control", "public, max-age=3600")
    }
    return c.Redirect(http.StatusFound, u)
}
