package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/movielog/internal/authz"
    "github.com/iliyamo/movielog/internal/middleware"
    "github.com/iliyamo/movielog/internal/model"
    "github.com/iliyamo/movielog/internal/profanity"
    "github.com/iliyamo/movielog/internal/queue"
    "github.com/iliyamo/movielog/internal/repository"
    "github.com/iliyamo/movielog/internal/service"
    "github.com/iliyamo/movielog/internal/validate"
)

// MovieHandler serves the movie log pages and mutations.
type MovieHandler struct {
    Movies    *repository.MovieRepo
    Policy    authz.Policy
    Cleaner   profanity.Cleaner
    Publisher service.ActivityPublisher
    Log       logrus.FieldLogger
}

func NewMovieHandler(movies *repository.MovieRepo, policy authz.Policy, cleaner profanity.Cleaner,
    pub service.ActivityPublisher, log logrus.FieldLogger) *MovieHandler {
    if cleaner == nil {
        cleaner = profanity.Nop{}
    }
    if pub == nil {
        pub = service.NopPublisher{}
    }
    return &MovieHandler{Movies: movies, Policy: policy, Cleaner: cleaner, Publisher: pub, Log: log}
}

// List renders the caller's entries (or all entries when anonymous)
// grouped by genre.
func (h *MovieHandler) List(c echo.Context) error {
    return h.render(c, "")
}

// Search renders entries matching ?search= within the caller's scope.
func (h *MovieHandler) Search(c echo.Context) error {
    return h.render(c, strings.TrimSpace(c.QueryParam("search")))
}

func (h *MovieHandler) render(c echo.Context, term string) error {
    s := middleware.CurrentSession(c)
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    movies, err := h.Movies.Search(ctx, authz.ScopeMovieQuery(s), term)
    if err != nil {
        h.Log.WithError(err).Error("listing movies failed")
        return renderMessage(c, http.StatusServiceUnavailable, "Unavailable",
            "The movie log is temporarily unavailable. Please try again shortly.", s)
    }
    for i := range movies {
        movies[i].Comments = h.Cleaner.Clean(movies[i].Comments)
    }

    title := "Movies"
    if term != "" {
        title = "Search"
    }
    return c.Render(http.StatusOK, "home", page{
        Title:    title,
        Session:  s,
        Search:   term,
        Sections: groupByGenre(movies),
    })
}

// AddMovie renders the empty creation form.
func (h *MovieHandler) AddMovie(c echo.Context) error {
    return h.renderForm(c, http.StatusOK, "Add a movie", "/submit-movie", model.MovieForm{}, nil)
}

// Submit validates and stores a new entry owned by the caller.
func (h *MovieHandler) Submit(c echo.Context) error {
    s := middleware.CurrentSession(c)
    uid, err := authz.RequireAuthenticated(s)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
    }

    var form model.MovieForm
    if err := c.Bind(&form); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form"})
    }
    if res := validate.Movie(form); !res.Valid {
        return h.renderForm(c, http.StatusBadRequest, "Add a movie", "/submit-movie", form, res.Errors)
    }

    m := validate.ToMovie(form)
    m.Comments = h.Cleaner.Clean(m.Comments)
    m.OwnerID.Int64, m.OwnerID.Valid = int64(uid), true

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    if err := h.Movies.Create(ctx, &m); err != nil {
        h.Log.WithError(err).Error("creating movie failed")
        return renderMessage(c, http.StatusInternalServerError, "Could not save", "The movie could not be saved. Please try again.", s)
    }

    service.PublishAsync(h.Publisher, queue.NewMovieEvent(queue.MovieCreated, m.ID, uid, m.Title))
    return c.Redirect(http.StatusSeeOther, "/")
}

// Edit renders the edit form for an entry. Ownership is only checked when
// the policy enforces it.
func (h *MovieHandler) Edit(c echo.Context) error {
    s := middleware.CurrentSession(c)
    id, ok := parseID(c.Param("id"))
    if !ok {
        return renderMessage(c, http.StatusNotFound, "Not found", "That movie does not exist.", s)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    m, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        return h.lookupError(c, err, s)
    }
    if err := h.Policy.CheckMutation(s, m); err != nil {
        return h.denied(c, err, s)
    }

    m.Comments = h.Cleaner.Clean(m.Comments)
    return h.renderForm(c, http.StatusOK, "Edit movie", "/edit-movie", model.FormFromMovie(m), nil)
}

// Update applies an edit form. The id travels in the form body.
func (h *MovieHandler) Update(c echo.Context) error {
    s := middleware.CurrentSession(c)
    var form model.MovieForm
    if err := c.Bind(&form); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form"})
    }
    id, ok := parseID(form.ID)
    if !ok {
        return renderMessage(c, http.StatusNotFound, "Not found", "That movie does not exist.", s)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()
    existing, err := h.Movies.GetByID(ctx, id)
    if err != nil {
        return h.lookupError(c, err, s)
    }
    if err := h.Policy.CheckMutation(s, existing); err != nil {
        return h.denied(c, err, s)
    }
    if res := validate.Movie(form); !res.Valid {
        return h.renderForm(c, http.StatusBadRequest, "Edit movie", "/edit-movie", form, res.Errors)
    }

    m := validate.ToMovie(form)
    m.ID = id
    m.Comments = h.Cleaner.Clean(m.Comments)
    if err := h.Movies.Update(ctx, m); err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return renderMessage(c, http.StatusNotFound, "Not found", "That movie does not exist.", s)
        }
        h.Log.WithError(err).WithField("movie_id", id).Error("updating movie failed")
        return renderMessage(c, http.StatusInternalServerError, "Could not save", "The movie could not be saved. Please try again.", s)
    }

    service.PublishAsync(h.Publisher, queue.NewMovieEvent(queue.MovieUpdated, id, sessionUserID(s), m.Title))
    return c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes an entry and answers {"success": bool}. Deleting an id
// that does not exist still succeeds.
func (h *MovieHandler) Delete(c echo.Context) error {
    s := middleware.CurrentSession(c)
    id, ok := parseID(c.Param("id"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"success": false})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    existing, err := h.Movies.GetByID(ctx, id)
    switch {
    case errors.Is(err, repository.ErrMovieNotFound):
        return c.JSON(http.StatusOK, echo.Map{"success": true})
    case err != nil:
        h.Log.WithError(err).WithField("movie_id", id).Error("loading movie for delete failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
    }
    if err := h.Policy.CheckMutation(s, existing); err != nil {
        status := http.StatusForbidden
        if errors.Is(err, authz.ErrUnauthorized) {
            status = http.StatusUnauthorized
        }
        return c.JSON(status, echo.Map{"success": false})
    }

    removed, err := h.Movies.Delete(ctx, id)
    if err != nil {
        h.Log.WithError(err).WithField("movie_id", id).Error("deleting movie failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
    }
    if removed {
        service.PublishAsync(h.Publisher, queue.NewMovieEvent(queue.MovieDeleted, id, sessionUserID(s), existing.Title))
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *MovieHandler) renderForm(c echo.Context, status int, title, action string, form model.MovieForm, errs []string) error {
    return c.Render(status, "movie_form", page{
        Title:        title,
        Session:      middleware.CurrentSession(c),
        Action:       action,
        Form:         form,
        Errors:       errs,
        GenreOptions: genreOptions(form.Genre),
    })
}

func (h *MovieHandler) lookupError(c echo.Context, err error, s *model.Session) error {
    if errors.Is(err, repository.ErrMovieNotFound) {
        return renderMessage(c, http.StatusNotFound, "Not found", "That movie does not exist.", s)
    }
    h.Log.WithError(err).Error("loading movie failed")
    return renderMessage(c, http.StatusServiceUnavailable, "Unavailable",
        "The movie log is temporarily unavailable. Please try again shortly.", s)
}

func (h *MovieHandler) denied(c echo.Context, err error, s *model.Session) error {
    if errors.Is(err, authz.ErrUnauthorized) {
        return c.Redirect(http.StatusSeeOther, "/login")
    }
    return renderMessage(c, http.StatusForbidden, "Forbidden", "You can only change your own movies.", s)
}

func parseID(raw string) (uint64, bool) {
    id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

func sessionUserID(s *model.Session) uint64 {
    if s == nil {
        return 0
    }
    return s.UserID
}
