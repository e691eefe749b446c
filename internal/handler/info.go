package handler // contains HTTP handlers

import (
    "context"       // bounded pings for the health check
    "html/template" // rendered markdown is trusted HTML
    "io/fs"         // intro markdown is read from the embedded FS
    "net/http"      // status codes
    "time"          // ping timeout

    "github.com/jmoiron/sqlx"              // database handle for the health check
    "github.com/labstack/echo/v4"          // echo is the web framework used for this project
    "github.com/redis/go-redis/v9"         // optional cache/session backend
    "github.com/russross/blackfriday/v2"   // markdown renderer for the intro page

    "github.com/iliyamo/movielog/internal/middleware"
)

// InfoHandler serves the static intro page and the health check.
type InfoHandler struct {
    DB    *sqlx.DB
    Redis *redis.Client
    intro template.HTML
}

// NewInfoHandler renders content/intro.md from fsys once at startup.
func NewInfoHandler(db *sqlx.DB, rdb *redis.Client, fsys fs.FS) (*InfoHandler, error) {
    md, err := fs.ReadFile(fsys, "content/intro.md")
    if err != nil {
        return nil, err
    }
    html := blackfriday.Run(md, blackfriday.WithExtensions(blackfriday.CommonExtensions))
    return &InfoHandler{DB: db, Redis: rdb, intro: template.HTML(html)}, nil
}

// Intro renders the about page.
func (h *InfoHandler) Intro(c echo.Context) error {
    return c.Render(http.StatusOK, "intro", page{
        Title:   "About",
        Session: middleware.CurrentSession(c),
        Content: h.intro,
    })
}

// Health is a health-check endpoint used by load balancers and monitoring
// systems. It reports database and Redis reachability; only a database
// failure makes the service unhealthy.
func (h *InfoHandler) Health(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    status, code := "ok", http.StatusOK
    db := "ok"
    if h.DB == nil || h.DB.PingContext(ctx) != nil {
        db, status, code = "down", "degraded", http.StatusServiceUnavailable
    }
    rd := "disabled"
    if h.Redis != nil {
        rd = "ok"
        if h.Redis.Ping(ctx).Err() != nil {
            rd = "down"
        }
    }
    return c.JSON(code, echo.Map{"status": status, "db": db, "redis": rd})
}
