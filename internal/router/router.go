package router // package router defines how HTTP routes are registered for the web app

import (
	"io/fs" // static assets are served from the embedded FS

	"github.com/labstack/echo/v4"   // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"  // shared client for the cache and rate limiter
	"github.com/sirupsen/logrus"    // limiter logging

	"github.com/iliyamo/movielog/internal/config"     // cache and rate limit settings
	"github.com/iliyamo/movielog/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/movielog/internal/middleware" // session loading and access checks
)

// Deps carries everything the routes need.
type Deps struct {
	Auth      *handler.AuthHandler
	Movies    *handler.MovieHandler
	Posters   *handler.PosterHandler
	Info      *handler.InfoHandler
	Sessions  middleware.SessionResolver
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Static    fs.FS
	Log       logrus.FieldLogger
}

// Register wires every route onto e. The session loader runs first on all
// routes so handlers see the caller's session or nil.
func Register(e *echo.Echo, d Deps) {
	e.Use(middleware.LoadSession(d.Sessions))

	if d.Static != nil {
		e.StaticFS("/static", d.Static)
	}

	// Liveness and the about page. The about page is the only cached route.
	e.GET("/health", d.Info.Health)
	e.GET("/intro", d.Info.Intro, middleware.NewRedisCache(d.Cache, d.Redis))

	// Credential pages. Submissions are rate limited per client.
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
	e.GET("/register", d.Auth.RegisterPage)
	e.POST("/register", d.Auth.Register, limit)
	e.GET("/login", d.Auth.LoginPage)
	e.POST("/login", d.Auth.Login, limit)
	e.GET("/logout", d.Auth.Logout)

	// Listing and search are scoped by session inside the handler.
	e.GET("/", d.Movies.List)
	e.GET("/search", d.Movies.Search)

	// Creating an entry needs a login: pages redirect, submissions get 401.
	e.GET("/addMovie", d.Movies.AddMovie, middleware.RequirePageSession())
	e.POST("/submit-movie", d.Movies.Submit, middleware.RequireAPISession())

	// Edits and deletes go by id; ownership is up to the handler's policy.
	e.GET("/edit/:id", d.Movies.Edit)
	e.POST("/edit-movie", d.Movies.Update)
	e.DELETE("/movie/:id", d.Movies.Delete)

	e.GET("/poster", d.Posters.Poster)
}
