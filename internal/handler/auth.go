package handler

import (
    "context"  // provides context with cancellation for DB calls
    "errors"   // errors.Is for repository sentinels
    "net/http" // HTTP status codes and primitives
    "strings"  // string manipulation utilities
    "time"     // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing
    "github.com/sirupsen/logrus"  // structured logging

    "github.com/iliyamo/movielog/internal/config"     // app configuration
    "github.com/iliyamo/movielog/internal/middleware" // session on the request context
    "github.com/iliyamo/movielog/internal/repository" // DB repositories
    "github.com/iliyamo/movielog/internal/session"    // session lifecycle and cookies
    "github.com/iliyamo/movielog/internal/utils"      // password hashing
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// genericFailure is shown whenever persistence fails during register or
// login. The underlying error only goes to the log.
const genericFailure = "Something went wrong, please try again later."

// AuthHandler bundles dependencies for the register, login and logout pages.
type AuthHandler struct {
    Cfg      config.Config
    Users    *repository.UserRepo
    Sessions *session.Manager
    Log      logrus.FieldLogger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *session.Manager, log logrus.FieldLogger) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Log: log}
}

// credentials is bound from the register and login forms.
type credentials struct {
    Username string `form:"username"`
    Password string `form:"password"`
}

// RegisterPage renders the empty registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
    return c.Render(http.StatusOK, "register", page{Title: "Register", Session: middleware.CurrentSession(c)})
}

// Register creates a user and sends the browser to the login page. It does
// not log the new user in.
func (h *AuthHandler) Register(c echo.Context) error {
    var req credentials
    if err := c.Bind(&req); err != nil {
        return h.registerError(c, http.StatusBadRequest, "Invalid form submission", "")
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return h.registerError(c, http.StatusBadRequest, "Username and password are required", req.Username)
    }
    if len(req.Password) > maxPasswordBytes {
        return h.registerError(c, http.StatusBadRequest, "Password must be at most 72 bytes", req.Username)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    exists, err := h.Users.Exists(ctx, req.Username)
    if err != nil {
        h.Log.WithError(err).Error("register: lookup failed")
        return renderMessage(c, http.StatusInternalServerError, "Registration failed", genericFailure, nil)
    }
    if exists {
        return h.registerError(c, http.StatusConflict, "Username already registered", req.Username)
    }

    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        h.Log.WithError(err).Error("register: hashing failed")
        return renderMessage(c, http.StatusInternalServerError, "Registration failed", genericFailure, nil)
    }

    if _, err := h.Users.Create(ctx, req.Username, hash); err != nil {
        // The unique index catches a concurrent registration of the same name.
        if errors.Is(err, repository.ErrUsernameTaken) {
            return h.registerError(c, http.StatusConflict, "Username already registered", req.Username)
        }
        h.Log.WithError(err).Error("register: insert failed")
        return renderMessage(c, http.StatusInternalServerError, "Registration failed", genericFailure, nil)
    }

    h.Log.WithField("username", req.Username).Info("user registered")
    return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) registerError(c echo.Context, status int, msg, username string) error {
    return c.Render(status, "register", page{Title: "Register", Message: msg, Username: username})
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
    return c.Render(http.StatusOK, "login", page{Title: "Log in", Session: middleware.CurrentSession(c)})
}

// Login verifies the credentials and starts a session. Any session already
// held by this browser is destroyed first so only one token stays valid.
func (h *AuthHandler) Login(c echo.Context) error {
    var req credentials
    if err := c.Bind(&req); err != nil {
        return h.loginError(c, http.StatusBadRequest, "Invalid form submission", "")
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return h.loginError(c, http.StatusBadRequest, "Username and password are required", req.Username)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByUsername(ctx, req.Username)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return h.loginError(c, http.StatusUnauthorized, "User not found", req.Username)
        }
        h.Log.WithError(err).Error("login: lookup failed")
        return renderMessage(c, http.StatusInternalServerError, "Login failed", genericFailure, nil)
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return h.loginError(c, http.StatusUnauthorized, "Incorrect Password", req.Username)
    }

    if old, err := c.Cookie(session.CookieName); err == nil && old.Value != "" {
        if err := h.Sessions.Destroy(ctx, old.Value); err != nil {
            h.Log.WithError(err).Warn("login: could not destroy previous session")
        }
    }

    token, exp, err := h.Sessions.Create(ctx, u.ID, u.Username)
    if err != nil {
        h.Log.WithError(err).Error("login: session create failed")
        return renderMessage(c, http.StatusInternalServerError, "Login failed", genericFailure, nil)
    }
    c.SetCookie(session.NewCookie(token, exp, h.Cfg.Secure()))

    h.Log.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user logged in")
    return c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) loginError(c echo.Context, status int, msg, username string) error {
    return c.Render(status, "login", page{Title: "Log in", Message: msg, Username: username})
}

// Logout destroys the session and always sends the browser home, even when
// the session store fails.
func (h *AuthHandler) Logout(c echo.Context) error {
    if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
        defer cancel()
        if err := h.Sessions.Destroy(ctx, ck.Value); err != nil {
            h.Log.WithError(err).Error("logout: session destroy failed")
        }
    }
    c.SetCookie(session.ClearCookie(h.Cfg.Secure()))
    return c.Redirect(http.StatusSeeOther, "/")
}
