package middleware

// session.go attaches the caller's session to the Echo context. Handlers
// read it back with CurrentSession and pass it explicitly to the
// authorization functions; nothing downstream looks at the cookie.

import (
    "context"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movielog/internal/model"
    "github.com/iliyamo/movielog/internal/session"
)

// sessionKey is the Echo context key holding *model.Session.
const sessionKey = "session"

// SessionResolver maps a cookie value to a live session or nil.
type SessionResolver interface {
    Resolve(ctx context.Context, token string) *model.Session
}

// LoadSession resolves the login cookie on every request. A missing or
// invalid cookie leaves the request anonymous.
func LoadSession(r SessionResolver) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
                SetSession(c, r.Resolve(c.Request().Context(), ck.Value))
            }
            return next(c)
        }
    }
}

// SetSession stores s on the context. A nil s marks the request anonymous.
func SetSession(c echo.Context, s *model.Session) {
    if s == nil {
        c.Set(sessionKey, nil)
        return
    }
    c.Set(sessionKey, s)
}

// CurrentSession returns the session attached by LoadSession, or nil.
func CurrentSession(c echo.Context) *model.Session {
    if s, ok := c.Get(sessionKey).(*model.Session); ok && s != nil {
        return s
    }
    return nil
}
