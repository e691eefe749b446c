package middleware

// identity.go defines helper functions shared across middleware files. It
// turns the session on the context into a stable string used in cache and
// rate limit keys. Anonymous requests map to "guest".

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// userID returns the caller's user id as a string, or "guest".
func userID(c echo.Context) string {
    if s := CurrentSession(c); s != nil {
        return strconv.FormatUint(s.UserID, 10)
    }
    return "guest"
}
