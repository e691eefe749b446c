package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movielog/internal/authz"
)

// RequirePageSession sends anonymous visitors to the login page.
func RequirePageSession() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if _, err := authz.RequireAuthenticated(CurrentSession(c)); err != nil {
                return c.Redirect(http.StatusSeeOther, "/login")
            }
            return next(c)
        }
    }
}

// RequireAPISession rejects anonymous state-changing requests with 401.
func RequireAPISession() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if _, err := authz.RequireAuthenticated(CurrentSession(c)); err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
            }
            return next(c)
        }
    }
}
