// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrMovieNotFound is returned when no movieLog row matches the id.
// Handlers should translate this into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrUserNotFound is returned when no user matches the username.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when registration hits the unique index on
// users.username.
var ErrUsernameTaken = errors.New("username already registered")

// ErrSessionNotFound is returned when a session row is missing or expired.
var ErrSessionNotFound = errors.New("session not found")

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique constraint violation from
// either supported driver.
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
