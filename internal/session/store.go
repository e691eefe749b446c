// Package session keeps the server-side record behind the login cookie.
// The cookie carries a signed opaque id; the record lives in Redis or, when
// Redis is not configured, in the SQL sessions table.
package session

import (
	"context"
	"time"

	"github.com/iliyamo/movielog/internal/model"
)

// Store persists session records under a key derived from the session id.
type Store interface {
	// Save writes the record so that it expires after ttl.
	Save(ctx context.Context, key string, s model.Session, ttl time.Duration) error
	// Load returns nil without error when the key is unknown or expired.
	Load(ctx context.Context, key string) (*model.Session, error)
	// Delete removes the record. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Sweep purges expired records and returns how many were removed.
	Sweep(ctx context.Context) (int64, error)
}
