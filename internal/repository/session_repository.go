package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movielog/internal/model"
)

// SessionRepo persists session records keyed by the SHA-256 hash of the
// session id. It backs the SQL session store when Redis is unavailable.
type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

// Store writes a session row, replacing any row with the same hash.
func (r *SessionRepo) Store(ctx context.Context, tokenHash string, s model.Session, exp time.Time) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = ?", tokenHash); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token_hash, user_id, username, expires_at) VALUES (?, ?, ?, ?)",
		tokenHash, s.UserID, s.Username, exp.UTC())
	return err
}

// Get returns the session for a hash if it exists and has not expired.
func (r *SessionRepo) Get(ctx context.Context, tokenHash string, now time.Time) (model.Session, error) {
	var s model.Session
	err := r.db.GetContext(ctx, &s,
		"SELECT user_id, username FROM sessions WHERE token_hash = ? AND expires_at > ? LIMIT 1",
		tokenHash, now.UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrSessionNotFound
	}
	return s, err
}

// Delete removes a session row. Deleting a missing row is not an error.
func (r *SessionRepo) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = ?", tokenHash)
	return err
}

// DeleteExpired removes every row whose expiry is not after now and returns
// the number of rows removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
