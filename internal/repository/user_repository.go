package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movielog/internal/model"
)

// UserRepo is the credential store over the 'users' table.
type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user with an already hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (uint64, error) {
	username = strings.TrimSpace(username)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, passwordHash)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by trimmed username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u,
		"SELECT userID AS id, username, password AS password_hash FROM users WHERE username = ? LIMIT 1",
		strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("selecting user: %w", err)
	}
	return u, nil
}

// Exists reports whether the username is already registered.
func (r *UserRepo) Exists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM users WHERE username = ?", strings.TrimSpace(username))
	if err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}
	return n > 0, nil
}
