// Package repository contains data access logic separated from HTTP handlers.
// This file defines the movie log queries. Listing and search always take a
// model.MovieScope so the caller's session decides which rows are visible;
// lookups, updates and deletes work by id alone.
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

// movieColumns aliases the legacy column names onto the model's db tags.
const movieColumns = `movielogID AS id, title, director, genre, year, rating,
	COALESCE(comments, '') AS comments, userID AS owner_id`

// MovieRepo encapsulates all database queries related to the movie log.
type MovieRepo struct {
	db *sqlx.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sqlx.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// DB exposes the underlying handle for health checks.
func (r *MovieRepo) DB() *sqlx.DB {
	return r.db
}

// List returns the entries visible under scope ordered by genre then title.
func (r *MovieRepo) List(ctx context.Context, scope model.MovieScope) ([]model.Movie, error) {
	return r.Search(ctx, scope, "")
}

// Search returns entries visible under scope whose title, director or genre
// contains term (case-insensitive). An empty term matches every entry.
func (r *MovieRepo) Search(ctx context.Context, scope model.MovieScope, term string) ([]model.Movie, error) {
	where := []string{}
	args := []any{}

	if !scope.All {
		where = append(where, "userID = ?")
		args = append(args, scope.OwnerID)
	}
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(director) LIKE ? OR LOWER(genre) LIKE ?)")
		args = append(args, like, like, like)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	q := "SELECT " + movieColumns + " FROM movieLog WHERE " + cond + " ORDER BY genre ASC, title ASC, movielogID ASC"
	out := []model.Movie{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("selecting movies: %w", err)
	}
	return out, nil
}

// GetByID fetches an entry regardless of owner. It returns ErrMovieNotFound
// if no row is found.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	var m model.Movie
	err := r.db.GetContext(ctx, &m, "SELECT "+movieColumns+" FROM movieLog WHERE movielogID = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return model.Movie{}, fmt.Errorf("selecting movie %d: %w", id, err)
	}
	return m, nil
}

// Create inserts a new entry and populates its ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movieLog (title, director, genre, year, rating, comments, userID)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Director, m.Genre, m.Year, m.Rating, m.Comments, m.OwnerID)
	if err != nil {
		return fmt.Errorf("inserting movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Update overwrites the editable columns of an entry. The owner is left as
// it was. It returns ErrMovieNotFound when no row matches.
func (r *MovieRepo) Update(ctx context.Context, m model.Movie) error {
	const q = `UPDATE movieLog
	           SET title = ?, director = ?, genre = ?, year = ?, rating = ?, comments = ?
	           WHERE movielogID = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Director, m.Genre, m.Year, m.Rating, m.Comments, m.ID)
	if err != nil {
		return fmt.Errorf("updating movie %d: %w", m.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// Delete removes an entry by id. Deleting an id that does not exist is not
// an error; the returned bool reports whether a row was removed.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movieLog WHERE movielogID = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting movie %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
