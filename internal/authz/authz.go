// Package authz decides what a request may see or change based on the
// session attached to it. A nil session means an anonymous visitor.
package authz

import (
	"errors"

	"github.com/iliyamo/movielog/internal/model"
)

var (
	// ErrUnauthorized means the operation needs a logged-in user.
	ErrUnauthorized = errors.New("login required")
	// ErrForbidden means the logged-in user may not touch the entry.
	ErrForbidden = errors.New("not allowed to modify this entry")
)

// RequireAuthenticated returns the user id of the session or
// ErrUnauthorized when there is none.
func RequireAuthenticated(s *model.Session) (uint64, error) {
	if s == nil || s.UserID == 0 {
		return 0, ErrUnauthorized
	}
	return s.UserID, nil
}

// ScopeMovieQuery narrows listings to the caller's own entries. Anonymous
// visitors see every entry.
func ScopeMovieQuery(s *model.Session) model.MovieScope {
	if s == nil || s.UserID == 0 {
		return model.MovieScope{All: true}
	}
	return model.MovieScope{OwnerID: s.UserID}
}

// Policy governs edits and deletes of existing entries.
type Policy struct {
	// EnforceOwnership restricts owned entries to their owner. When false,
	// any caller may edit or delete any entry.
	EnforceOwnership bool
}

// CheckMutation reports whether the session may update or delete m.
// Entries without an owner stay editable by anyone.
func (p Policy) CheckMutation(s *model.Session, m model.Movie) error {
	if !p.EnforceOwnership || !m.OwnerID.Valid {
		return nil
	}
	if s == nil || s.UserID == 0 {
		return ErrUnauthorized
	}
	if !m.OwnedBy(s.UserID) {
		return ErrForbidden
	}
	return nil
}
