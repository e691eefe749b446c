package session

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/movielog/internal/model"
	"github.com/iliyamo/movielog/internal/repository"
)

// SQLStore keeps sessions in the relational sessions table.
type SQLStore struct {
	repo *repository.SessionRepo
	now  func() time.Time
}

func NewSQLStore(repo *repository.SessionRepo) *SQLStore {
	return &SQLStore{repo: repo, now: time.Now}
}

func (s *SQLStore) Save(ctx context.Context, key string, sess model.Session, ttl time.Duration) error {
	return s.repo.Store(ctx, key, sess, s.now().Add(ttl))
}

func (s *SQLStore) Load(ctx context.Context, key string) (*model.Session, error) {
	sess, err := s.repo.Get(ctx, key, s.now())
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *SQLStore) Sweep(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
