package session

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movielog/internal/database"
	"github.com/iliyamo/movielog/internal/model"
	"github.com/iliyamo/movielog/internal/repository"
	"github.com/iliyamo/movielog/internal/utils"
)

const testSecret = "test-secret"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, ""), mr
}

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	return NewSQLStore(repository.NewSessionRepo(db))
}

func TestManager_Lifecycle(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]Store{
		"redis": redisStore,
		"sql":   newSQLStore(t),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, testSecret, time.Hour, quietLogger())

			token, exp, err := m.Create(ctx, 42, "dana")
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			if !exp.After(time.Now()) {
				t.Errorf("expiry %v should be in the future", exp)
			}

			got := m.Resolve(ctx, token)
			if got == nil {
				t.Fatal("Resolve() returned nil for a live session")
			}
			if *got != (model.Session{UserID: 42, Username: "dana"}) {
				t.Errorf("Resolve() = %+v", got)
			}

			if err := m.Destroy(ctx, token); err != nil {
				t.Fatalf("Destroy() error: %v", err)
			}
			if m.Resolve(ctx, token) != nil {
				t.Error("Resolve() should return nil after Destroy")
			}
			if err := m.Destroy(ctx, token); err != nil {
				t.Errorf("second Destroy() error: %v", err)
			}
		})
	}
}

func TestManager_ResolveRejects(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()
	m := NewManager(store, testSecret, time.Hour, quietLogger())

	token, _, err := m.Create(ctx, 1, "erin")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	other := NewManager(store, "another-secret", time.Hour, quietLogger())

	// A validly signed cookie whose id was never stored.
	unknown, err := utils.SignSessionToken(testSecret, "never-stored", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		m     *Manager
		token string
	}{
		{"empty", m, ""},
		{"garbage", m, "not-a-token"},
		{"wrong secret", other, token},
		{"unknown id", m, unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Resolve(ctx, tt.token); got != nil {
				t.Errorf("Resolve() = %+v, want nil", got)
			}
		})
	}
}

func TestManager_CreateRequiresIdentity(t *testing.T) {
	store, _ := newRedisStore(t)
	m := NewManager(store, testSecret, time.Hour, quietLogger())
	if _, _, err := m.Create(context.Background(), 0, "x"); err != ErrEmptyIdentity {
		t.Errorf("expected ErrEmptyIdentity for zero id, got %v", err)
	}
	if _, _, err := m.Create(context.Background(), 1, " "); err != ErrEmptyIdentity {
		t.Errorf("expected ErrEmptyIdentity for blank name, got %v", err)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()
	m := NewManager(store, testSecret, time.Minute, quietLogger())

	token, _, err := m.Create(ctx, 5, "finn")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if m.Resolve(ctx, token) != nil {
		t.Error("expected session to expire in redis")
	}
}

func TestSQLStore_Sweep(t *testing.T) {
	store := newSQLStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	if err := store.Save(ctx, "k", model.Session{UserID: 1, Username: "gil"}, time.Hour); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	store.now = func() time.Time { return base.Add(2 * time.Hour) }

	if got, err := store.Load(ctx, "k"); err != nil || got != nil {
		t.Errorf("Load() after expiry = %+v, %v; want nil, nil", got, err)
	}
	n, err := store.Sweep(ctx)
	if err != nil || n != 1 {
		t.Errorf("Sweep() = %d, %v; want 1, nil", n, err)
	}
}

func TestCookies(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	c := NewCookie("v", exp, true)
	if c.Name != CookieName || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Errorf("unexpected login cookie: %+v", c)
	}
	cleared := ClearCookie(false)
	if cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Errorf("clear cookie should expire immediately: %+v", cleared)
	}
}
