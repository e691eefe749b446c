package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movielog/internal/database"
	"github.com/iliyamo/movielog/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	return db
}

func owned(id uint64) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: true}
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(newTestDB(t))

	id, err := repo.Create(ctx, "  alice ", "hash-a")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero id")
	}

	u, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error: %v", err)
	}
	if u.ID != id || u.Username != "alice" || u.PasswordHash != "hash-a" {
		t.Errorf("unexpected user: %+v", u)
	}

	exists, err := repo.Exists(ctx, "alice")
	if err != nil || !exists {
		t.Errorf("Exists(alice) = %v, %v; want true, nil", exists, err)
	}
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepo(db)

	if _, err := repo.Create(ctx, "bob", "h1"); err != nil {
		t.Fatalf("first Create() error: %v", err)
	}
	_, err := repo.Create(ctx, "bob", "h2")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM users WHERE username = 'bob'"); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected exactly one row for bob, got %d", n)
	}
}

func TestUserRepo_GetMissing(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	if _, err := repo.GetByUsername(context.Background(), "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func seedMovies(t *testing.T, repo *MovieRepo) []model.Movie {
	t.Helper()
	movies := []model.Movie{
		{Title: "Alien", Director: "Ridley Scott", Genre: "Horror", Year: 1979, Rating: 9, OwnerID: owned(1)},
		{Title: "Heat", Director: "Michael Mann", Genre: "Action", Year: 1995, Rating: 8.5, OwnerID: owned(1)},
		{Title: "Amelie", Director: "Jean-Pierre Jeunet", Genre: "Comedy", Year: 2001, Rating: 8, OwnerID: owned(2)},
		{Title: "Nosferatu", Director: "F. W. Murnau", Genre: "Horror", Year: 1922, Rating: 7.5},
	}
	for i := range movies {
		if err := repo.Create(context.Background(), &movies[i]); err != nil {
			t.Fatalf("seeding %q: %v", movies[i].Title, err)
		}
	}
	return movies
}

func TestMovieRepo_ListScope(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepo(newTestDB(t))
	seedMovies(t, repo)

	tests := []struct {
		name  string
		scope model.MovieScope
		want  []string
	}{
		{"anonymous sees all", model.MovieScope{All: true}, []string{"Heat", "Amelie", "Alien", "Nosferatu"}},
		{"user 1 sees own", model.MovieScope{OwnerID: 1}, []string{"Heat", "Alien"}},
		{"user 2 sees own", model.MovieScope{OwnerID: 2}, []string{"Amelie"}},
		{"user with none", model.MovieScope{OwnerID: 99}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.scope)
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d movies, want %d", len(got), len(tt.want))
			}
			for i, m := range got {
				if m.Title != tt.want[i] {
					t.Errorf("position %d: got %q, want %q", i, m.Title, tt.want[i])
				}
			}
		})
	}
}

func TestMovieRepo_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepo(newTestDB(t))
	seedMovies(t, repo)

	tests := []struct {
		name  string
		scope model.MovieScope
		term  string
		want  int
	}{
		{"title match case-insensitive", model.MovieScope{All: true}, "aLiEn", 1},
		{"director match", model.MovieScope{All: true}, "mann", 1},
		{"genre match", model.MovieScope{All: true}, "horror", 2},
		{"scoped genre match", model.MovieScope{OwnerID: 1}, "horror", 1},
		{"scope hides other owner", model.MovieScope{OwnerID: 1}, "amelie", 0},
		{"empty term matches all in scope", model.MovieScope{OwnerID: 1}, "  ", 2},
		{"no match", model.MovieScope{All: true}, "zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.scope, tt.term)
			if err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d results, want %d", len(got), tt.want)
			}
		})
	}
}

func TestMovieRepo_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepo(newTestDB(t))
	movies := seedMovies(t, repo)
	heat := movies[1]

	got, err := repo.GetByID(ctx, heat.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Title != "Heat" || got.Rating != 8.5 || !got.OwnedBy(1) {
		t.Errorf("unexpected movie: %+v", got)
	}

	got.Rating = 9.5
	got.Comments = "rewatched"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	after, _ := repo.GetByID(ctx, heat.ID)
	if after.Rating != 9.5 || after.Comments != "rewatched" || !after.OwnedBy(1) {
		t.Errorf("update not applied or owner changed: %+v", after)
	}

	if err := repo.Update(ctx, model.Movie{ID: 9999, Title: "x"}); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("expected ErrMovieNotFound for missing id, got %v", err)
	}

	removed, err := repo.Delete(ctx, heat.ID)
	if err != nil || !removed {
		t.Fatalf("Delete() = %v, %v; want true, nil", removed, err)
	}
	if _, err := repo.GetByID(ctx, heat.ID); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("expected ErrMovieNotFound after delete, got %v", err)
	}

	removed, err = repo.Delete(ctx, heat.ID)
	if err != nil || removed {
		t.Errorf("second Delete() = %v, %v; want false, nil", removed, err)
	}
}

func TestMovieRepo_NullOwnerAndComments(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewMovieRepo(db)

	// Legacy rows may carry NULL comments and no owner.
	res, err := db.Exec(`INSERT INTO movieLog (title, director, genre, year, rating) VALUES ('M', 'Lang', 'Crime', 1931, 8)`)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := res.LastInsertId()

	m, err := repo.GetByID(ctx, uint64(id))
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if m.OwnerID.Valid || m.Comments != "" {
		t.Errorf("expected null owner and empty comments, got %+v", m)
	}
}

func TestSessionRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepo(newTestDB(t))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sess := model.Session{UserID: 7, Username: "carol"}

	if err := repo.Store(ctx, "live", sess, now.Add(time.Hour)); err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	if err := repo.Store(ctx, "stale", sess, now.Add(-time.Hour)); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	got, err := repo.Get(ctx, "live", now)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != sess {
		t.Errorf("got %+v, want %+v", got, sess)
	}

	if _, err := repo.Get(ctx, "stale", now); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected expired session to be hidden, got %v", err)
	}

	n, err := repo.DeleteExpired(ctx, now)
	if err != nil || n != 1 {
		t.Errorf("DeleteExpired() = %d, %v; want 1, nil", n, err)
	}

	if err := repo.Delete(ctx, "live"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := repo.Delete(ctx, "live"); err != nil {
		t.Errorf("second Delete() should be a no-op, got %v", err)
	}
	if _, err := repo.Get(ctx, "live", now); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
}
