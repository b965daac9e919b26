package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/stream"
	mtesting "github.com/desertthunder/marquee/internal/testing"
)

const snapTimeout = 2 * time.Second

// waitUntil reads snapshots until pred matches or the timeout expires.
func waitUntil(t *testing.T, snaps <-chan Snapshot, what string, pred func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(snapTimeout)
	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				t.Fatalf("snapshot channel closed while waiting for %s", what)
			}
			if pred(snap) {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
		}
	}
}

func newSession(t *testing.T, svc *mtesting.ScriptedCatalog, repo *repositories.FavoriteRepository) *Session {
	t.Helper()
	s := New(context.Background(), models.CategoryFilter("popular"), Opts{
		Catalog:     svc,
		Favorites:   repo,
		RetryPolicy: stream.RetryPolicy{Count: 0, Delay: time.Millisecond},
	})
	t.Cleanup(s.Close)
	return s
}

func movie(id string) models.Movie {
	return models.Movie{ID: id, Title: "Movie " + id}
}

func TestSessionLoadsFirstPage(t *testing.T) {
	svc := &mtesting.ScriptedCatalog{
		Pages: map[string]map[int][]models.Movie{
			"category:popular": {1: {movie("m1"), movie("m2")}},
		},
	}
	s := newSession(t, svc, nil)

	first := waitUntil(t, s.Snapshots(), "suspense emission", func(snap Snapshot) bool {
		return snap.Movies.Suspense
	})
	if len(first.Movies.Data) != 0 {
		t.Errorf("suspense emission carries data: %v", first.Movies.Data)
	}

	loaded := waitUntil(t, s.Snapshots(), "loaded listing", func(snap Snapshot) bool {
		return !snap.Movies.Suspense && snap.Movies.Err == nil && len(snap.Movies.Data) > 0
	})
	if len(loaded.Movies.Data) != 2 || loaded.Movies.Data[0].ID != "m1" {
		t.Errorf("loaded listing = %v, want [m1 m2]", loaded.Movies.Data)
	}
}

func TestSessionAdvanceAccumulates(t *testing.T) {
	svc := &mtesting.ScriptedCatalog{
		Pages: map[string]map[int][]models.Movie{
			"category:popular": {
				1: {movie("m1"), movie("m2")},
				2: {movie("m3")},
			},
		},
	}
	s := newSession(t, svc, nil)

	waitUntil(t, s.Snapshots(), "first page", func(snap Snapshot) bool {
		return len(snap.Movies.Data) == 2
	})

	s.Advance()
	grown := waitUntil(t, s.Snapshots(), "accumulated listing", func(snap Snapshot) bool {
		return len(snap.Movies.Data) == 3
	})

	want := []string{"m1", "m2", "m3"}
	for i, id := range want {
		if grown.Movies.Data[i].ID != id {
			t.Errorf("accumulated[%d] = %s, want %s", i, grown.Movies.Data[i].ID, id)
		}
	}
}

func TestSessionResetOnFilterChange(t *testing.T) {
	svc := &mtesting.ScriptedCatalog{
		Pages: map[string]map[int][]models.Movie{
			"category:popular": {1: {movie("m1"), movie("m2")}},
			"genre:drama":      {1: {movie("d1")}},
		},
	}
	s := newSession(t, svc, nil)

	waitUntil(t, s.Snapshots(), "initial listing", func(snap Snapshot) bool {
		return len(snap.Movies.Data) == 2
	})

	s.SetFilter(models.GenreFilter("drama"))

	reset := waitUntil(t, s.Snapshots(), "reset suspense", func(snap Snapshot) bool {
		return snap.Movies.Suspense
	})
	if len(reset.Movies.Data) != 0 {
		t.Errorf("reset emission still carries old listing: %v", reset.Movies.Data)
	}
	if reset.Filter.Kind != models.FilterGenre {
		t.Errorf("reset filter = %v, want genre", reset.Filter)
	}

	fresh := waitUntil(t, s.Snapshots(), "genre listing", func(snap Snapshot) bool {
		return !snap.Movies.Suspense && len(snap.Movies.Data) > 0
	})
	if len(fresh.Movies.Data) != 1 || fresh.Movies.Data[0].ID != "d1" {
		t.Errorf("genre listing = %v, want [d1]", fresh.Movies.Data)
	}
}

func TestSessionToggleWritesThrough(t *testing.T) {
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	repo := repositories.NewFavoriteRepository(db)

	svc := &mtesting.ScriptedCatalog{
		Pages: map[string]map[int][]models.Movie{
			"category:popular": {1: {movie("m1")}},
		},
		ToggleResults: map[string]bool{"m1": true},
	}
	s := newSession(t, svc, repo)

	s.Toggle(movie("m1"))

	waitUntil(t, s.Snapshots(), "loading marker", func(snap Snapshot) bool {
		return snap.Favorites.IsLoading("m1")
	})
	waitUntil(t, s.Snapshots(), "favorite applied", func(snap Snapshot) bool {
		return snap.Favorites.IsFavorite("m1") && !snap.Favorites.IsLoading("m1")
	})

	ids, err := repo.IDs()
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	if _, ok := ids["m1"]; !ok {
		t.Errorf("favorite not persisted")
	}
}

func TestSessionToggleFailure(t *testing.T) {
	svc := &mtesting.ScriptedCatalog{
		Pages: map[string]map[int][]models.Movie{
			"category:popular": {1: {movie("m1")}},
		},
		ToggleErrs: map[string]error{"m1": errors.New("backend down")},
	}
	s := newSession(t, svc, nil)

	s.Toggle(movie("m1"))

	failed := waitUntil(t, s.Snapshots(), "failure emission", func(snap Snapshot) bool {
		return snap.Favorites.LastErr != nil
	})
	if failed.Favorites.IsLoading("m1") {
		t.Errorf("loading marker stuck after failed toggle")
	}
	if failed.Favorites.IsFavorite("m1") {
		t.Errorf("failed toggle must not mark favorite")
	}
}

func TestSessionSeedsPersistedFavorites(t *testing.T) {
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	repo := repositories.NewFavoriteRepository(db)
	if err := repo.Set("m2", "Movie m2", true); err != nil {
		t.Fatalf("Set: %v", err)
	}

	svc := &mtesting.ScriptedCatalog{
		Pages: map[string]map[int][]models.Movie{
			"category:popular": {1: {movie("m1"), movie("m2")}},
		},
	}
	s := newSession(t, svc, repo)

	snap := waitUntil(t, s.Snapshots(), "any emission", func(Snapshot) bool { return true })
	if !snap.Favorites.IsFavorite("m2") {
		t.Errorf("persisted favorite m2 not seeded into session")
	}
}

func TestSessionClose(t *testing.T) {
	svc := &mtesting.ScriptedCatalog{
		Pages: map[string]map[int][]models.Movie{
			"category:popular": {1: {movie("m1")}},
		},
	}
	s := New(context.Background(), models.CategoryFilter("popular"), Opts{Catalog: svc})

	s.Close()

	deadline := time.After(snapTimeout)
	for {
		select {
		case _, ok := <-s.Snapshots():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("snapshot channel not closed after Close")
		}
	}
}
