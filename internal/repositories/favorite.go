package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// Favorite is one locally persisted favorite mark.
type Favorite struct {
	MovieID  string
	Title    string
	MarkedAt time.Time
}

// FavoriteRepository persists favorite marks in SQLite so they survive
// restarts of the browser. It mirrors the reducer's FavoriteSet: the
// session seeds the reducer from IDs() and writes through after every
// successful toggle.
type FavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a FavoriteRepository backed by db.
func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Set records the authoritative favorite state for a movie: inserts the
// mark when favorite is true, removes it otherwise. Both directions are
// idempotent.
func (r *FavoriteRepository) Set(movieID, title string, favorite bool) error {
	if movieID == "" {
		return fmt.Errorf("movie id is required")
	}

	if favorite {
		_, err := r.db.Exec(
			"INSERT INTO favorites (movie_id, title) VALUES (?, ?) ON CONFLICT(movie_id) DO UPDATE SET title = excluded.title",
			movieID, title,
		)
		if err != nil {
			return fmt.Errorf("failed to save favorite: %w", err)
		}
		return nil
	}

	if _, err := r.db.Exec("DELETE FROM favorites WHERE movie_id = ?", movieID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// IDs returns the set of favorite movie ids.
func (r *FavoriteRepository) IDs() (map[string]struct{}, error) {
	rows, err := r.db.Query("SELECT movie_id FROM favorites")
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	return ids, nil
}

// List returns all favorites, most recently marked first.
func (r *FavoriteRepository) List() ([]Favorite, error) {
	rows, err := r.db.Query("SELECT movie_id, title, marked_at FROM favorites ORDER BY marked_at DESC, movie_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var fav Favorite
		if err := rows.Scan(&fav.MovieID, &fav.Title, &fav.MarkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	return favorites, nil
}

// Clear removes every favorite mark.
func (r *FavoriteRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM favorites"); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}
