// Package repositories implements SQLite persistence for marquee's
// local state.
//
// [FavoriteRepository] stores favorite marks keyed by movie id. The
// schema is managed by the embedded migrations in internal/shared; run
// `marquee setup` (or [shared.RunMigrations]) before first use.
package repositories
