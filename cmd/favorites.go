package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

// openRepo opens the favorites database and makes sure migrations ran.
// Callers close the returned handle.
func (r *Runner) openRepo() (*repositories.FavoriteRepository, *sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewFavoriteRepository(db), db, nil
}

// FavoritesList prints the persisted favorites, newest first.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	repo, db, err := r.openRepo()
	if err != nil {
		return err
	}
	defer db.Close()

	favorites, err := repo.List()
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(favorites, cmd.Bool("pretty"))
	}

	if len(favorites) == 0 {
		return r.writePlain("no favorites yet\n")
	}

	r.writePlainln("%d favorites", len(favorites))
	for _, favorite := range favorites {
		if err := r.writePlain("%-8s %-32s %s\n", favorite.MovieID, favorite.Title, favorite.MarkedAt.Format("2006-01-02 15:04")); err != nil {
			return err
		}
	}
	return nil
}

// FavoritesToggle flips a movie's favorite flag on the server and
// mirrors the result locally.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	movieID := cmd.Args().First()
	if movieID == "" {
		return fmt.Errorf("%w: movie ID is required", shared.ErrMissingArgument)
	}

	favorite, err := r.service().ToggleFavorite(ctx, models.Movie{ID: movieID, Title: cmd.String("title")})
	if err != nil {
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}

	repo, db, err := r.openRepo()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Set(movieID, cmd.String("title"), favorite); err != nil {
		r.logger.Warn("failed to persist favorite", "movie", movieID, "error", err)
	}

	if favorite {
		return r.writePlain("✓ favorited %s\n", movieID)
	}
	return r.writePlain("✗ unfavorited %s\n", movieID)
}

// FavoritesExport writes the persisted favorites in the requested format.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	repo, db, err := r.openRepo()
	if err != nil {
		return err
	}
	defer db.Close()

	favorites, err := repo.List()
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}

	movies := make([]models.Movie, 0, len(favorites))
	for _, favorite := range favorites {
		movies = append(movies, models.Movie{ID: favorite.MovieID, Title: favorite.Title})
	}

	data, err := formatter.Export(cmd.String("format"), "Favorites", movies)
	if err != nil {
		return fmt.Errorf("failed to export favorites: %w", err)
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return r.writePlain("exported %d favorites to %s\n", len(favorites), path)
	}

	_, err = r.output.Write(data)
	return err
}
