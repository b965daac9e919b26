package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/stream"
	"github.com/urfave/cli/v3"
)

// MoviesList lists movies for a category or genre, accumulating pages
// through the pagination combinator.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	filter := models.CategoryFilter(cmd.String("category"))
	if genre := cmd.String("genre"); genre != "" {
		filter = models.GenreFilter(genre)
	}

	return r.listMovies(ctx, filter, int(cmd.Int("pages")), cmd.Bool("json"), cmd.Bool("pretty"))
}

// MoviesSearch searches movies by title substring.
func (r *Runner) MoviesSearch(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	return r.listMovies(ctx, models.SearchFilter(query), int(cmd.Int("pages")), cmd.Bool("json"), cmd.Bool("pretty"))
}

// GenresList prints the browsable genre list.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	genres, err := r.service().Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}

	r.writePlainln("%d genres", len(genres))
	for _, genre := range genres {
		if err := r.writePlain("%-14s %s\n", genre.ID, genre.Name); err != nil {
			return err
		}
	}
	return nil
}

// listMovies drives one pagination run for the filter, requesting up
// to the given number of pages, and prints the accumulated listing.
func (r *Runner) listMovies(ctx context.Context, filter models.Filter, pages int, jsonOut, pretty bool) error {
	if pages < 1 {
		pages = 1
	}

	svc := r.service()
	fetch := func(ctx context.Context, page int) ([]models.Movie, error) {
		result, err := svc.FetchPage(ctx, filter, page)
		if err != nil {
			return nil, err
		}
		return result.Movies, nil
	}

	advance := make(chan struct{})
	results := stream.Paginate(ctx, fetch, advance)

	var movies []models.Movie
	received := 0
	for result := range results {
		if result.Err != nil {
			close(advance)
			return fmt.Errorf("listing failed: %w", result.Err)
		}

		movies = result.Value
		received++
		if received >= pages {
			close(advance)
			break
		}
		advance <- struct{}{}
	}

	if jsonOut {
		return r.writeJSON(movies, pretty)
	}

	r.writePlainln("%d movies (%s)", len(movies), filter.String())
	for _, movie := range movies {
		if err := r.writePlain("%-8s %-32s %-12s %4d %5.1f\n", movie.ID, movie.Title, movie.Genre, movie.Year, movie.Rating); err != nil {
			return err
		}
	}
	return nil
}
