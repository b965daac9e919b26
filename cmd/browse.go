package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/session"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/stream"
	"github.com/desertthunder/marquee/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive catalog browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var repo *repositories.FavoriteRepository
	favRepo, db, err := r.openRepo()
	if err != nil {
		fileLogger.Warn("favorites database unavailable, favorites will not persist", "error", err)
	} else {
		defer db.Close()
		repo = favRepo
	}

	filter := models.CategoryFilter("popular")
	if genre := cmd.String("genre"); genre != "" {
		filter = models.GenreFilter(genre)
	}
	if query := cmd.String("search"); query != "" {
		filter = models.SearchFilter(query)
	}

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc := r.service()
	sess := session.New(sessCtx, filter, session.Opts{
		Catalog:   svc,
		Favorites: repo,
		Logger:    fileLogger,
		RetryPolicy: stream.RetryPolicy{
			Count: r.config.Stream.RetryCount,
			Delay: time.Duration(r.config.Stream.RetryDelayMs) * time.Millisecond,
		},
	})

	model := ui.New(sessCtx, sess, svc)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// Version prints the application version.
func (r *Runner) Version(ctx context.Context, cmd *cli.Command) error {
	return r.writePlain("marquee %s\n", version)
}
