// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the config file and favorites database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize configuration and run database migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// serveCommand runs the mock catalog backend.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the mock movie catalog server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
			&cli.IntFlag{
				Name:  "latency",
				Usage: "Simulated latency per request in milliseconds (overrides config)",
				Value: -1,
			},
			&cli.FloatFlag{
				Name:  "failure-rate",
				Usage: "Fraction of requests that fail with 500 (overrides config)",
				Value: -1,
			},
		},
		Action: r.Serve,
	}
}

// browseCommand launches the interactive catalog browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui"},
		Usage:   "Browse the catalog interactively",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Start on a genre listing instead of popular",
			},
			&cli.StringFlag{
				Name:  "search",
				Usage: "Start on a search listing instead of popular",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log destination while the TUI owns the terminal",
				Value: "./tmp/marquee-tui.log",
			},
		},
		Action: r.Browse,
	}
}

// moviesCommand lists and searches the catalog.
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Movie listing operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List movies for a category or genre",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category listing (popular, latest, all)",
						Value: "popular",
					},
					&cli.StringFlag{
						Name:    "genre",
						Aliases: []string{"g"},
						Usage:   "Genre ID to list instead of a category",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Number of pages to accumulate",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:      "search",
				Usage:     "Search movies by title",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Number of pages to accumulate",
						Value: 1,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.MoviesSearch,
			},
		},
	}
}

// genresCommand lists the browsable genres.
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "List catalog genres",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.GenresList,
	}
}

// favoritesCommand manages persisted favorites.
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Favorite operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List persisted favorites",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:      "toggle",
				Usage:     "Toggle a movie's favorite flag",
				ArgsUsage: "<movie-id>",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Movie title to store alongside the favorite",
					},
				},
				Action: r.FavoritesToggle,
			},
			{
				Name:  "export",
				Usage: "Export favorites to csv, markdown, or json",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, json)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to stdout)",
					},
				},
				Action: r.FavoritesExport,
			},
		},
	}
}

// versionCommand prints the application version.
func versionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Print the marquee version",
		Action: r.Version,
	}
}
