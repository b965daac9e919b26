// package catalog defines interface Service for movie catalog providers
package catalog

import (
	"context"

	"github.com/desertthunder/marquee/internal/models"
)

// Service defines the operations a movie catalog provider must support.
// The stream engine consumes it as a black box: FetchPage is assumed
// idempotent per page number and ToggleFavorite returns the
// authoritative favorite state after the call.
type Service interface {
	// FetchPage retrieves one page of movies for the given filter.
	// Pages are one-based; a page past the end returns an empty page.
	FetchPage(ctx context.Context, filter models.Filter, page int) (*models.Page, error)

	// ToggleFavorite flips the favorite flag for a movie and returns
	// the resulting state (true = now favorite).
	ToggleFavorite(ctx context.Context, movie models.Movie) (bool, error)

	// Genres lists the browsable genres.
	Genres(ctx context.Context) ([]models.Genre, error)

	// Name returns the provider name for logging and display.
	Name() string
}
