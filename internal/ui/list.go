package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/stream"
)

var _ list.Item = movieItem{}

// movieItem wraps [models.Movie] to implement [list.Item], rendering
// the per-movie favorite and loading markers from the reducer state.
type movieItem struct {
	movie     models.Movie
	favorites stream.FavoriteState
}

func (i movieItem) FilterValue() string { return i.movie.Title }

func (i movieItem) Title() string {
	switch {
	case i.favorites.IsLoading(i.movie.ID):
		return "⋯ " + i.movie.Title
	case i.favorites.IsFavorite(i.movie.ID):
		return "♥ " + i.movie.Title
	default:
		return i.movie.Title
	}
}

func (i movieItem) Description() string {
	return fmt.Sprintf("%s • %d • ★ %.1f", i.movie.Genre, i.movie.Year, i.movie.Rating)
}
