// package testing contains shared testing utilities
package testing

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/marquee/internal/models"
)

// ScriptedCatalog is a test double for [catalog.Service] driven by
// scripted pages and toggle outcomes.
type ScriptedCatalog struct {
	mu sync.Mutex

	// Pages maps filter.String() to pages by number. Missing pages are
	// served empty.
	Pages map[string]map[int][]models.Movie
	// ToggleResults maps movie id to the state returned by
	// ToggleFavorite; ids absent from the map toggle to true.
	ToggleResults map[string]bool
	// ToggleErrs maps movie id to a forced toggle error.
	ToggleErrs map[string]error
	// GenreList is returned by Genres.
	GenreList []models.Genre
	// FetchErr, when set, fails every FetchPage call.
	FetchErr error

	fetchCalls  []string
	toggleCalls map[string]int
}

// FetchPage serves the scripted page for the filter.
func (s *ScriptedCatalog) FetchPage(ctx context.Context, filter models.Filter, page int) (*models.Page, error) {
	s.mu.Lock()
	s.fetchCalls = append(s.fetchCalls, fmt.Sprintf("%s#%d", filter, page))
	s.mu.Unlock()

	if s.FetchErr != nil {
		return nil, s.FetchErr
	}

	var movies []models.Movie
	if pages, ok := s.Pages[filter.String()]; ok {
		movies = pages[page]
	}
	return &models.Page{Movies: movies, Page: page}, nil
}

// ToggleFavorite returns the scripted outcome for the movie.
func (s *ScriptedCatalog) ToggleFavorite(ctx context.Context, movie models.Movie) (bool, error) {
	s.mu.Lock()
	if s.toggleCalls == nil {
		s.toggleCalls = make(map[string]int)
	}
	s.toggleCalls[movie.ID]++
	s.mu.Unlock()

	if err := s.ToggleErrs[movie.ID]; err != nil {
		return false, err
	}
	if result, ok := s.ToggleResults[movie.ID]; ok {
		return result, nil
	}
	return true, nil
}

// Genres returns the scripted genre list.
func (s *ScriptedCatalog) Genres(ctx context.Context) ([]models.Genre, error) {
	return s.GenreList, nil
}

// Name identifies the double in logs.
func (s *ScriptedCatalog) Name() string { return "scripted" }

// FetchCalls returns every recorded fetch as "filter#page".
func (s *ScriptedCatalog) FetchCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetchCalls...)
}

// ToggleCalls returns the toggle call count for a movie id.
func (s *ScriptedCatalog) ToggleCalls(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggleCalls[id]
}

// RoundTripFunc adapts a function to [http.RoundTripper] for scripting
// HTTP client tests.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
