package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
	"golang.org/x/time/rate"
)

const defaultRateLimit = 10.0

// HTTPService implements [Service] against the marquee mock backend's
// JSON API. A per-client rate limiter keeps rapid pagination and
// favorite toggling within the configured request budget.
type HTTPService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Service = (*HTTPService)(nil)

// NewHTTPService creates a catalog client for the given base URL.
// A nil client falls back to [http.DefaultClient]; a non-positive
// rateLimit falls back to the default budget.
func NewHTTPService(baseURL string, client *http.Client, rateLimit float64) *HTTPService {
	if baseURL == "" {
		baseURL = "http://localhost:8484"
	}
	if client == nil {
		client = http.DefaultClient
	}
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}

	return &HTTPService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
	}
}

// Name returns the provider name.
func (s *HTTPService) Name() string { return "marquee-catalog" }

// FetchPage retrieves one page of movies for the given filter.
func (s *HTTPService) FetchPage(ctx context.Context, filter models.Filter, page int) (*models.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))

	switch filter.Kind {
	case models.FilterCategory:
		query.Set("category", filter.Value)
	case models.FilterGenre:
		query.Set("genre", filter.Value)
	case models.FilterSearch:
		query.Set("q", filter.Value)
	default:
		return nil, fmt.Errorf("%w: unknown filter kind %d", shared.ErrInvalidInput, filter.Kind)
	}

	var result models.Page
	if err := s.getJSON(ctx, "/movies?"+query.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleFavorite flips the favorite flag for a movie on the backend.
func (s *HTTPService) ToggleFavorite(ctx context.Context, movie models.Movie) (bool, error) {
	if movie.ID == "" {
		return false, fmt.Errorf("%w: movie has no id", shared.ErrInvalidInput)
	}

	var result struct {
		Favorite bool `json:"favorite"`
	}
	if err := s.postJSON(ctx, "/movies/"+url.PathEscape(movie.ID)+"/favorite", &result); err != nil {
		return false, err
	}
	return result.Favorite, nil
}

// Genres lists the backend's genres.
func (s *HTTPService) Genres(ctx context.Context) ([]models.Genre, error) {
	var result struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := s.getJSON(ctx, "/genres", &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

func (s *HTTPService) getJSON(ctx context.Context, path string, target any) error {
	return s.doJSON(ctx, http.MethodGet, path, target)
}

func (s *HTTPService) postJSON(ctx context.Context, path string, target any) error {
	return s.doJSON(ctx, http.MethodPost, path, target)
}

func (s *HTTPService) doJSON(ctx context.Context, method, path string, target any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d from %s %s", shared.ErrAPIRequest, resp.StatusCode, method, path)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}
