package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

const defaultPageSize = 20

// Catalog serves a seeded in-memory movie catalog with favorite
// toggling. It exists to exercise the stream engine, not to be a
// product: state lives for the process lifetime only.
type Catalog struct {
	mu        sync.Mutex
	movies    []models.Movie
	favorites map[string]struct{}
	genres    []models.Genre
	pageSize  int
	logger    *log.Logger
}

// NewCatalog creates a Catalog seeded with the built-in movie set.
func NewCatalog(pageSize int, logger *log.Logger) *Catalog {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	genres, movies := seedCatalog()
	return &Catalog{
		movies:    movies,
		favorites: make(map[string]struct{}),
		genres:    genres,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// Register wires the catalog's routes into the router.
func (c *Catalog) Register(r *Router) {
	r.HandleFunc("GET /health", c.handleHealth)
	r.HandleFunc("GET /genres", c.handleGenres)
	r.HandleFunc("GET /movies", c.handleMovies)
	r.HandleFunc("POST /movies/{id}/favorite", c.handleToggleFavorite)
}

func (c *Catalog) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *Catalog) handleGenres(w http.ResponseWriter, req *http.Request) {
	c.mu.Lock()
	genres := append([]models.Genre(nil), c.genres...)
	c.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"genres": genres})
}

func (c *Catalog) handleMovies(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		page = parsed
	}

	matched, err := c.filtered(query.Get("category"), query.Get("genre"), query.Get("q"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	totalPages := (len(matched) + c.pageSize - 1) / c.pageSize
	start := (page - 1) * c.pageSize
	var movies []models.Movie
	if start < len(matched) {
		end := min(start+c.pageSize, len(matched))
		movies = matched[start:end]
	}

	// A page past the end is an empty page, not an error: the client's
	// accumulator reads it as end of collection.
	writeJSON(w, http.StatusOK, models.Page{
		Movies:     movies,
		Page:       page,
		TotalPages: totalPages,
	})
}

func (c *Catalog) handleToggleFavorite(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasMovie(id) {
		http.Error(w, shared.ErrMovieNotFound.Error(), http.StatusNotFound)
		return
	}

	var favorite bool
	if _, ok := c.favorites[id]; ok {
		delete(c.favorites, id)
	} else {
		c.favorites[id] = struct{}{}
		favorite = true
	}

	writeJSON(w, http.StatusOK, map[string]bool{"favorite": favorite})
}

// filtered returns the movies matching exactly one of category, genre,
// or free-text query, already sorted for the requested listing.
func (c *Catalog) filtered(category, genreID, q string) ([]models.Movie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case genreID != "":
		var name string
		for _, g := range c.genres {
			if g.ID == genreID {
				name = g.Name
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrGenreNotFound, genreID)
		}
		var matched []models.Movie
		for _, m := range c.movies {
			if m.Genre == name {
				matched = append(matched, m)
			}
		}
		return matched, nil

	case q != "":
		needle := strings.ToLower(q)
		var matched []models.Movie
		for _, m := range c.movies {
			if strings.Contains(strings.ToLower(m.Title), needle) {
				matched = append(matched, m)
			}
		}
		return matched, nil

	default:
		matched := append([]models.Movie(nil), c.movies...)
		switch category {
		case "", "popular":
			sort.SliceStable(matched, func(i, j int) bool {
				return matched[i].Rating > matched[j].Rating
			})
		case "latest":
			sort.SliceStable(matched, func(i, j int) bool {
				return matched[i].Year > matched[j].Year
			})
		case "all":
			// seeded order
		default:
			return nil, fmt.Errorf("unknown category %q", category)
		}
		return matched, nil
	}
}

func (c *Catalog) hasMovie(id string) bool {
	for _, m := range c.movies {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Movies returns a copy of the seeded movie list, for tests and the
// favorites export command.
func (c *Catalog) Movies() []models.Movie {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Movie(nil), c.movies...)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// seedCatalog builds the deterministic built-in movie set: eight
// genres, six titles each, with ids minted fresh per process.
func seedCatalog() ([]models.Genre, []models.Movie) {
	seeds := map[string][]string{
		"Action":   {"Iron Horizon", "Last Detonation", "Velocity Pact", "Crimson Vector", "The Standoff", "Nightfall Run"},
		"Comedy":   {"Spare Parts", "The Understudy", "Banana Republic of Dave", "Punchline City", "Mild Panic", "Two Left Feet"},
		"Drama":    {"Glass Seasons", "The Quiet Ledger", "Harbor Lights", "Second Winter", "Ashes of August", "The Long Commute"},
		"Horror":   {"Cellar Door", "The Wilting", "Midnight Census", "Static", "Hollow Orchard", "Room Nine"},
		"Mystery":  {"The Fifth Witness", "Paper Alibi", "Cold Margin", "The Locksmith's Wife", "Vanishing Act", "Dead Letter Office"},
		"Romance":  {"Letters to Marseille", "The Sunday Table", "Half a Duet", "Postcards Home", "The Florist", "June and January"},
		"Sci-Fi":   {"Orbital Decay", "The Callisto Accord", "Signal Lost", "Terraform", "Eighth Colony", "Afterlight"},
		"Thriller": {"The Courier's Debt", "Blackout Protocol", "Fathom", "The Silent Partner", "Exit Wound", "Clean Hands"},
	}

	names := make([]string, 0, len(seeds))
	for name := range seeds {
		names = append(names, name)
	}
	sort.Strings(names)

	var genres []models.Genre
	var movies []models.Movie
	for gi, name := range names {
		genres = append(genres, models.Genre{
			ID:   strings.ToLower(strings.ReplaceAll(name, "-", "")),
			Name: name,
		})
		for ti, title := range seeds[name] {
			movies = append(movies, models.Movie{
				ID:       shared.GenerateID(),
				Title:    title,
				Overview: fmt.Sprintf("A %s feature from the marquee seed catalog.", strings.ToLower(name)),
				Genre:    name,
				Year:     1990 + (gi*7+ti*5)%35,
				Rating:   4.0 + float64((gi*3+ti*11)%60)/10.0,
			})
		}
	}

	return genres, movies
}
