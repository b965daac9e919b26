// package models defines the data model for the movie catalog browser
package models

import "fmt"

// Movie represents a single catalog entry.
//
// Display fields are opaque to the stream engine; only ID is required
// to be stable.
type Movie struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Overview string  `json:"overview"`
	Genre    string  `json:"genre"`
	Year     int     `json:"year"`
	Rating   float64 `json:"rating"`
}

// Genre represents a browsable catalog genre.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one page of catalog results.
type Page struct {
	Movies     []Movie `json:"movies"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
}

// FilterKind enumerates the ways a catalog listing can be scoped.
type FilterKind int

const (
	FilterCategory FilterKind = iota
	FilterGenre
	FilterSearch
)

func (k FilterKind) String() string {
	switch k {
	case FilterCategory:
		return "category"
	case FilterGenre:
		return "genre"
	case FilterSearch:
		return "search"
	default:
		return ""
	}
}

// Filter identifies one pagination context. Changing the active Filter
// resets accumulated results and restarts from page 1.
type Filter struct {
	Kind  FilterKind
	Value string
}

// CategoryFilter returns a Filter for a named category (e.g. "popular").
func CategoryFilter(name string) Filter {
	return Filter{Kind: FilterCategory, Value: name}
}

// GenreFilter returns a Filter scoped to a genre ID.
func GenreFilter(id string) Filter {
	return Filter{Kind: FilterGenre, Value: id}
}

// SearchFilter returns a Filter for a free-text query.
func SearchFilter(query string) Filter {
	return Filter{Kind: FilterSearch, Value: query}
}

func (f Filter) String() string {
	return fmt.Sprintf("%s:%s", f.Kind, f.Value)
}
