// package formatter provides functions to export movie lists to various formats (CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/desertthunder/marquee/internal/models"
)

// ToCSV converts a movie list to CSV with columns: ID, Title, Genre, Year, Rating
func ToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genre", "Year", "Rating"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range movies {
		record := []string{
			movie.ID,
			movie.Title,
			movie.Genre,
			strconv.Itoa(movie.Year),
			strconv.FormatFloat(movie.Rating, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown converts a movie list to a Markdown table under the given heading
func ToMarkdown(heading string, movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", heading))
	buf.WriteString(fmt.Sprintf("%d movies\n\n", len(movies)))
	buf.WriteString("| Title | Genre | Year | Rating |\n")
	buf.WriteString("|-------|-------|------|--------|\n")

	for _, movie := range movies {
		buf.WriteString(fmt.Sprintf("| %s | %s | %d | %.1f |\n",
			movie.Title, movie.Genre, movie.Year, movie.Rating))
	}

	return buf.Bytes(), nil
}

// ToJSON converts a movie list to JSON, optionally indented
func ToJSON(movies []models.Movie, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if pretty {
		data, err = json.MarshalIndent(movies, "", "  ")
	} else {
		data, err = json.Marshal(movies)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal movies: %w", err)
	}
	return data, nil
}

// Export renders movies in the named format: "csv", "markdown", or "json".
func Export(format, heading string, movies []models.Movie) ([]byte, error) {
	switch format {
	case "csv":
		return ToCSV(movies)
	case "markdown", "md":
		return ToMarkdown(heading, movies)
	case "json":
		return ToJSON(movies, true)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
