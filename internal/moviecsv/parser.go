// Package moviecsv parses the tabular movie export format: one header row
// with the columns name, year, rating, certificate, genre, casts and
// directors, where genre, casts and directors hold comma-delimited lists
// inside a single field.
package moviecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mrlokans/moviepedia/internal/entities"
)

var requiredColumns = []string{"name", "rating"}

// Parse reads the full CSV stream. Rows with a missing name or an
// unparseable rating are collected as row errors and skipped; a malformed
// header or unreadable stream is fatal.
func Parse(r io.Reader) ([]entities.Movie, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := headerIndex[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var movies []entities.Movie
	var rowErrors []string

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		movie, err := parseRow(record, headerIndex)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		movies = append(movies, movie)
	}

	return movies, rowErrors, nil
}

func parseRow(record []string, headerIndex map[string]int) (entities.Movie, error) {
	field := func(name string) string {
		idx, ok := headerIndex[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field("name")
	if name == "" {
		return entities.Movie{}, fmt.Errorf("missing movie name")
	}

	rating, err := entities.ParseRating(field("rating"))
	if err != nil {
		return entities.Movie{}, err
	}

	return entities.Movie{
		Name:        name,
		Year:        field("year"),
		Rating:      rating,
		Certificate: field("certificate"),
		Genre:       entities.SplitList(field("genre")),
		Casts:       entities.SplitList(field("casts")),
		Directors:   entities.SplitList(field("directors")),
	}, nil
}
