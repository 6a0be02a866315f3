// Package encyclopedia implements the backend-agnostic data-access facade.
//
// The facade validates input, normalizes the rating to its canonical float64
// form and delegates to a MovieStore. Both store implementations live under
// internal/database:
//
//	var _ encyclopedia.MovieStore = (*mongodb.Repository)(nil)
//	var _ encyclopedia.MovieStore = (*dynamodb.Repository)(nil)
package encyclopedia

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mrlokans/moviepedia/internal/audit"
	"github.com/mrlokans/moviepedia/internal/entities"
	"github.com/mrlokans/moviepedia/internal/moviecsv"
)

// DefaultSearchLimit caps search results, matching the product's fixed top-20.
const DefaultSearchLimit = 20

// searchableFields is the whitelist of attributes FindMovies accepts.
// Restricting the field name keeps arbitrary attribute names out of backend
// query expressions.
var searchableFields = map[string]bool{
	"name":        true,
	"year":        true,
	"certificate": true,
	"genre":       true,
	"casts":       true,
	"directors":   true,
}

// Encyclopedia is the facade over one selected MovieStore.
type Encyclopedia struct {
	store       MovieStore
	trail       *audit.Trail
	searchLimit int
}

// Option configures an Encyclopedia.
type Option func(*Encyclopedia)

// WithAuditTrail records every mutating operation to the given trail.
func WithAuditTrail(trail *audit.Trail) Option {
	return func(e *Encyclopedia) { e.trail = trail }
}

// WithSearchLimit overrides the default result cap.
func WithSearchLimit(limit int) Option {
	return func(e *Encyclopedia) {
		if limit > 0 {
			e.searchLimit = limit
		}
	}
}

// New creates a facade around the injected store.
func New(store MovieStore, opts ...Option) *Encyclopedia {
	e := &Encyclopedia{
		store:       store,
		searchLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddMovie validates and inserts a single movie. Name and rating are
// required and at least one genre must be present; everything else is
// optional.
func (e *Encyclopedia) AddMovie(ctx context.Context, movie entities.Movie) error {
	movie.Name = strings.TrimSpace(movie.Name)
	if movie.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if movie.Rating <= 0 {
		return &ValidationError{Field: "rating", Reason: "must be a positive number"}
	}
	if len(movie.Genre) == 0 {
		return &ValidationError{Field: "genre", Reason: "at least one genre is required"}
	}

	if err := e.store.Insert(ctx, movie); err != nil {
		return fmt.Errorf("failed to add movie %q: %w", movie.Name, err)
	}
	e.record("add", movie.Name, map[string]any{"rating": movie.Rating}, nil)
	return nil
}

// UpdateMovie applies a partial field set to the named movie. The name
// itself cannot be changed: it is the key in both backends.
func (e *Encyclopedia) UpdateMovie(ctx context.Context, name string, fields map[string]any) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(fields) == 0 {
		return &ValidationError{Field: "fields", Reason: "no fields to update"}
	}
	if _, ok := fields["name"]; ok {
		return &ValidationError{Field: "name", Reason: "the movie name cannot be updated"}
	}
	if raw, ok := fields["rating"]; ok {
		rating, err := coerceRating(raw)
		if err != nil {
			return &ValidationError{Field: "rating", Reason: err.Error()}
		}
		fields["rating"] = rating
	}

	if err := e.store.Update(ctx, name, fields); err != nil {
		return fmt.Errorf("failed to update movie %q: %w", name, err)
	}
	e.record("update", name, fields, nil)
	return nil
}

// DeleteMovie removes the named movie. A miss returns ErrNotFound, which
// callers treat as informational; the delete is idempotent.
func (e *Encyclopedia) DeleteMovie(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	err := e.store.Delete(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete movie %q: %w", name, err)
	}
	e.record("delete", name, nil, err)
	return err
}

// FindMovies performs a case-insensitive substring search over one field,
// returning at most the configured limit sorted by rating descending.
func (e *Encyclopedia) FindMovies(ctx context.Context, field, substring string) ([]entities.Movie, error) {
	if !searchableFields[field] {
		return nil, &ValidationError{Field: "field", Reason: fmt.Sprintf("%q is not searchable", field)}
	}
	substring = strings.TrimSpace(substring)
	if substring == "" {
		return nil, &ValidationError{Field: "query", Reason: "must not be empty"}
	}

	movies, err := e.store.Search(ctx, field, substring, e.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search by %s failed: %w", field, err)
	}
	return movies, nil
}

// GetMovieDetails retrieves a single movie by name. Returns ErrNotFound on
// a miss.
func (e *Encyclopedia) GetMovieDetails(ctx context.Context, name string) (*entities.Movie, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return e.store.Get(ctx, name)
}

// ImportResult summarizes a bulk load.
type ImportResult struct {
	RowsProcessed int
	MoviesLoaded  int
	RowErrors     []string
}

// LoadFromCSV parses a tabular export and replaces the store's contents with
// its rows. Rows that fail to parse are skipped and reported, not fatal.
func (e *Encyclopedia) LoadFromCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	movies, rowErrors, err := moviecsv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	result := &ImportResult{
		RowsProcessed: len(movies) + len(rowErrors),
		RowErrors:     rowErrors,
	}
	if len(movies) == 0 {
		return result, nil
	}

	if err := e.store.ReplaceAll(ctx, movies); err != nil {
		return result, fmt.Errorf("bulk load failed: %w", err)
	}
	result.MoviesLoaded = len(movies)
	e.record("bulk-load", "", map[string]any{"movies": len(movies)}, nil)
	return result, nil
}

// Close releases the underlying store session.
func (e *Encyclopedia) Close(ctx context.Context) error {
	return e.store.Close(ctx)
}

func (e *Encyclopedia) record(op, name string, details map[string]any, opErr error) {
	if e.trail == nil {
		return
	}
	if _, err := e.trail.Record(op, name, details, opErr); err != nil {
		log.Printf("Failed to record audit event for %s: %v", op, err)
	}
}

func coerceRating(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		if v <= 0 {
			return 0, fmt.Errorf("must be a positive number")
		}
		return v, nil
	case float32:
		return coerceRating(float64(v))
	case int:
		return coerceRating(float64(v))
	case string:
		rating, err := entities.ParseRating(v)
		if err != nil {
			return 0, fmt.Errorf("must be numeric")
		}
		return coerceRating(rating)
	default:
		return 0, fmt.Errorf("unsupported rating type %T", raw)
	}
}
