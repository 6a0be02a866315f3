package encyclopedia

import (
	"context"

	"github.com/mrlokans/moviepedia/internal/entities"
)

// MovieStore is the backend contract both adapters implement. Adapters own
// all representation conversion (float vs exact-decimal ratings, list
// encodings); callers only see entities.Movie.
type MovieStore interface {
	// Insert writes one movie. No uniqueness check is performed: MongoDB
	// permits duplicate names, DynamoDB silently overwrites by key.
	Insert(ctx context.Context, movie entities.Movie) error

	// Update applies a partial field set to the named movie.
	Update(ctx context.Context, name string, fields map[string]any) error

	// Delete removes the named movie. Returns ErrNotFound when nothing
	// matched; the operation is idempotent either way.
	Delete(ctx context.Context, name string) error

	// Search returns movies whose field contains the substring
	// (case-insensitive), sorted by rating descending, at most limit results.
	Search(ctx context.Context, field, substring string, limit int) ([]entities.Movie, error)

	// Get retrieves a single movie by name. Returns ErrNotFound on a miss.
	Get(ctx context.Context, name string) (*entities.Movie, error)

	// ReplaceAll discards existing contents and loads the given movies.
	ReplaceAll(ctx context.Context, movies []entities.Movie) error

	// Close releases the backend session.
	Close(ctx context.Context) error
}
