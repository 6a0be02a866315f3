// Package mongodb implements the document-backend MovieStore on MongoDB.
//
//	var _ encyclopedia.MovieStore = (*Repository)(nil)
//
// Movies live in a single collection keyed by the name field. Searches use
// case-insensitive regex matching with native sort and limit.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mrlokans/moviepedia/internal/encyclopedia"
	"github.com/mrlokans/moviepedia/internal/entities"
)

// Repository handles all movie operations against one MongoDB collection.
type Repository struct {
	client *mongo.Client
	movies *mongo.Collection
}

var _ encyclopedia.MovieStore = (*Repository)(nil)

// NewRepository connects to MongoDB and verifies the server is reachable.
// Failure to connect or ping wraps ErrBackendUnavailable.
func NewRepository(ctx context.Context, uri, database, collection string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to MongoDB: %v", encyclopedia.ErrBackendUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("%w: pinging MongoDB: %v", encyclopedia.ErrBackendUnavailable, err)
	}

	return &Repository{
		client: client,
		movies: client.Database(database).Collection(collection),
	}, nil
}

// Insert writes one movie document. Duplicate names are permitted, matching
// the collection's lack of a unique index.
func (r *Repository) Insert(ctx context.Context, movie entities.Movie) error {
	_, err := r.movies.InsertOne(ctx, movie)
	return err
}

// Update applies a $set with the given fields to the first document matching
// the exact name. Returns ErrNotFound when nothing matched.
func (r *Repository) Update(ctx context.Context, name string, fields map[string]any) error {
	result, err := r.movies.UpdateOne(ctx,
		bson.D{{Key: "name", Value: name}},
		bson.D{{Key: "$set", Value: updateDocument(fields)}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return encyclopedia.ErrNotFound
	}
	return nil
}

// Delete removes at most one document by exact name.
func (r *Repository) Delete(ctx context.Context, name string) error {
	result, err := r.movies.DeleteOne(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return encyclopedia.ErrNotFound
	}
	return nil
}

// Search runs a case-insensitive substring regex over the field, sorted by
// rating descending and limited server-side.
func (r *Repository) Search(ctx context.Context, field, substring string, limit int) ([]entities.Movie, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.D{{Key: "_id", Value: 0}})

	cursor, err := r.movies.Find(ctx, substringFilter(field, substring), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movies []entities.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// Get returns the first case-insensitive match on the name.
func (r *Repository) Get(ctx context.Context, name string) (*entities.Movie, error) {
	opts := options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 0}})

	var movie entities.Movie
	err := r.movies.FindOne(ctx, substringFilter("name", name), opts).Decode(&movie)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, encyclopedia.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// ReplaceAll drops the collection and loads the movies in one batch insert.
func (r *Repository) ReplaceAll(ctx context.Context, movies []entities.Movie) error {
	if err := r.movies.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}

	documents := make([]any, len(movies))
	for i, movie := range movies {
		documents[i] = movie
	}
	if _, err := r.movies.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("failed to insert movies: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// substringFilter builds a case-insensitive substring match. The value is
// regex-quoted so user input cannot change the query's meaning.
func substringFilter(field, value string) bson.D {
	return bson.D{{Key: field, Value: bson.D{
		{Key: "$regex", Value: regexp.QuoteMeta(value)},
		{Key: "$options", Value: "i"},
	}}}
}

// updateDocument converts the field map into a bson document.
func updateDocument(fields map[string]any) bson.M {
	doc := make(bson.M, len(fields))
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}
