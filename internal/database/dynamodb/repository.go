// Package dynamodb implements the key-value-backend MovieStore on a DynamoDB
// table partitioned by the movie name.
//
//	var _ encyclopedia.MovieStore = (*Repository)(nil)
//
// DynamoDB cannot run case-insensitive substring filters server-side (its
// contains() is case-sensitive and matches whole elements on lists), so
// searches scan every page and filter, rank and truncate client-side. The
// tables this tool manages are small enough for that to stay cheap.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mrlokans/moviepedia/internal/encyclopedia"
	"github.com/mrlokans/moviepedia/internal/entities"
)

// batchWriteLimit is DynamoDB's maximum number of items per BatchWriteItem.
const batchWriteLimit = 25

// Client is the subset of the DynamoDB API the repository uses. Tests
// substitute a stub; production passes *awsdynamodb.Client.
type Client interface {
	DescribeTable(ctx context.Context, params *awsdynamodb.DescribeTableInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *awsdynamodb.CreateTableInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.CreateTableOutput, error)
	PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *awsdynamodb.UpdateItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *awsdynamodb.DeleteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.DeleteItemOutput, error)
	GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *awsdynamodb.ScanInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *awsdynamodb.BatchWriteItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.BatchWriteItemOutput, error)
}

// movieItem is the on-table representation: the movie plus the denormalized
// primary_genre attribute used as a secondary index key.
type movieItem struct {
	entities.Movie
	PrimaryGenre string `dynamodbav:"primary_genre"`
}

// Repository handles all movie operations against one DynamoDB table.
type Repository struct {
	client Client
	table  string
}

var _ encyclopedia.MovieStore = (*Repository)(nil)

// NewRepository verifies the table exists, creating it when absent, and
// returns a ready repository. Bootstrap failures wrap ErrBackendUnavailable.
func NewRepository(ctx context.Context, client Client, table string) (*Repository, error) {
	r := &Repository{client: client, table: table}
	if err := r.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", encyclopedia.ErrBackendUnavailable, err)
	}
	return r, nil
}

// Insert writes one item, silently overwriting any existing item with the
// same name (partition-key semantics).
func (r *Repository) Insert(ctx context.Context, movie entities.Movie) error {
	item, err := marshalMovie(movie)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	return err
}

// Update applies the field set through the expression builder, which aliases
// every attribute name so reserved words (year, name, ...) cannot collide.
// The update is conditioned on the item existing; a failed condition maps to
// ErrNotFound instead of DynamoDB's default create-on-update behavior.
func (r *Repository) Update(ctx context.Context, name string, fields map[string]any) error {
	update := expression.UpdateBuilder{}
	for field, value := range fields {
		update = update.Set(expression.Name(field), expression.Value(value))
	}
	// Keep the denormalized index field in sync when genres change.
	if raw, ok := fields["genre"]; ok {
		if genres, ok := raw.([]string); ok {
			update = update.Set(expression.Name("primary_genre"),
				expression.Value(entities.Movie{Genre: genres}.PrimaryGenre()))
		}
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("name"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build update expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &awsdynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       nameKey(name),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return encyclopedia.ErrNotFound
	}
	return err
}

// Delete removes the item unconditionally but requests the old values so a
// miss can be reported as ErrNotFound.
func (r *Repository) Delete(ctx context.Context, name string) error {
	out, err := r.client.DeleteItem(ctx, &awsdynamodb.DeleteItemInput{
		TableName:    aws.String(r.table),
		Key:          nameKey(name),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return err
	}
	if len(out.Attributes) == 0 {
		return encyclopedia.ErrNotFound
	}
	return nil
}

// Search scans the whole table page by page, then filters, ranks by rating
// descending and truncates client-side.
func (r *Repository) Search(ctx context.Context, field, substring string, limit int) ([]entities.Movie, error) {
	all, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	var matches []entities.Movie
	for _, movie := range all {
		if fieldContains(movie, field, substring) {
			matches = append(matches, movie)
		}
	}
	return rankByRating(matches, limit), nil
}

// Get performs an exact partition-key lookup.
func (r *Repository) Get(ctx context.Context, name string) (*entities.Movie, error) {
	out, err := r.client.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       nameKey(name),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, encyclopedia.ErrNotFound
	}

	var item movieItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return &item.Movie, nil
}

// ReplaceAll clears the table and batch-writes the movies in 25-item chunks,
// resubmitting any unprocessed items until the batch drains.
func (r *Repository) ReplaceAll(ctx context.Context, movies []entities.Movie) error {
	existing, err := r.scanAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan existing items: %w", err)
	}

	var requests []types.WriteRequest
	for _, movie := range existing {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: nameKey(movie.Name)},
		})
	}
	for _, movie := range movies {
		item, err := marshalMovie(movie)
		if err != nil {
			return err
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	return r.batchWrite(ctx, requests)
}

// Close is a no-op: the AWS client holds no session state needing teardown.
func (r *Repository) Close(ctx context.Context) error {
	return nil
}

func (r *Repository) scanAll(ctx context.Context) ([]entities.Movie, error) {
	var movies []entities.Movie
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &awsdynamodb.ScanInput{
			TableName:         aws.String(r.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}

		var items []movieItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scan page: %w", err)
		}
		for _, item := range items {
			movies = append(movies, item.Movie)
		}

		if out.LastEvaluatedKey == nil {
			return movies, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *Repository) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(requests) {
			end = len(requests)
		}

		pending := map[string][]types.WriteRequest{r.table: requests[start:end]}
		for len(pending[r.table]) > 0 {
			out, err := r.client.BatchWriteItem(ctx, &awsdynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return fmt.Errorf("batch write failed: %w", err)
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

func marshalMovie(movie entities.Movie) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(movieItem{
		Movie:        movie,
		PrimaryGenre: movie.PrimaryGenre(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal movie %q: %w", movie.Name, err)
	}
	return item, nil
}

func nameKey(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"name": &types.AttributeValueMemberS{Value: name},
	}
}

// fieldContains reports whether the movie's field contains the substring,
// case-insensitively. List fields match when any element contains it.
func fieldContains(movie entities.Movie, field, substring string) bool {
	needle := strings.ToLower(substring)
	contains := func(value string) bool {
		return strings.Contains(strings.ToLower(value), needle)
	}
	anyContains := func(values []string) bool {
		for _, value := range values {
			if contains(value) {
				return true
			}
		}
		return false
	}

	switch field {
	case "name":
		return contains(movie.Name)
	case "year":
		return contains(movie.Year)
	case "certificate":
		return contains(movie.Certificate)
	case "genre":
		return anyContains(movie.Genre)
	case "casts":
		return anyContains(movie.Casts)
	case "directors":
		return anyContains(movie.Directors)
	default:
		return false
	}
}

// rankByRating sorts by rating descending (stable, so ties keep scan order)
// and truncates to limit.
func rankByRating(movies []entities.Movie, limit int) []entities.Movie {
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].Rating > movies[j].Rating
	})
	if limit > 0 && len(movies) > limit {
		movies = movies[:limit]
	}
	return movies
}
