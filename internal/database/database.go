// Package database selects and constructs the backing store. The two
// implementations live in subpackages (mongodb, dynamodb) and share the
// encyclopedia.MovieStore contract.
package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/mrlokans/moviepedia/internal/config"
	"github.com/mrlokans/moviepedia/internal/database/dynamodb"
	"github.com/mrlokans/moviepedia/internal/database/mongodb"
	"github.com/mrlokans/moviepedia/internal/encyclopedia"
)

// Accepted backend names.
const (
	BackendMongoDB  = "mongodb"
	BackendDynamoDB = "dynamodb"
)

// NewStore builds the store for the chosen backend. Credentials and region
// for DynamoDB come from the standard AWS environment; the endpoint override
// exists for local table emulators.
func NewStore(ctx context.Context, backend string, cfg *config.Config) (encyclopedia.MovieStore, error) {
	switch backend {
	case BackendMongoDB:
		return mongodb.NewRepository(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)

	case BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Dynamo.Region))
		if err != nil {
			return nil, fmt.Errorf("%w: loading AWS configuration: %v", encyclopedia.ErrBackendUnavailable, err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			if cfg.Dynamo.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Dynamo.Endpoint)
			}
		})
		return dynamodb.NewRepository(ctx, client, cfg.Dynamo.Table)

	default:
		return nil, fmt.Errorf("unknown backend %q (expected %q or %q)", backend, BackendMongoDB, BackendDynamoDB)
	}
}
