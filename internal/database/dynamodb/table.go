package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// tableReadyTimeout bounds the wait for a freshly created table to become
// active. Table creation normally completes within seconds.
const tableReadyTimeout = 2 * time.Minute

// ensureTable describes the table and creates it when absent: partition key
// "name" (string), provisioned throughput 5 read / 5 write units. Blocks
// until the new table reports ready.
func (r *Repository) ensureTable(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &awsdynamodb.DescribeTableInput{
		TableName: aws.String(r.table),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to describe table %q: %w", r.table, err)
	}

	log.Printf("Table %q does not exist. Creating table...", r.table)

	_, err = r.client.CreateTable(ctx, &awsdynamodb.CreateTableInput{
		TableName: aws.String(r.table),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("name"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("name"), AttributeType: types.ScalarAttributeTypeS},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create table %q: %w", r.table, err)
	}

	waiter := awsdynamodb.NewTableExistsWaiter(r.client)
	if err := waiter.Wait(ctx, &awsdynamodb.DescribeTableInput{
		TableName: aws.String(r.table),
	}, tableReadyTimeout); err != nil {
		return fmt.Errorf("table %q did not become ready: %w", r.table, err)
	}

	log.Printf("Table %q created successfully.", r.table)
	return nil
}
