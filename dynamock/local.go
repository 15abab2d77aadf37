package dynamock

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nisimpson/dynaroute"
)

// LocalDynamoDB represents a connection to a local DynamoDB instance.
type LocalDynamoDB struct {
	Client   *dynamodb.Client
	Endpoint string
	Port     int
}

// NewLocalClient creates a DynamoDB client configured to connect to a local DynamoDB instance.
// This is useful for integration testing with DynamoDB Local.
//
// Example usage:
//
//	client := dynamock.NewLocalClient(8000)
//	store := dynaroute.NewDynamoStore(client)
func NewLocalClient(port int) *dynamodb.Client {
	cfg := aws.Config{
		Region:      "us-east-1", // DynamoDB Local doesn't care about region
		Credentials: aws.AnonymousCredentials{},
	}
	return NewLocalClientFromConfig(cfg, port)
}

// NewLocalClientFromConfig creates a local DynamoDB client using the provided AWS config.
// This allows for more customization than NewLocalClient.
func NewLocalClientFromConfig(cfg aws.Config, port int) *dynamodb.Client {
	endpoint := fmt.Sprintf("http://localhost:%d", port)

	// Use anonymous credentials for local testing
	cfg.Credentials = aws.AnonymousCredentials{}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
}

// NewLocalDynamoDB creates a LocalDynamoDB instance with the specified port.
// This provides additional utilities beyond just the client.
func NewLocalDynamoDB(port int) *LocalDynamoDB {
	return &LocalDynamoDB{
		Client:   NewLocalClient(port),
		Endpoint: fmt.Sprintf("http://localhost:%d", port),
		Port:     port,
	}
}

// IsAvailable checks if DynamoDB Local is running on the configured port.
func (l *LocalDynamoDB) IsAvailable(ctx context.Context) bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("localhost:%d", l.Port), 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()

	// Try to list tables to verify it's actually DynamoDB
	_, err = l.Client.ListTables(ctx, &dynamodb.ListTablesInput{})
	return err == nil
}

// WaitForAvailable polls until DynamoDB Local answers or timeout elapses.
func (l *LocalDynamoDB) WaitForAvailable(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for !l.IsAvailable(ctx) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("DynamoDB Local not available at %s after %v", l.Endpoint, timeout)
		case <-ticker.C:
		}
	}
	return nil
}

// CollectionTableInput returns the create table request for a domain
// collection: a string hash key on "id" and a global secondary index on the
// domain's secondary attribute, projecting all attributes.
func CollectionTableInput(tableName string, domain dynaroute.Domain) *dynamodb.CreateTableInput {
	throughput := &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(5),
		WriteCapacityUnits: aws.Int64(5),
	}

	return &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(dynaroute.KeyAttribute),
				AttributeType: types.ScalarAttributeTypeS,
			},
			{
				AttributeName: aws.String(domain.SecondaryAttribute),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String(dynaroute.KeyAttribute),
				KeyType:       types.KeyTypeHash,
			},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(domain.IndexName),
				KeySchema: []types.KeySchemaElement{
					{
						AttributeName: aws.String(domain.SecondaryAttribute),
						KeyType:       types.KeyTypeHash,
					},
				},
				Projection: &types.Projection{
					ProjectionType: types.ProjectionTypeAll,
				},
				ProvisionedThroughput: throughput,
			},
		},
		ProvisionedThroughput: throughput,
	}
}

// CreateCollectionTable creates a table for the domain's collection and
// waits for it to become active.
func (l *LocalDynamoDB) CreateCollectionTable(ctx context.Context, tableName string, domain dynaroute.Domain) error {
	_, err := l.Client.CreateTable(ctx, CollectionTableInput(tableName, domain))
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return l.WaitForTableActive(ctx, tableName, 30*time.Second)
}

// WaitForTableActive blocks until the table exists and is active.
func (l *LocalDynamoDB) WaitForTableActive(ctx context.Context, tableName string, timeout time.Duration) error {
	waiter := dynamodb.NewTableExistsWaiter(l.Client, func(o *dynamodb.TableExistsWaiterOptions) {
		o.MinDelay = 100 * time.Millisecond
		o.MaxDelay = time.Second
	})
	input := &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}
	if err := waiter.Wait(ctx, input, timeout); err != nil {
		return fmt.Errorf("table %s did not become active: %w", tableName, err)
	}
	return nil
}

// DeleteTable deletes a table and waits for it to be fully deleted.
func (l *LocalDynamoDB) DeleteTable(ctx context.Context, tableName string) error {
	_, err := l.Client.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete table %s: %w", tableName, err)
	}

	return l.WaitForTableDeleted(ctx, tableName, 30*time.Second)
}

// WaitForTableDeleted blocks until DescribeTable reports the table missing.
func (l *LocalDynamoDB) WaitForTableDeleted(ctx context.Context, tableName string, timeout time.Duration) error {
	waiter := dynamodb.NewTableNotExistsWaiter(l.Client, func(o *dynamodb.TableNotExistsWaiterOptions) {
		o.MinDelay = 100 * time.Millisecond
		o.MaxDelay = time.Second
	})
	input := &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}
	if err := waiter.Wait(ctx, input, timeout); err != nil {
		return fmt.Errorf("table %s was not deleted: %w", tableName, err)
	}
	return nil
}

// QueryIndex returns the records whose secondary attribute equals value,
// read through the domain's secondary index. Index reads are eventually
// consistent; callers polling for a fresh write should retry.
func (l *LocalDynamoDB) QueryIndex(ctx context.Context, tableName string, domain dynaroute.Domain, value string) ([]dynaroute.Record, error) {
	keyCondition := expression.Key(domain.SecondaryAttribute).Equal(expression.Value(value))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCondition).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	output, err := l.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(tableName),
		IndexName:                 aws.String(domain.IndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query index %s: %w", domain.IndexName, err)
	}

	return dynaroute.UnmarshalRecords(output.Items)
}

// ListTables returns all table names in the local DynamoDB instance.
func (l *LocalDynamoDB) ListTables(ctx context.Context) ([]string, error) {
	output, err := l.Client.ListTables(ctx, &dynamodb.ListTablesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	return output.TableNames, nil
}

// Cleanup deletes all tables in the local DynamoDB instance.
func (l *LocalDynamoDB) Cleanup(ctx context.Context) error {
	tables, err := l.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables for cleanup: %w", err)
	}

	for _, tableName := range tables {
		if err := l.DeleteTable(ctx, tableName); err != nil {
			return fmt.Errorf("failed to delete table %s during cleanup: %w", tableName, err)
		}
	}

	return nil
}

// DefaultLocalPort is the default port for DynamoDB Local.
const DefaultLocalPort = 8000

// NewDefaultLocalDynamoDB creates a LocalDynamoDB instance using the default port (8000).
func NewDefaultLocalDynamoDB() *LocalDynamoDB {
	return NewLocalDynamoDB(DefaultLocalPort)
}
