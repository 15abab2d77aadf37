package dynamock

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/nisimpson/dynaroute"
)

type DynamoDBAPICall[T, U any] func(context.Context, *T, ...func(*dynamodb.Options)) (*U, error)

// MockClient is a simple expectation-based mock for DynamoDB operations.
// Users can set expectations for specific operations without needing integration.
type MockClient struct {
	PutFunc    DynamoDBAPICall[dynamodb.PutItemInput, dynamodb.PutItemOutput]
	GetFunc    DynamoDBAPICall[dynamodb.GetItemInput, dynamodb.GetItemOutput]
	DeleteFunc DynamoDBAPICall[dynamodb.DeleteItemInput, dynamodb.DeleteItemOutput]
	ScanFunc   DynamoDBAPICall[dynamodb.ScanInput, dynamodb.ScanOutput]
}

// Ensure MockClient implements DynamoDBClient
var _ dynaroute.DynamoDBClient = (*MockClient)(nil)

// NewMockClient creates a new mock DynamoDB client whose operations fail the
// test unless an expectation is set.
func NewMockClient(t *testing.T) *MockClient {
	return &MockClient{
		PutFunc:    defaultFunc[dynamodb.PutItemInput, dynamodb.PutItemOutput](t, "PutItem"),
		GetFunc:    defaultFunc[dynamodb.GetItemInput, dynamodb.GetItemOutput](t, "GetItem"),
		DeleteFunc: defaultFunc[dynamodb.DeleteItemInput, dynamodb.DeleteItemOutput](t, "DeleteItem"),
		ScanFunc:   defaultFunc[dynamodb.ScanInput, dynamodb.ScanOutput](t, "Scan"),
	}
}

func defaultFunc[T, U any](t *testing.T, name string) DynamoDBAPICall[T, U] {
	return func(ctx context.Context, params *T, optFns ...func(*dynamodb.Options)) (*U, error) {
		t.Helper()
		t.Fatalf("unexpected call to %s", name)
		return nil, nil
	}
}

// PutItem stores an item in the mock table.
func (m *MockClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return m.PutFunc(ctx, params, optFns...)
}

// GetItem retrieves an item from the mock table.
func (m *MockClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetFunc(ctx, params, optFns...)
}

// DeleteItem removes an item from the mock table.
func (m *MockClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return m.DeleteFunc(ctx, params, optFns...)
}

// Scan performs a scan operation.
func (m *MockClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return m.ScanFunc(ctx, params, optFns...)
}
