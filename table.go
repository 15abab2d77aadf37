package dynaroute

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Table contains the DynamoDB configuration of a single collection.
type Table struct {
	TableName    string // Main table name
	KeyAttribute string // Hash key attribute name. Default is "id".
}

// NewTable creates a new Table with default configuration.
func NewTable(tableName string) *Table {
	return &Table{
		TableName:    tableName,
		KeyAttribute: KeyAttribute,
	}
}

func (t *Table) key(id string) Item {
	return Item{
		t.KeyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

// MarshalPut marshals the record into a put item request. Attributes are
// stored flat so secondary index attributes sit at the top level of the item.
func (t *Table) MarshalPut(rec Record) (*dynamodb.PutItemInput, error) {
	if rec.ID() == "" {
		return nil, fmt.Errorf("failed to marshal item: %w: %s", ErrMissingArgument, t.KeyAttribute)
	}

	item, err := attributevalue.MarshalMap(map[string]any(rec))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}

	return &dynamodb.PutItemInput{
		TableName: aws.String(t.TableName),
		Item:      item,
	}, nil
}

// MarshalGet marshals the identifier into a get item request.
func (t *Table) MarshalGet(id string) (*dynamodb.GetItemInput, error) {
	if id == "" {
		return nil, fmt.Errorf("failed to marshal key: %w: %s", ErrMissingArgument, t.KeyAttribute)
	}
	return &dynamodb.GetItemInput{
		TableName: aws.String(t.TableName),
		Key:       t.key(id),
	}, nil
}

// MarshalDelete marshals the identifier into a delete item request.
func (t *Table) MarshalDelete(id string) (*dynamodb.DeleteItemInput, error) {
	if id == "" {
		return nil, fmt.Errorf("failed to marshal key: %w: %s", ErrMissingArgument, t.KeyAttribute)
	}
	return &dynamodb.DeleteItemInput{
		TableName: aws.String(t.TableName),
		Key:       t.key(id),
	}, nil
}

// MarshalScan marshals a full table scan request.
func (t *Table) MarshalScan() *dynamodb.ScanInput {
	return &dynamodb.ScanInput{
		TableName: aws.String(t.TableName),
	}
}

// UnmarshalRecord converts a DynamoDB item into a Record.
func UnmarshalRecord(item Item) (Record, error) {
	var rec Record
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// UnmarshalRecords converts scanned items into records.
func UnmarshalRecords(items []Item) ([]Record, error) {
	records := make([]Record, 0, len(items))
	for i, item := range items {
		rec, err := UnmarshalRecord(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal item %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DynamoStore implements Store on DynamoDB, mapping each collection to a
// table of the same name.
type DynamoStore struct {
	client DynamoDBClient
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore returns a Store backed by the given DynamoDB client.
func NewDynamoStore(client DynamoDBClient) *DynamoStore {
	return &DynamoStore{client: client}
}

// Get implements Store.
func (s *DynamoStore) Get(ctx context.Context, collection, key string) (Record, error) {
	input, err := NewTable(collection).MarshalGet(key)
	if err != nil {
		return nil, err
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, &StoreError{Op: StoreGet, Collection: collection, Key: key, Err: err}
	}

	if result.Item == nil {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}

	rec, err := UnmarshalRecord(result.Item)
	if err != nil {
		return nil, &StoreError{Op: StoreGet, Collection: collection, Key: key, Err: err}
	}
	return rec, nil
}

// Put implements Store.
func (s *DynamoStore) Put(ctx context.Context, collection string, rec Record) error {
	input, err := NewTable(collection).MarshalPut(rec)
	if err != nil {
		if errors.Is(err, ErrMissingArgument) {
			return err
		}
		return &StoreError{Op: StorePut, Collection: collection, Key: rec.ID(), Err: err}
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		return &StoreError{Op: StorePut, Collection: collection, Key: rec.ID(), Err: err}
	}
	return nil
}

// Scan implements Store. Every scan page is read; the result is never
// truncated at the DynamoDB 1MB page boundary.
func (s *DynamoStore) Scan(ctx context.Context, collection string) ([]Record, error) {
	paginator := dynamodb.NewScanPaginator(s.client, NewTable(collection).MarshalScan())

	var items []Item
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &StoreError{Op: StoreScan, Collection: collection, Err: err}
		}
		items = append(items, page.Items...)
	}

	records, err := UnmarshalRecords(items)
	if err != nil {
		return nil, &StoreError{Op: StoreScan, Collection: collection, Err: err}
	}
	return records, nil
}

// Delete implements Store.
func (s *DynamoStore) Delete(ctx context.Context, collection, key string) error {
	input, err := NewTable(collection).MarshalDelete(key)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteItem(ctx, input); err != nil {
		return &StoreError{Op: StoreDelete, Collection: collection, Key: key, Err: err}
	}
	return nil
}
