package dynamock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nisimpson/dynaroute"
)

// FakeClient is a stateful in-memory implementation of the DynamoDB calls
// used by dynaroute. Items are keyed by table name and the string value of
// the key attribute. Scans return items in key order, PageSize items at a time.
type FakeClient struct {
	KeyAttribute string // Hash key attribute. Default is "id".
	PageSize     int    // Maximum items per scan page. Zero means unlimited.

	mu     sync.RWMutex
	tables map[string]map[string]dynaroute.Item
	calls  map[string]int
}

var _ dynaroute.DynamoDBClient = (*FakeClient)(nil)

// NewFakeClient creates an empty FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		KeyAttribute: dynaroute.KeyAttribute,
		tables:       make(map[string]map[string]dynaroute.Item),
		calls:        make(map[string]int),
	}
}

// Calls returns how many times the named operation was invoked.
func (f *FakeClient) Calls(op string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[op]
}

// TotalCalls returns the number of operations invoked on the client.
func (f *FakeClient) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// Items returns a snapshot of the items in a table.
func (f *FakeClient) Items(table string) []dynaroute.Item {
	f.mu.RLock()
	defer f.mu.RUnlock()
	items := make([]dynaroute.Item, 0, len(f.tables[table]))
	for _, key := range f.sortedKeys(table) {
		items = append(items, f.tables[table][key])
	}
	return items
}

func (f *FakeClient) keyOf(item dynaroute.Item) (string, error) {
	attr, ok := item[f.KeyAttribute].(*types.AttributeValueMemberS)
	if !ok || attr.Value == "" {
		return "", fmt.Errorf("ValidationException: missing key attribute %s", f.KeyAttribute)
	}
	return attr.Value, nil
}

func (f *FakeClient) sortedKeys(table string) []string {
	keys := make([]string, 0, len(f.tables[table]))
	for k := range f.tables[table] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PutItem stores an item, replacing any item with the same key.
func (f *FakeClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["PutItem"]++

	key, err := f.keyOf(params.Item)
	if err != nil {
		return nil, err
	}

	table := aws.ToString(params.TableName)
	if f.tables[table] == nil {
		f.tables[table] = make(map[string]dynaroute.Item)
	}
	f.tables[table][key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

// GetItem retrieves an item. A missing item yields an output with a nil Item.
func (f *FakeClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetItem"]++

	key, err := f.keyOf(params.Key)
	if err != nil {
		return nil, err
	}

	if item, exists := f.tables[aws.ToString(params.TableName)][key]; exists {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

// DeleteItem removes an item. Deleting a missing item succeeds.
func (f *FakeClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["DeleteItem"]++

	key, err := f.keyOf(params.Key)
	if err != nil {
		return nil, err
	}

	delete(f.tables[aws.ToString(params.TableName)], key)
	return &dynamodb.DeleteItemOutput{}, nil
}

// Scan returns a page of items starting after ExclusiveStartKey.
func (f *FakeClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Scan"]++

	table := aws.ToString(params.TableName)
	keys := f.sortedKeys(table)

	start := 0
	if params.ExclusiveStartKey != nil {
		after, err := f.keyOf(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	limit := f.PageSize
	if params.Limit != nil && (limit == 0 || int(*params.Limit) < limit) {
		limit = int(*params.Limit)
	}

	end := len(keys)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	out := &dynamodb.ScanOutput{Items: make([]dynaroute.Item, 0, end-start)}
	for _, key := range keys[start:end] {
		out.Items = append(out.Items, f.tables[table][key])
	}
	out.Count = int32(len(out.Items))
	out.ScannedCount = out.Count

	if end < len(keys) {
		out.LastEvaluatedKey = dynaroute.Item{
			f.KeyAttribute: &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}
