package dynaroute

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Mock DynamoDB client for testing
type mockDynamoDBClient struct {
	items   map[string]map[string]Item
	pages   int   // items per scan page, zero for one page
	failure error // returned by every call when set
}

func newMockDynamoDBClient() *mockDynamoDBClient {
	return &mockDynamoDBClient{
		items: make(map[string]map[string]Item),
	}
}

func (m *mockDynamoDBClient) keyOf(item Item) string {
	return item["id"].(*types.AttributeValueMemberS).Value
}

func (m *mockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	table := aws.ToString(params.TableName)
	if m.items[table] == nil {
		m.items[table] = make(map[string]Item)
	}
	m.items[table][m.keyOf(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	if item, exists := m.items[aws.ToString(params.TableName)][m.keyOf(params.Key)]; exists {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	delete(m.items[aws.ToString(params.TableName)], m.keyOf(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDynamoDBClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.failure != nil {
		return nil, m.failure
	}

	table := m.items[aws.ToString(params.TableName)]
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if params.ExclusiveStartKey != nil {
		start = sort.SearchStrings(keys, m.keyOf(params.ExclusiveStartKey)) + 1
	}

	end := len(keys)
	if m.pages > 0 && start+m.pages < end {
		end = start + m.pages
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, table[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = table[keys[end-1]]
	}
	return out, nil
}

// Tests for table operations

func TestTableMarshalPut(t *testing.T) {
	table := NewTable("dealers")

	input, err := table.MarshalPut(Record{
		"id":      "D1",
		"brand":   "Acme",
		"lots":    3,
		"address": map[string]any{"city": "Springfield"},
	})
	if err != nil {
		t.Fatalf("MarshalPut failed: %v", err)
	}

	if aws.ToString(input.TableName) != "dealers" {
		t.Errorf("expected table name dealers, got %s", aws.ToString(input.TableName))
	}

	if id, ok := input.Item["id"].(*types.AttributeValueMemberS); !ok || id.Value != "D1" {
		t.Errorf("expected id D1, got %v", input.Item["id"])
	}

	// secondary index attributes must be top level
	if brand, ok := input.Item["brand"].(*types.AttributeValueMemberS); !ok || brand.Value != "Acme" {
		t.Errorf("expected brand Acme, got %v", input.Item["brand"])
	}

	if lots, ok := input.Item["lots"].(*types.AttributeValueMemberN); !ok || lots.Value != "3" {
		t.Errorf("expected lots 3, got %v", input.Item["lots"])
	}

	if _, ok := input.Item["address"].(*types.AttributeValueMemberM); !ok {
		t.Errorf("expected address map, got %T", input.Item["address"])
	}
}

func TestTableMarshalPut_MissingID(t *testing.T) {
	_, err := NewTable("dealers").MarshalPut(Record{"brand": "Acme"})
	if !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}

func TestTableMarshalKeys(t *testing.T) {
	table := NewTable("products")

	get, err := table.MarshalGet("P1")
	if err != nil {
		t.Fatalf("MarshalGet failed: %v", err)
	}
	if key := get.Key["id"].(*types.AttributeValueMemberS).Value; key != "P1" {
		t.Errorf("expected key P1, got %s", key)
	}

	del, err := table.MarshalDelete("P1")
	if err != nil {
		t.Fatalf("MarshalDelete failed: %v", err)
	}
	if len(del.Key) != 1 {
		t.Errorf("expected single key attribute, got %v", del.Key)
	}

	if _, err := table.MarshalGet(""); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument for empty get key, got %v", err)
	}
	if _, err := table.MarshalDelete(""); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument for empty delete key, got %v", err)
	}

	scan := table.MarshalScan()
	if aws.ToString(scan.TableName) != "products" || scan.FilterExpression != nil {
		t.Errorf("expected unfiltered scan of products, got %+v", scan)
	}
}

func TestTableCustomKeyAttribute(t *testing.T) {
	table := NewTable("legacy")
	table.KeyAttribute = "pk"

	get, err := table.MarshalGet("X")
	if err != nil {
		t.Fatalf("MarshalGet failed: %v", err)
	}
	if _, ok := get.Key["pk"]; !ok {
		t.Errorf("expected pk key attribute, got %v", get.Key)
	}
}

func TestUnmarshalRecord(t *testing.T) {
	rec, err := UnmarshalRecord(Item{
		"id":    &types.AttributeValueMemberS{Value: "P1"},
		"price": &types.AttributeValueMemberN{Value: "9.5"},
		"tags": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "a"},
		}},
		"active": &types.AttributeValueMemberBOOL{Value: true},
	})
	if err != nil {
		t.Fatalf("UnmarshalRecord failed: %v", err)
	}

	want := Record{"id": "P1", "price": 9.5, "tags": []any{"a"}, "active": true}
	if !reflect.DeepEqual(rec, want) {
		t.Errorf("expected %v, got %v", want, rec)
	}
}

func TestDynamoStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewDynamoStore(newMockDynamoDBClient())

	in := Record{"id": "D1", "brand": "Acme", "lots": 3.0, "open": true}
	if err := store.Put(ctx, "dealers", in); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	out, err := store.Get(ctx, "dealers", "D1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("expected %v, got %v", in, out)
	}

	// put replaces the whole record
	if err := store.Put(ctx, "dealers", Record{"id": "D1", "brand": "Globex"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	out, _ = store.Get(ctx, "dealers", "D1")
	if _, ok := out["lots"]; ok {
		t.Errorf("expected replaced record without lots, got %v", out)
	}
}

func TestDynamoStore_GetMissing(t *testing.T) {
	_, err := NewDynamoStore(newMockDynamoDBClient()).Get(context.Background(), "dealers", "nope")

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if IsStoreError(err) {
		t.Error("expected a miss to not be a store error")
	}
}

func TestDynamoStore_ScanAllPages(t *testing.T) {
	ctx := context.Background()
	client := newMockDynamoDBClient()
	client.pages = 2
	store := NewDynamoStore(client)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		if err := store.Put(ctx, "products", Record{"id": id}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	records, err := store.Scan(ctx, "products")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("expected 5 records, got %d", len(records))
	}
}

func TestDynamoStore_ScanEmpty(t *testing.T) {
	records, err := NewDynamoStore(newMockDynamoDBClient()).Scan(context.Background(), "products")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestDynamoStore_Failures(t *testing.T) {
	ctx := context.Background()
	client := newMockDynamoDBClient()
	client.failure = errors.New("service unavailable")
	store := NewDynamoStore(client)

	tests := []struct {
		name string
		op   string
		call func() error
	}{
		{"get", StoreGet, func() error { _, err := store.Get(ctx, "dealers", "D1"); return err }},
		{"put", StorePut, func() error { return store.Put(ctx, "dealers", Record{"id": "D1"}) }},
		{"scan", StoreScan, func() error { _, err := store.Scan(ctx, "dealers"); return err }},
		{"delete", StoreDelete, func() error { return store.Delete(ctx, "dealers", "D1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()

			var storeErr *StoreError
			if !errors.As(err, &storeErr) {
				t.Fatalf("expected *StoreError, got %v", err)
			}
			if storeErr.Op != tt.op {
				t.Errorf("expected op %s, got %s", tt.op, storeErr.Op)
			}
			if storeErr.Collection != "dealers" {
				t.Errorf("expected collection dealers, got %s", storeErr.Collection)
			}
			if errors.Is(err, ErrNotFound) {
				t.Error("a backend failure must not match ErrNotFound")
			}
			if !errors.Is(err, client.failure) {
				t.Error("expected the underlying cause to be wrapped")
			}
		})
	}
}
