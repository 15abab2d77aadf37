// Package dynaroute routes tagged resolver requests to per-domain document
// collections.
package dynaroute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KeyAttribute is the primary key attribute of every collection.
const KeyAttribute = "id"

var (
	// ErrNotFound is returned when no record exists for a key.
	ErrNotFound = errors.New("record not found")
	// ErrMissingArgument is returned when a required operation argument is absent.
	ErrMissingArgument = errors.New("missing argument")
)

// Store operation names reported by StoreError.
const (
	StoreGet    = "get"
	StorePut    = "put"
	StoreScan   = "scan"
	StoreDelete = "delete"
)

// StoreError describes a failed store operation. It is distinct from
// ErrNotFound so callers can tell a missing record from an unavailable backend.
type StoreError struct {
	Op         string // get, put, scan or delete
	Collection string // collection the operation targeted
	Key        string // record key, empty for scans
	Err        error  // underlying cause
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("failed to %s %s/%s: %v", e.Op, e.Collection, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err carries a backend failure.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// Record is a schemaless document. The "id" attribute is its primary key;
// every other attribute is passed through unchanged.
type Record map[string]any

// ID returns the record identifier, or an empty string if it is absent or
// not a string.
func (r Record) ID() string {
	id, _ := r[KeyAttribute].(string)
	return id
}

// String returns the named attribute if it holds a string.
func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

// WithID returns a copy of the record with its identifier set to id.
func (r Record) WithID(id string) Record {
	out := r.Clone()
	if out == nil {
		out = Record{}
	}
	out[KeyAttribute] = id
	return out
}

// Clone returns a deep copy of the record. Values are normalized the way
// JSON decoding would produce them, so numbers become float64.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		// unencodable values (channels, funcs) are not valid record content;
		// fall back to a shallow copy
		out := make(Record, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	var out Record
	_ = json.Unmarshal(b, &out)
	return out
}

// Store is the document store contract consumed by Repository. A collection
// is a named set of records keyed by their "id" attribute.
type Store interface {
	// Get returns the record with the given key, or an error wrapping
	// ErrNotFound if there is none.
	Get(ctx context.Context, collection, key string) (Record, error)
	// Put writes rec, unconditionally replacing any record with the same key.
	Put(ctx context.Context, collection string, rec Record) error
	// Scan returns every record in the collection in no particular order.
	Scan(ctx context.Context, collection string) ([]Record, error)
	// Delete removes the record with the given key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, collection, key string) error
}

// Item is an alias for the dynamodb attribute value map.
type Item = map[string]types.AttributeValue

// DynamoDBClient is the subset of the DynamoDB API used by DynamoStore.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}
