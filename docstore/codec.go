// Package docstore provides dynaroute.Store implementations for document
// backends other than DynamoDB, and Open, which selects any backend
// (DynamoDB included) by name.
//
// Every backend keeps one document per (collection, id) pair, replaces
// documents whole on Put, and returns deep copies decoded the way JSON would
// decode them, so numbers come back as float64.
package docstore

import (
	"encoding/json"
	"fmt"

	"github.com/nisimpson/dynaroute"
)

func notFound(collection, key string) error {
	return fmt.Errorf("%s/%s: %w", collection, key, dynaroute.ErrNotFound)
}

func storeErr(op, collection, key string, err error) error {
	return &dynaroute.StoreError{Op: op, Collection: collection, Key: key, Err: err}
}

func requireKey(key string) error {
	if key == "" {
		return fmt.Errorf("failed to build key: %w: %s", dynaroute.ErrMissingArgument, dynaroute.KeyAttribute)
	}
	return nil
}

// encode serializes rec, rejecting records without an identifier.
func encode(collection string, rec dynaroute.Record) ([]byte, error) {
	if err := requireKey(rec.ID()); err != nil {
		return nil, err
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, storeErr(dynaroute.StorePut, collection, rec.ID(), fmt.Errorf("failed to marshal record: %w", err))
	}
	return b, nil
}

func decode(raw []byte) (dynaroute.Record, error) {
	var rec dynaroute.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	if rec == nil {
		rec = dynaroute.Record{}
	}
	return rec, nil
}
