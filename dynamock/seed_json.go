package dynamock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nisimpson/dynaroute"
)

// JSONAPIDocument represents the root structure of a seed document: an array
// of primary resources in JSON:API format.
type JSONAPIDocument []JSONAPIResource

// JSONAPIResource represents a single resource in JSON:API format. The type
// names the domain the resource belongs to and the id becomes the record key.
type JSONAPIResource struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Record converts the resource into a record carrying its attributes and id.
// An "id" attribute is overwritten by the resource id.
func (r JSONAPIResource) Record() dynaroute.Record {
	rec := make(dynaroute.Record, len(r.Attributes)+1)
	for k, v := range r.Attributes {
		rec[k] = v
	}
	rec[dynaroute.KeyAttribute] = r.ID
	return rec
}

// SeedFromJSON reads a JSON:API formatted document of resources and persists
// them to the collection. Resources whose type does not name a known domain,
// or that lack an id, are rejected before anything is written.
// Returns the number of records saved and any errors generated.
func (s *SeedTestData) SeedFromJSON(ctx context.Context, r io.Reader) (int, error) {
	var document JSONAPIDocument
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&document); err != nil {
		return 0, fmt.Errorf("failed to parse JSON document: %w", err)
	}

	records := make([]dynaroute.Record, 0, len(document))
	for i, resource := range document {
		if err := validateResource(resource); err != nil {
			return 0, fmt.Errorf("failed to convert resource at index %d: %w", i, err)
		}
		records = append(records, resource.Record())
	}

	count := 0
	for _, rec := range records {
		if err := s.SeedRecord(ctx, rec); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func validateResource(resource JSONAPIResource) error {
	if resource.Type == "" {
		return fmt.Errorf("resource missing required 'type' field")
	}
	if _, ok := dynaroute.LookupDomain(resource.Type); !ok {
		return fmt.Errorf("resource type %q is not a known domain", resource.Type)
	}
	if resource.ID == "" {
		return fmt.Errorf("resource missing required 'id' field")
	}
	return nil
}
