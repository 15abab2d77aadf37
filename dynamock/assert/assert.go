// Package assert provides fluent assertion utilities for testing DynamoDB operations
// and dynaroute records. It makes tests more readable and maintainable by providing
// expressive assertion methods.
//
// # Usage
//
//	import "github.com/nisimpson/dynaroute/dynamock/assert"
//
//	// Assert on DynamoDB items
//	assert.Items(t, fake.Items("dealers")).
//		HasCount(3).
//		ContainsID("D1").
//		HasAttribute("brand", "Acme")
//
//	// Assert on records
//	assert.Records(t, records).
//		HasCount(2).
//		ContainsID("D1")
//
//	// Assert on dispatch results
//	assert.Result(t, router.Dispatch(ctx, env)).
//		HasOperation(dynaroute.OpGet).
//		IsNotFound().
//		PayloadIsNil()
package assert

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nisimpson/dynaroute"
)

// ItemsAssertion provides fluent assertions for DynamoDB items.
type ItemsAssertion struct {
	t     *testing.T
	items []map[string]types.AttributeValue
}

// Items creates a new ItemsAssertion for the given DynamoDB items.
func Items(t *testing.T, items []map[string]types.AttributeValue) *ItemsAssertion {
	return &ItemsAssertion{
		t:     t,
		items: items,
	}
}

// HasCount asserts that the items collection has the expected count.
func (a *ItemsAssertion) HasCount(expected int) *ItemsAssertion {
	a.t.Helper()
	if len(a.items) != expected {
		a.t.Errorf("expected %d items, got %d", expected, len(a.items))
	}
	return a
}

// IsEmpty asserts that the items collection is empty.
func (a *ItemsAssertion) IsEmpty() *ItemsAssertion {
	a.t.Helper()
	return a.HasCount(0)
}

// IsNotEmpty asserts that the items collection is not empty.
func (a *ItemsAssertion) IsNotEmpty() *ItemsAssertion {
	a.t.Helper()
	if len(a.items) == 0 {
		a.t.Error("expected items to not be empty")
	}
	return a
}

// ContainsID asserts that the items contain one keyed by id.
func (a *ItemsAssertion) ContainsID(id string) *ItemsAssertion {
	a.t.Helper()
	for _, item := range a.items {
		if stringAttribute(item, dynaroute.KeyAttribute) == id {
			return a
		}
	}

	a.t.Errorf("expected to find item %s in items", id)
	return a
}

// HasAttribute asserts that at least one item has the specified attribute with the expected value.
func (a *ItemsAssertion) HasAttribute(attributeName, expectedValue string) *ItemsAssertion {
	a.t.Helper()
	for _, item := range a.items {
		if stringAttribute(item, attributeName) == expectedValue {
			return a
		}
	}

	a.t.Errorf("expected to find attribute %s with value %s in items", attributeName, expectedValue)
	return a
}

func stringAttribute(item map[string]types.AttributeValue, name string) string {
	if attr, ok := item[name].(*types.AttributeValueMemberS); ok {
		return attr.Value
	}
	return ""
}

// RecordsAssertion provides fluent assertions for a set of records.
type RecordsAssertion struct {
	t       *testing.T
	records []dynaroute.Record
}

// Records creates a new RecordsAssertion for the given records.
func Records(t *testing.T, records []dynaroute.Record) *RecordsAssertion {
	return &RecordsAssertion{
		t:       t,
		records: records,
	}
}

// HasCount asserts that there are exactly expected records.
func (a *RecordsAssertion) HasCount(expected int) *RecordsAssertion {
	a.t.Helper()
	if len(a.records) != expected {
		a.t.Errorf("expected %d records, got %d", expected, len(a.records))
	}
	return a
}

// IsEmpty asserts that there are no records.
func (a *RecordsAssertion) IsEmpty() *RecordsAssertion {
	a.t.Helper()
	return a.HasCount(0)
}

// ContainsID asserts that a record with the given id is present.
func (a *RecordsAssertion) ContainsID(id string) *RecordsAssertion {
	a.t.Helper()
	if a.find(id) == nil {
		a.t.Errorf("expected to find record %s", id)
	}
	return a
}

// NotContainsID asserts that no record with the given id is present.
func (a *RecordsAssertion) NotContainsID(id string) *RecordsAssertion {
	a.t.Helper()
	if a.find(id) != nil {
		a.t.Errorf("expected record %s to be absent", id)
	}
	return a
}

// ContainsRecord asserts that a record deep-equal to expected is present.
func (a *RecordsAssertion) ContainsRecord(expected dynaroute.Record) *RecordsAssertion {
	a.t.Helper()
	want := expected.Clone()
	for _, rec := range a.records {
		if reflect.DeepEqual(rec, want) {
			return a
		}
	}
	a.t.Errorf("expected to find record %v", expected)
	return a
}

func (a *RecordsAssertion) find(id string) dynaroute.Record {
	for _, rec := range a.records {
		if rec.ID() == id {
			return rec
		}
	}
	return nil
}

// RecordAssertion provides fluent assertions for a single record.
type RecordAssertion struct {
	t   *testing.T
	rec dynaroute.Record
}

// Record creates a new RecordAssertion for the given record.
func Record(t *testing.T, rec dynaroute.Record) *RecordAssertion {
	return &RecordAssertion{
		t:   t,
		rec: rec,
	}
}

// IsPresent asserts that the record is not nil.
func (a *RecordAssertion) IsPresent() *RecordAssertion {
	a.t.Helper()
	if a.rec == nil {
		a.t.Error("expected a record, got nil")
	}
	return a
}

// HasID asserts the record identifier.
func (a *RecordAssertion) HasID(expected string) *RecordAssertion {
	a.t.Helper()
	if got := a.rec.ID(); got != expected {
		a.t.Errorf("expected id %s, got %s", expected, got)
	}
	return a
}

// HasGeneratedID asserts that the record carries a non-empty identifier.
func (a *RecordAssertion) HasGeneratedID() *RecordAssertion {
	a.t.Helper()
	if a.rec.ID() == "" {
		a.t.Error("expected record to have an id")
	}
	return a
}

// HasAttribute asserts that the named attribute equals expected. Numeric
// expectations are compared as float64.
func (a *RecordAssertion) HasAttribute(name string, expected any) *RecordAssertion {
	a.t.Helper()
	got, ok := a.rec[name]
	if !ok {
		a.t.Errorf("record missing attribute %s", name)
		return a
	}
	if want := normalize(expected); !reflect.DeepEqual(got, want) {
		a.t.Errorf("attribute %s expected %v, got %v", name, want, got)
	}
	return a
}

// HasNoAttribute asserts that the named attribute is absent.
func (a *RecordAssertion) HasNoAttribute(name string) *RecordAssertion {
	a.t.Helper()
	if _, ok := a.rec[name]; ok {
		a.t.Errorf("expected record to not have attribute %s", name)
	}
	return a
}

// Equals asserts deep equality with expected after normalization.
func (a *RecordAssertion) Equals(expected dynaroute.Record) *RecordAssertion {
	a.t.Helper()
	if want := expected.Clone(); !reflect.DeepEqual(a.rec, want) {
		a.t.Errorf("expected record %v, got %v", want, a.rec)
	}
	return a
}

func normalize(v any) any {
	wrapped := dynaroute.Record{"v": v}.Clone()
	return wrapped["v"]
}

// ResultAssertion provides fluent assertions for dispatch results.
type ResultAssertion struct {
	t      *testing.T
	result dynaroute.Result
}

// Result creates a new ResultAssertion for the given dispatch result.
func Result(t *testing.T, result dynaroute.Result) *ResultAssertion {
	return &ResultAssertion{
		t:      t,
		result: result,
	}
}

// HasOperation asserts that the result resolved to op.
func (a *ResultAssertion) HasOperation(op dynaroute.Operation) *ResultAssertion {
	a.t.Helper()
	if a.result.Unsupported {
		a.t.Errorf("expected operation %s, got unsupported %q", op, a.result.Name)
	} else if a.result.Operation != op {
		a.t.Errorf("expected operation %s, got %s", op, a.result.Operation)
	}
	return a
}

// IsUnsupported asserts that the operation name matched nothing.
func (a *ResultAssertion) IsUnsupported() *ResultAssertion {
	a.t.Helper()
	if !a.result.Unsupported {
		a.t.Errorf("expected %q to be unsupported", a.result.Name)
	}
	return a
}

// HasNoError asserts that the result carries no error.
func (a *ResultAssertion) HasNoError() *ResultAssertion {
	a.t.Helper()
	if a.result.Err != nil {
		a.t.Errorf("expected no error, got %v", a.result.Err)
	}
	return a
}

// IsNotFound asserts that the result is a lookup miss.
func (a *ResultAssertion) IsNotFound() *ResultAssertion {
	a.t.Helper()
	if !a.result.NotFound() {
		a.t.Errorf("expected not found, got %v", a.result.Err)
	}
	return a
}

// HasStoreError asserts that the result carries a backend failure.
func (a *ResultAssertion) HasStoreError() *ResultAssertion {
	a.t.Helper()
	if !dynaroute.IsStoreError(a.result.Err) {
		a.t.Errorf("expected store error, got %v", a.result.Err)
	}
	return a
}

// HasErrorIs asserts that the result error matches target with errors.Is.
func (a *ResultAssertion) HasErrorIs(target error) *ResultAssertion {
	a.t.Helper()
	if !errors.Is(a.result.Err, target) {
		a.t.Errorf("expected error %v, got %v", target, a.result.Err)
	}
	return a
}

// PayloadIsNil asserts that the caller would receive no value.
func (a *ResultAssertion) PayloadIsNil() *ResultAssertion {
	a.t.Helper()
	if p := a.result.Payload(); p != nil {
		a.t.Errorf("expected nil payload, got %v", p)
	}
	return a
}

// PayloadEquals asserts the value the caller would receive.
func (a *ResultAssertion) PayloadEquals(expected any) *ResultAssertion {
	a.t.Helper()
	if p := a.result.Payload(); !reflect.DeepEqual(p, expected) {
		a.t.Errorf("expected payload %s, got %s", describe(expected), describe(p))
	}
	return a
}

func describe(v any) string {
	return fmt.Sprintf("%#v", v)
}

// DynamoDBItemAssertion provides fluent assertions for individual DynamoDB items.
type DynamoDBItemAssertion struct {
	t    *testing.T
	item map[string]types.AttributeValue
}

// DynamoDBItem creates a new DynamoDBItemAssertion for the given item.
func DynamoDBItem(t *testing.T, item map[string]types.AttributeValue) *DynamoDBItemAssertion {
	return &DynamoDBItemAssertion{
		t:    t,
		item: item,
	}
}

// HasKey asserts that the item is keyed by the expected identifier.
func (a *DynamoDBItemAssertion) HasKey(expectedValue string) *DynamoDBItemAssertion {
	a.t.Helper()
	return a.HasAttribute(dynaroute.KeyAttribute, expectedValue)
}

// HasAttribute asserts that the item has the specified string attribute with the expected value.
func (a *DynamoDBItemAssertion) HasAttribute(attrName, expectedValue string) *DynamoDBItemAssertion {
	a.t.Helper()
	if attr, exists := a.item[attrName]; !exists {
		a.t.Errorf("item missing attribute %s", attrName)
	} else if attrStr, ok := attr.(*types.AttributeValueMemberS); !ok {
		a.t.Errorf("attribute %s is not a string", attrName)
	} else if attrStr.Value != expectedValue {
		a.t.Errorf("attribute %s expected %s, got %s", attrName, expectedValue, attrStr.Value)
	}
	return a
}

// HasNumber asserts that the item has the specified numeric attribute.
func (a *DynamoDBItemAssertion) HasNumber(attrName, expectedValue string) *DynamoDBItemAssertion {
	a.t.Helper()
	if attr, exists := a.item[attrName]; !exists {
		a.t.Errorf("item missing attribute %s", attrName)
	} else if attrN, ok := attr.(*types.AttributeValueMemberN); !ok {
		a.t.Errorf("attribute %s is not a number", attrName)
	} else if attrN.Value != expectedValue {
		a.t.Errorf("attribute %s expected %s, got %s", attrName, expectedValue, attrN.Value)
	}
	return a
}
