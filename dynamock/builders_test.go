package dynamock

import (
	"reflect"
	"testing"

	"github.com/nisimpson/dynaroute"
)

func TestNewRecord(t *testing.T) {
	rec := NewRecord(
		WithID("R1"),
		WithAttribute("name", "first"),
		WithAttributes(map[string]any{
			"count": 2,
			"tags":  []string{"a", "b"},
		}),
	).Build()

	want := dynaroute.Record{
		"id":    "R1",
		"name":  "first",
		"count": 2.0,
		"tags":  []any{"a", "b"},
	}

	if !reflect.DeepEqual(rec, want) {
		t.Errorf("expected %v, got %v", want, rec)
	}
}

func TestRecordBuilder_BuildReturnsCopy(t *testing.T) {
	builder := NewRecord(WithID("R1"))

	first := builder.Build()
	first["name"] = "changed"

	second := builder.With(WithAttribute("extra", true)).Build()
	if _, ok := second["name"]; ok {
		t.Error("mutating a built record must not affect the builder")
	}
	if second["extra"] != true {
		t.Error("expected With to apply more options")
	}
}

func TestWithSecondaryKey(t *testing.T) {
	tests := []struct {
		domain dynaroute.Domain
		want   string
	}{
		{dynaroute.Dealer, "brand"},
		{dynaroute.Product, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.domain.Name, func(t *testing.T) {
			rec := NewRecord(WithSecondaryKey(tt.domain, "value")).Build()
			if rec[tt.want] != "value" {
				t.Errorf("expected %s attribute, got %v", tt.want, rec)
			}
		})
	}
}

func TestNewDealer(t *testing.T) {
	dealer := NewDealer("D1", "Acme", WithAttribute("name", "Downtown"))

	if dealer.ID() != "D1" {
		t.Errorf("expected id D1, got %s", dealer.ID())
	}
	if dealer.String("brand") != "Acme" {
		t.Errorf("expected brand Acme, got %v", dealer["brand"])
	}
	if dealer.String("name") != "Downtown" {
		t.Errorf("expected name Downtown, got %v", dealer["name"])
	}
}

func TestNewProduct_WithoutID(t *testing.T) {
	product := NewProduct("", "tools")

	if _, ok := product["id"]; ok {
		t.Error("expected no id attribute")
	}
	if product.String("category") != "tools" {
		t.Errorf("expected category tools, got %v", product["category"])
	}
}
