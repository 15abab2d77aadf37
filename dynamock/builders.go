package dynamock

import (
	"github.com/nisimpson/dynaroute"
)

// RecordOption is a functional option for configuring records during building.
type RecordOption func(*RecordBuilder)

// RecordBuilder builds test records through functional options.
type RecordBuilder struct {
	rec dynaroute.Record
}

// NewRecord creates a new record builder with the given options applied.
func NewRecord(opts ...RecordOption) *RecordBuilder {
	builder := &RecordBuilder{rec: dynaroute.Record{}}
	for _, opt := range opts {
		opt(builder)
	}
	return builder
}

// With applies more options to the builder.
func (b *RecordBuilder) With(opts ...RecordOption) *RecordBuilder {
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns a copy of the configured record.
func (b *RecordBuilder) Build() dynaroute.Record {
	return b.rec.Clone()
}

// WithID sets the record identifier.
func WithID(id string) RecordOption {
	return func(b *RecordBuilder) {
		b.rec[dynaroute.KeyAttribute] = id
	}
}

// WithAttribute sets a single attribute.
func WithAttribute(name string, value any) RecordOption {
	return func(b *RecordBuilder) {
		b.rec[name] = value
	}
}

// WithAttributes sets several attributes at once.
func WithAttributes(attrs map[string]any) RecordOption {
	return func(b *RecordBuilder) {
		for k, v := range attrs {
			b.rec[k] = v
		}
	}
}

// WithSecondaryKey sets the domain's secondary index attribute.
func WithSecondaryKey(domain dynaroute.Domain, value string) RecordOption {
	return func(b *RecordBuilder) {
		b.rec[domain.SecondaryAttribute] = value
	}
}

// NewDealer builds a dealer record with the given id and brand. An empty id
// leaves the record without one.
func NewDealer(id, brand string, opts ...RecordOption) dynaroute.Record {
	return newDomainRecord(dynaroute.Dealer, id, brand, opts)
}

// NewProduct builds a product record with the given id and category. An
// empty id leaves the record without one.
func NewProduct(id, category string, opts ...RecordOption) dynaroute.Record {
	return newDomainRecord(dynaroute.Product, id, category, opts)
}

func newDomainRecord(domain dynaroute.Domain, id, secondary string, opts []RecordOption) dynaroute.Record {
	builder := NewRecord(WithSecondaryKey(domain, secondary))
	if id != "" {
		builder.With(WithID(id))
	}
	return builder.With(opts...).Build()
}
