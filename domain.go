package dynaroute

import (
	"strings"
)

// Domain describes one resource type served by a Router: its naming, and the
// attribute the store indexes for the secondary access path.
type Domain struct {
	Name               string // singular resource name, e.g. "dealer"
	Plural             string // plural resource name, e.g. "dealers"
	SecondaryAttribute string // attribute on the secondary index
	IndexName          string // name of the secondary index
}

var (
	// Dealer records are indexed by brand.
	Dealer = Domain{
		Name:               "dealer",
		Plural:             "dealers",
		SecondaryAttribute: "brand",
		IndexName:          "dealerByBrand",
	}

	// Product records are indexed by category.
	Product = Domain{
		Name:               "product",
		Plural:             "products",
		SecondaryAttribute: "category",
		IndexName:          "productsByCategory",
	}
)

// Domains lists every domain known to the package.
func Domains() []Domain {
	return []Domain{Dealer, Product}
}

// LookupDomain returns the domain with the given singular or plural name.
func LookupDomain(name string) (Domain, bool) {
	for _, d := range Domains() {
		if strings.EqualFold(name, d.Name) || strings.EqualFold(name, d.Plural) {
			return d, true
		}
	}
	return Domain{}, false
}

func (d Domain) resource() string {
	if d.Name == "" {
		return ""
	}
	return strings.ToUpper(d.Name[:1]) + d.Name[1:]
}

func (d Domain) resources() string {
	if d.Plural == "" {
		return d.resource() + "s"
	}
	return strings.ToUpper(d.Plural[:1]) + d.Plural[1:]
}

// OperationName returns the resolver field name that selects op.
//
//	OpCreate: create<Resource>
//	OpList:   list<Resource>s
//	OpGet:    get<Resource>ById
//	OpDelete: deleteBy<Resource>Id
func (d Domain) OperationName(op Operation) string {
	switch op {
	case OpCreate:
		return "create" + d.resource()
	case OpList:
		return "list" + d.resources()
	case OpGet:
		return "get" + d.resource() + "ById"
	case OpDelete:
		return "deleteBy" + d.resource() + "Id"
	}
	return ""
}

// RecordArgument is the argument key holding the record to create.
func (d Domain) RecordArgument() string { return d.Name }

// IDArgument is the argument key holding a record identifier.
func (d Domain) IDArgument() string { return d.Name + "Id" }

// SecondaryArgument is the argument key holding the secondary attribute.
func (d Domain) SecondaryArgument() string { return d.SecondaryAttribute }
