// Package fixture loads seed records from YAML or JSON files.
//
// A fixture maps domain names to record lists:
//
//	dealer:
//	  - id: D1
//	    brand: Acme
//	product:
//	  - name: Hammer
//	    category: tools
//
// Records without an id get one generated when they are created.
package fixture

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/nisimpson/dynaroute"
	"gopkg.in/yaml.v3"
)

// Fixture holds seed records keyed by domain name.
type Fixture map[string][]dynaroute.Record

// Parse decodes a fixture document. JSON documents are accepted as YAML.
func Parse(data []byte) (Fixture, error) {
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	f := make(Fixture, len(raw))
	for name, records := range raw {
		if _, ok := dynaroute.LookupDomain(name); !ok {
			return nil, fmt.Errorf("fixture domain %q is not a known domain", name)
		}
		out := make([]dynaroute.Record, 0, len(records))
		for i, rec := range records {
			if rec == nil {
				return nil, fmt.Errorf("fixture %s[%d]: empty record", name, i)
			}
			out = append(out, dynaroute.Record(rec).Clone())
		}
		f[name] = out
	}
	return f, nil
}

// LoadFile reads and parses the fixture at path.
func LoadFile(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

// Len returns the total number of records in the fixture.
func (f Fixture) Len() int {
	n := 0
	for _, records := range f {
		n += len(records)
	}
	return n
}

// Apply creates every fixture record through the repository of its domain,
// in domain name order. It returns the number of records created.
func (f Fixture) Apply(ctx context.Context, repos ...*dynaroute.Repository) (int, error) {
	byDomain := make(map[string]*dynaroute.Repository, len(repos))
	for _, repo := range repos {
		byDomain[repo.Domain().Name] = repo
	}

	names := make([]string, 0, len(f))
	for name := range f {
		if _, ok := byDomain[name]; !ok {
			return 0, fmt.Errorf("no repository for fixture domain %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	count := 0
	for _, name := range names {
		for _, rec := range f[name] {
			if _, err := byDomain[name].Create(ctx, rec); err != nil {
				return count, fmt.Errorf("failed to seed %s: %w", name, err)
			}
			count++
		}
	}
	return count, nil
}
