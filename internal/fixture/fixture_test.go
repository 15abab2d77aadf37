package fixture

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nisimpson/dynaroute"
	"github.com/nisimpson/dynaroute/docstore"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlFixture = `
dealer:
  - id: D1
    brand: Acme
    address:
      city: Austin
  - brand: Globex
product:
  - id: P1
    category: tools
    price: 12
`

func newRepo(store dynaroute.Store, d dynaroute.Domain) *dynaroute.Repository {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return dynaroute.NewRepository(store, d, d.Plural, func(o *dynaroute.RepositoryOptions) {
		o.Logger = logger
	})
}

func TestParse_YAML(t *testing.T) {
	f, err := Parse([]byte(yamlFixture))
	require.NoError(t, err)

	assert.Equal(t, 3, f.Len())
	require.Len(t, f["dealer"], 2)
	assert.Equal(t, "D1", f["dealer"][0].ID())
	assert.Equal(t, map[string]any{"city": "Austin"}, f["dealer"][0]["address"])
	assert.Equal(t, float64(12), f["product"][0]["price"])
}

func TestParse_JSON(t *testing.T) {
	f, err := Parse([]byte(`{"product": [{"id": "P1", "category": "garden"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "garden", f["product"][0].String("category"))
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown domain": "order:\n  - id: O1\n",
		"malformed":      "dealer: [",
		"empty record":   "dealer:\n  - \n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlFixture), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	dealers := newRepo(store, dynaroute.Dealer)
	products := newRepo(store, dynaroute.Product)

	f, err := Parse([]byte(yamlFixture))
	require.NoError(t, err)

	n, err := f.Apply(ctx, dealers, products)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, store.Len("dealers"))
	assert.Equal(t, 1, store.Len("products"))

	got, err := dealers.GetByID(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.String("brand"))

	all, err := dealers.ListAll(ctx)
	require.NoError(t, err)
	for _, rec := range all {
		assert.NotEmpty(t, rec.ID())
	}
}

func TestApply_MissingRepository(t *testing.T) {
	store := docstore.NewMemory()
	f, err := Parse([]byte(yamlFixture))
	require.NoError(t, err)

	_, err = f.Apply(context.Background(), newRepo(store, dynaroute.Dealer))
	assert.ErrorContains(t, err, `no repository for fixture domain "product"`)
	assert.Zero(t, store.Len("dealers"))
}
