package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
products:
  - id: riz-25kg
    name: Riz parfumé 25 kg
    unit: sac
    price: "12500"
    stock: 40
    minStock: 10
  - id: huile-1l
    name: Huile d'arachide 1 L
    unit: bouteille
    price: 1750.5
    stock: 3
    minStock: 12
  - id: sucre-1kg
    name: Sucre en poudre
    unit: kg
    price: 800
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	ids := []string{}
	for _, p := range c.Products() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"riz-25kg", "huile-1l", "sucre-1kg"}, ids)

	p, ok := c.Product("huile-1l")
	require.True(t, ok)
	assert.Equal(t, "bouteille", p.Unit)
	assert.Equal(t, 3, p.Stock)
	assert.Equal(t, 12, p.MinStock)
	assert.True(t, decimal.RequireFromString("1750.5").Equal(p.Price))

	price, ok := c.PriceOf("riz-25kg")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(12500).Equal(price))

	_, ok = c.PriceOf("mil")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate id", "products:\n  - {id: a, name: A, price: 1}\n  - {id: a, name: B, price: 2}\n"},
		{"missing id", "products:\n  - {name: A, price: 1}\n"},
		{"missing name", "products:\n  - {id: a, price: 1}\n"},
		{"missing price", "products:\n  - {id: a, name: A}\n"},
		{"invalid price", "products:\n  - {id: a, name: A, price: douze}\n"},
		{"negative price", "products:\n  - {id: a, name: A, price: -5}\n"},
		{"not yaml", "products: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestProductsIsCopy(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	ps := c.Products()
	ps[0].Name = "changed"
	p, _ := c.Product("riz-25kg")
	assert.Equal(t, "Riz parfumé 25 kg", p.Name)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEmptyCatalog(t *testing.T) {
	c, err := Parse([]byte("products: []\n"))
	require.NoError(t, err)
	assert.Empty(t, c.Products())
}
