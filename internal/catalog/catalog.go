// Package catalog loads the read-only product list from a YAML file.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"njaboot/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Catalog is an ordered, immutable product list. It implements
// domain.PriceLookup.
type Catalog struct {
	products []domain.Product
	index    map[string]int
}

var _ domain.PriceLookup = (*Catalog)(nil)

type rawCatalog struct {
	Products []rawProduct `yaml:"products"`
}

// rawProduct keeps price as a node so both "1750.5" and 1750.5 parse
// without a float round trip.
type rawProduct struct {
	domain.Product `yaml:",inline"`
	Price          yaml.Node `yaml:"price"`
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog. Duplicate IDs, missing names and invalid
// or negative prices are errors.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		products: make([]domain.Product, 0, len(raw.Products)),
		index:    make(map[string]int, len(raw.Products)),
	}
	for i, rp := range raw.Products {
		p := rp.Product
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("product #%d: missing id", i+1)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %q: missing name", p.ID)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("product %q: duplicate id", p.ID)
		}

		price, err := parsePrice(rp.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", p.ID, err)
		}
		p.Price = price

		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

func parsePrice(n yaml.Node) (decimal.Decimal, error) {
	if n.Kind != yaml.ScalarNode || strings.TrimSpace(n.Value) == "" {
		return decimal.Zero, errors.New("missing price")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(n.Value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", n.Value)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", price)
	}
	return price, nil
}

// Products returns the products in file order.
func (c *Catalog) Products() []domain.Product {
	return append([]domain.Product(nil), c.products...)
}

// Product looks a product up by ID.
func (c *Catalog) Product(id string) (domain.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// PriceOf implements domain.PriceLookup.
func (c *Catalog) PriceOf(id string) (decimal.Decimal, bool) {
	p, ok := c.Product(id)
	return p.Price, ok
}

// Len is the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
