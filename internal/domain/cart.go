package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The cart only reads it.
type Product struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Unit     string          `json:"unit" yaml:"unit"`
	Price    decimal.Decimal `json:"price" yaml:"-"`
	Image    string          `json:"image,omitempty" yaml:"image"`
	Stock    int             `json:"stock" yaml:"stock"`
	MinStock int             `json:"minStock" yaml:"minStock"`
}

// PriceLookup resolves a product ID to its unit price.
type PriceLookup interface {
	PriceOf(productID string) (decimal.Decimal, bool)
}

// Prices is a plain map-backed PriceLookup.
type Prices map[string]decimal.Decimal

// PriceOf implements PriceLookup.
func (p Prices) PriceOf(productID string) (decimal.Decimal, bool) {
	v, ok := p[productID]
	return v, ok
}

// CartLine pairs a product with a quantity of at least one.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartRepository persists the cart snapshot. Load returns an empty slice
// when nothing is stored and ErrCorruptSnapshot when the stored value
// cannot be used.
type CartRepository interface {
	Load(ctx context.Context) ([]CartLine, error)
	Save(ctx context.Context, lines []CartLine) error
}
