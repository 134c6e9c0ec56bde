package app

import (
	"context"
	"errors"
	"math"
	"sync"

	"njaboot/internal/domain"
	"njaboot/internal/logger"

	"github.com/shopspring/decimal"
)

// CartStore holds the shopping cart of the current device. Every mutation
// is applied in memory first and then written through to the repository;
// write failures are logged and never reach the caller.
type CartStore struct {
	mu    sync.Mutex
	repo  domain.CartRepository
	log   *logger.Logger
	lines []domain.CartLine
}

// NewCartStore rehydrates the cart from repo. A missing or unusable
// snapshot yields an empty cart.
func NewCartStore(ctx context.Context, repo domain.CartRepository, log *logger.Logger) *CartStore {
	s := &CartStore{repo: repo, log: log}

	lines, err := repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptSnapshot):
		log.Warn(ctx, "discarding corrupt cart snapshot", err)
	case err != nil:
		log.Warn(ctx, "cart snapshot unavailable, starting empty", err)
	default:
		s.lines = append(s.lines, lines...)
	}
	return s
}

// AddItem increases the quantity of productID by quantity, creating the
// line if needed. Non-positive quantities are ignored and the sum
// saturates at math.MaxInt.
func (s *CartStore) AddItem(ctx context.Context, productID string, quantity int) {
	if productID == "" || quantity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(productID); i >= 0 {
		s.lines[i].Quantity = addQuantity(s.lines[i].Quantity, quantity)
	} else {
		s.lines = append(s.lines, domain.CartLine{ProductID: productID, Quantity: quantity})
	}
	s.persist(ctx)
}

// UpdateQuantity sets the absolute quantity of an existing line. A quantity
// of zero or less removes the line. Unknown products are left alone on
// purpose: the storefront may hold stale product IDs.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.lines[i].Quantity = quantity
	s.persist(ctx)
}

// RemoveItem deletes the line for productID if present.
func (s *CartStore) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist(ctx)
}

// Clear empties the cart, typically after checkout.
func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.persist(ctx)
}

// Total sums price × quantity over every line whose product prices knows.
func (s *CartStore) Total(prices domain.PriceLookup) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		price, ok := prices.PriceOf(l.ProductID)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Lines returns a copy of the cart in insertion order.
func (s *CartStore) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine{}, s.lines...)
}

// Quantity returns the quantity held for productID, or 0.
func (s *CartStore) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// ItemCount is the number of units across all lines.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n = addQuantity(n, l.Quantity)
	}
	return n
}

// Len is the number of distinct products in the cart.
func (s *CartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// addQuantity adds two non-negative quantities, saturating at math.MaxInt.
func addQuantity(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

func (s *CartStore) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// persist must be called with s.mu held.
func (s *CartStore) persist(ctx context.Context) {
	snapshot := append([]domain.CartLine{}, s.lines...)
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.log.Warn(ctx, "saving cart snapshot failed", err)
	}
}
