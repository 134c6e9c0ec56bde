// Package localstore persists client state as JSON documents in a
// domain.LocalStorage under stable keys.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"njaboot/internal/domain"
)

// Storage keys. The version suffix changes only with an incompatible format.
const (
	CartKey = "njaboot.cart.v1"
	UserKey = "njaboot.user.v1"
)

// CartRepo implements domain.CartRepository.
type CartRepo struct {
	storage domain.LocalStorage
}

// NewCartRepo returns a cart repository backed by storage.
func NewCartRepo(storage domain.LocalStorage) *CartRepo {
	return &CartRepo{storage: storage}
}

var _ domain.CartRepository = (*CartRepo)(nil)
var _ domain.ProfileRepository = (*ProfileRepo)(nil)

// Load decodes the stored cart. A snapshot that breaks a cart invariant is
// reported as corrupt rather than partially applied.
func (r *CartRepo) Load(ctx context.Context) ([]domain.CartLine, error) {
	raw, err := r.storage.Get(ctx, CartKey)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("%w: cart: %v", domain.ErrCorruptSnapshot, err)
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			return nil, fmt.Errorf("%w: cart: invalid line %+v", domain.ErrCorruptSnapshot, l)
		}
		if _, dup := seen[l.ProductID]; dup {
			return nil, fmt.Errorf("%w: cart: duplicate product %q", domain.ErrCorruptSnapshot, l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return lines, nil
}

// Save writes the full snapshot.
func (r *CartRepo) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.storage.Set(ctx, CartKey, raw)
}

// ProfileRepo implements domain.ProfileRepository.
type ProfileRepo struct {
	storage domain.LocalStorage
}

// NewProfileRepo returns a profile repository backed by storage.
func NewProfileRepo(storage domain.LocalStorage) *ProfileRepo {
	return &ProfileRepo{storage: storage}
}

// Load decodes the stored user, or returns (nil, nil) if none.
func (r *ProfileRepo) Load(ctx context.Context) (*domain.User, error) {
	raw, err := r.storage.Get(ctx, UserKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: user: %v", domain.ErrCorruptSnapshot, err)
	}
	if u.ID == "" || !u.Role.Valid() {
		return nil, fmt.Errorf("%w: user: missing id or role", domain.ErrCorruptSnapshot)
	}
	return &u, nil
}

// Save writes the user profile.
func (r *ProfileRepo) Save(ctx context.Context, u *domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.storage.Set(ctx, UserKey, raw)
}

// Clear removes the stored profile.
func (r *ProfileRepo) Clear(ctx context.Context) error {
	return r.storage.Delete(ctx, UserKey)
}
