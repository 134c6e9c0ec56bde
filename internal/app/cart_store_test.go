package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"njaboot/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCartRepo struct {
	loadFn func(ctx context.Context) ([]domain.CartLine, error)
	saveFn func(ctx context.Context, lines []domain.CartLine) error

	mu    sync.Mutex
	saved [][]domain.CartLine
}

func (m *mockCartRepo) Load(ctx context.Context) ([]domain.CartLine, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return []domain.CartLine{}, nil
}

func (m *mockCartRepo) Save(ctx context.Context, lines []domain.CartLine) error {
	m.mu.Lock()
	m.saved = append(m.saved, lines)
	m.mu.Unlock()
	if m.saveFn != nil {
		return m.saveFn(ctx, lines)
	}
	return nil
}

func (m *mockCartRepo) last() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

func newCart(t *testing.T, repo *mockCartRepo) *CartStore {
	t.Helper()
	return NewCartStore(context.Background(), repo, nil)
}

func TestCartStore_Rehydrate(t *testing.T) {
	t.Run("restores snapshot", func(t *testing.T) {
		repo := &mockCartRepo{loadFn: func(context.Context) ([]domain.CartLine, error) {
			return []domain.CartLine{{ProductID: "riz", Quantity: 2}, {ProductID: "huile", Quantity: 1}}, nil
		}}
		cart := newCart(t, repo)
		assert.Equal(t, 2, cart.Len())
		assert.Equal(t, 3, cart.ItemCount())
		assert.Empty(t, repo.saved, "rehydration must not write")
	})

	t.Run("corrupt snapshot starts empty", func(t *testing.T) {
		repo := &mockCartRepo{loadFn: func(context.Context) ([]domain.CartLine, error) {
			return nil, fmt.Errorf("%w: bad json", domain.ErrCorruptSnapshot)
		}}
		cart := newCart(t, repo)
		assert.Equal(t, 0, cart.Len())
		assert.Equal(t, []domain.CartLine{}, cart.Lines())
	})

	t.Run("storage error starts empty", func(t *testing.T) {
		repo := &mockCartRepo{loadFn: func(context.Context) ([]domain.CartLine, error) {
			return nil, errors.New("disk gone")
		}}
		assert.Equal(t, 0, newCart(t, repo).Len())
	})
}

func TestCartStore_AddItem(t *testing.T) {
	ctx := context.Background()
	repo := &mockCartRepo{}
	cart := newCart(t, repo)

	cart.AddItem(ctx, "riz", 1)
	cart.AddItem(ctx, "riz", 1)
	cart.AddItem(ctx, "sucre", 3)

	assert.Equal(t, 2, cart.Quantity("riz"))
	assert.Equal(t, 3, cart.Quantity("sucre"))
	assert.Equal(t, []domain.CartLine{{ProductID: "riz", Quantity: 2}, {ProductID: "sucre", Quantity: 3}}, cart.Lines())
	assert.Equal(t, cart.Lines(), repo.last())

	saves := len(repo.saved)
	cart.AddItem(ctx, "riz", 0)
	cart.AddItem(ctx, "riz", -4)
	cart.AddItem(ctx, "", 2)
	assert.Equal(t, 2, cart.Quantity("riz"))
	assert.Len(t, repo.saved, saves, "ignored adds must not persist")
}

func TestCartStore_UpdateQuantity(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		qty  int
		want []domain.CartLine
	}{
		{"set absolute", "riz", 5, []domain.CartLine{{ProductID: "riz", Quantity: 5}, {ProductID: "lait", Quantity: 1}}},
		{"zero removes", "riz", 0, []domain.CartLine{{ProductID: "lait", Quantity: 1}}},
		{"negative removes", "lait", -1, []domain.CartLine{{ProductID: "riz", Quantity: 2}}},
		{"unknown ignored", "mil", 3, []domain.CartLine{{ProductID: "riz", Quantity: 2}, {ProductID: "lait", Quantity: 1}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cart := newCart(t, &mockCartRepo{})
			cart.AddItem(ctx, "riz", 2)
			cart.AddItem(ctx, "lait", 1)

			cart.UpdateQuantity(ctx, tc.id, tc.qty)
			assert.Equal(t, tc.want, cart.Lines())
		})
	}
}

func TestCartStore_UpdateZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	a := newCart(t, &mockCartRepo{})
	b := newCart(t, &mockCartRepo{})
	for _, c := range []*CartStore{a, b} {
		c.AddItem(ctx, "riz", 2)
		c.AddItem(ctx, "lait", 1)
	}

	a.UpdateQuantity(ctx, "riz", 0)
	b.RemoveItem(ctx, "riz")
	assert.Equal(t, a.Lines(), b.Lines())
}

func TestCartStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	repo := &mockCartRepo{}
	cart := newCart(t, repo)
	cart.AddItem(ctx, "riz", 2)
	cart.AddItem(ctx, "lait", 1)

	cart.RemoveItem(ctx, "absent")
	assert.Equal(t, 2, cart.Len())

	cart.RemoveItem(ctx, "riz")
	assert.Equal(t, 0, cart.Quantity("riz"))

	cart.Clear(ctx)
	assert.Equal(t, 0, cart.Len())
	assert.Empty(t, repo.last())
}

func TestCartStore_Total(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t, &mockCartRepo{})
	cart.AddItem(ctx, "riz", 2)
	cart.AddItem(ctx, "huile", 1)
	cart.AddItem(ctx, "inconnu", 7)

	prices := domain.Prices{
		"riz":   decimal.NewFromInt(12500),
		"huile": decimal.RequireFromString("1750.5"),
	}
	assert.True(t, decimal.RequireFromString("26750.5").Equal(cart.Total(prices)))
	assert.True(t, cart.Total(domain.Prices{}).IsZero())
}

func TestCartStore_SaveFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	repo := &mockCartRepo{saveFn: func(context.Context, []domain.CartLine) error {
		return errors.New("quota exceeded")
	}}
	cart := newCart(t, repo)

	cart.AddItem(ctx, "riz", 1)
	assert.Equal(t, 1, cart.Quantity("riz"))
}

func TestCartStore_SnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	repo := &mockCartRepo{}
	cart := newCart(t, repo)
	cart.AddItem(ctx, "riz", 1)

	snap := repo.last()
	cart.AddItem(ctx, "riz", 1)
	require.Len(t, snap, 1)
	assert.Equal(t, 1, snap[0].Quantity)

	lines := cart.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 2, cart.Quantity("riz"))
}

func TestCartStore_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t, &mockCartRepo{})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart.AddItem(ctx, "riz", 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, cart.Quantity("riz"))
	assert.Equal(t, 1, cart.Len())
}

func TestCartStore_AddSaturates(t *testing.T) {
	ctx := context.Background()
	repo := &mockCartRepo{}
	c := newCart(t, repo)

	c.AddItem(ctx, "riz", math.MaxInt)
	c.AddItem(ctx, "riz", 1)
	c.AddItem(ctx, "huile", math.MaxInt)

	assert.Equal(t, math.MaxInt, c.Quantity("riz"))
	assert.Equal(t, math.MaxInt, c.ItemCount())
	assert.Equal(t, []domain.CartLine{
		{ProductID: "riz", Quantity: math.MaxInt},
		{ProductID: "huile", Quantity: math.MaxInt},
	}, repo.last())
}

// Random operation sequences must never leave a line below one unit or the
// same product on two lines, and the last snapshot must match memory.
func TestCartStore_RandomSequencesKeepLinesValid(t *testing.T) {
	ctx := context.Background()
	products := []string{"riz", "huile", "sucre", "lait"}
	quantities := []int{math.MinInt, -3, -1, 0, 1, 2, 7, math.MaxInt - 1, math.MaxInt}

	for seed := uint64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*31))
		repo := &mockCartRepo{}
		c := newCart(t, repo)

		for step := 0; step < 200; step++ {
			id := products[rng.IntN(len(products))]
			q := quantities[rng.IntN(len(quantities))]
			switch rng.IntN(5) {
			case 0, 1:
				c.AddItem(ctx, id, q)
			case 2:
				c.UpdateQuantity(ctx, id, q)
			case 3:
				c.RemoveItem(ctx, id)
			case 4:
				if rng.IntN(10) == 0 {
					c.Clear(ctx)
				}
			}

			lines := c.Lines()
			seen := map[string]bool{}
			for _, l := range lines {
				require.GreaterOrEqualf(t, l.Quantity, 1, "seed %d step %d: %+v", seed, step, lines)
				require.Falsef(t, seen[l.ProductID], "seed %d step %d: duplicate %s", seed, step, l.ProductID)
				seen[l.ProductID] = true
			}
			if len(repo.saved) > 0 {
				require.ElementsMatchf(t, lines, repo.last(), "seed %d step %d", seed, step)
			}
		}
	}
}
