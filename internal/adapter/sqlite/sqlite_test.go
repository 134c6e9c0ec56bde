package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"njaboot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStore_SetGetDelete(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "njaboot.cart.v1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Set(ctx, "njaboot.cart.v1", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "njaboot.cart.v1", []byte(`[{"productId":"p1","quantity":1}]`)))

	got, err := s.Get(ctx, "njaboot.cart.v1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","quantity":1}]`, string(got))

	require.NoError(t, s.Delete(ctx, "njaboot.cart.v1"))
	_, err = s.Get(ctx, "njaboot.cart.v1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SurvivesReopen(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "njaboot.user.v1", []byte(`{"id":"u1"}`)))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "njaboot.user.v1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, string(got))
}
