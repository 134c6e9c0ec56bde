package redis

import (
	"context"
	"testing"

	"njaboot/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestGet_Miss(t *testing.T) {
	store, _ := setupTestRedis(t)

	got, err := store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, got)
}

func TestSet_NamespacedWithoutTTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "njaboot.cart.v1", []byte(`[]`)))

	assert.True(t, mr.Exists("njaboot:njaboot.cart.v1"))
	assert.Zero(t, mr.TTL("njaboot:njaboot.cart.v1"))

	got, err := store.Get(ctx, "njaboot.cart.v1")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestDelete(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("njaboot:njaboot.user.v1", `{"id":"u1"}`))
	require.NoError(t, store.Delete(ctx, "njaboot.user.v1"))
	assert.False(t, mr.Exists("njaboot:njaboot.user.v1"))

	require.NoError(t, store.Delete(ctx, "njaboot.user.v1"))
}

func TestGet_ServerDown(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, err := store.Get(context.Background(), "njaboot.cart.v1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := Dial(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))
	v, err := mr.Get("njaboot:k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	_, err = Dial(context.Background(), "not a url")
	assert.Error(t, err)
}
