package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/drama/pkg/adapters/redis"
	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/ports"
	"github.com/aretw0/drama/pkg/table"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	// Initialize client
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Run contract
	store := redis.NewFromClient(client)
	ports.RunSheetStoreContract(t, store)
}

func TestRedisStore_Keys(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}), redis.WithPrefix("mod:"))
	ctx := context.Background()
	tbl := table.Encode([]domain.Entry{{Step: "main"}, {Action: domain.ActionEnd}}, table.DefaultLayout())

	require.NoError(t, store.Write(ctx, "guide", tbl))

	rows, err := mr.List("mod:guide:rows")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "5", mr.HGet("mod:guide:meta", "offset"))

	got, err := store.Read(ctx, "guide")
	require.NoError(t, err)
	assert.Equal(t, tbl.Offset, got.Offset)

	require.NoError(t, store.Delete(ctx, "guide"))
	assert.False(t, mr.Exists("mod:guide:rows"))
	_, err = store.Read(ctx, "guide")
	assert.ErrorIs(t, err, domain.ErrSheetNotFound)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	// Create store with 1s TTL
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	tbl := table.Encode([]domain.Entry{{Step: "main"}}, table.DefaultLayout())

	// 1. Write
	require.NoError(t, store.Write(ctx, "ephemeral", tbl))

	// 2. Verify List (immediately)
	sheets, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, sheets, "ephemeral")

	// 3. Fast forward past the TTL
	mr.FastForward(2 * time.Second)

	_, err = store.Read(ctx, "ephemeral")
	assert.ErrorIs(t, err, domain.ErrSheetNotFound)
}
