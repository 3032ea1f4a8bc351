package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/drama/pkg/adapters/memory"
	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/ports"
	"github.com/aretw0/drama/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSheetStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tbl := table.Encode([]domain.Entry{{Step: "main"}, {Action: domain.ActionEnd}}, table.DefaultLayout())

	require.NoError(t, store.Write(ctx, "s", tbl))
	tbl.Rows[0][0] = "mutated"

	got, err := store.Read(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "main", got.Rows[0][0])

	got.Rows[0][0] = "mutated again"
	again, _ := store.Read(ctx, "s")
	assert.Equal(t, "main", again.Rows[0][0])

	require.NoError(t, store.Delete(ctx, "s"))
	_, err = store.Read(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrSheetNotFound)
}
