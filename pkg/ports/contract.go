package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractTable() *table.Table {
	entries := []domain.Entry{
		{Step: "main"},
		{ID: "hello", Actor: "guide", Text: []string{"こんにちは", "Hello"}},
		{Action: domain.ActionDispatch, Param: "if_flag(drama.met, ==1, shop)"},
		{Action: domain.ActionChoice, Jump: "shop", ID: "go", Text: []string{"", "Shop"}},
		{Action: domain.ActionEnd},
		{Step: "shop"},
		{Jump: "_buy"},
	}
	return table.Encode(entries, table.DefaultLayout())
}

// RunSheetStoreContract runs a suite of tests to verify that a SheetStore implementation
// adheres to the defined interface contract.
func RunSheetStoreContract(t *testing.T, store SheetStore) {
	ctx := context.Background()
	sheet := "contract_" + time.Now().Format("20060102150405")

	t.Run("Write and Read", func(t *testing.T) {
		// 1. Write
		want := contractTable()
		require.NoError(t, store.Write(ctx, sheet, want), "Write should not return error")

		// 2. Read
		got, err := store.Read(ctx, sheet)
		require.NoError(t, err, "Read should not return error")
		assert.Equal(t, want.Header, got.Header)

		// 3. Entries survive the trip
		wantEntries, err := table.Decode(want)
		require.NoError(t, err)
		gotEntries, err := table.Decode(got)
		require.NoError(t, err)
		require.Len(t, gotEntries, len(wantEntries))
		for i := range wantEntries {
			assert.True(t, wantEntries[i].Equal(gotEntries[i]), "row %d: %+v != %+v", i, wantEntries[i], gotEntries[i])
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		short := table.Encode([]domain.Entry{{Step: "main"}, {Action: domain.ActionEnd}}, table.DefaultLayout())
		require.NoError(t, store.Write(ctx, sheet, short))

		got, err := store.Read(ctx, sheet)
		require.NoError(t, err)
		assert.Len(t, got.Rows, 2)
	})

	t.Run("Read Non-Existent", func(t *testing.T) {
		_, err := store.Read(ctx, "missing_"+sheet)
		assert.ErrorIs(t, err, domain.ErrSheetNotFound)
	})

	t.Run("List", func(t *testing.T) {
		sheets, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sheets, sheet)
	})
}
