package xlsx_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/drama/pkg/adapters/xlsx"
	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/ports"
	"github.com/aretw0/drama/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXStore_Contract(t *testing.T) {
	store := xlsx.New(filepath.Join(t.TempDir(), "drama.xlsx"))
	ports.RunSheetStoreContract(t, store)
}

func TestXLSXStore_Placement(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drama.xlsx")
	store := xlsx.New(path)
	ctx := context.Background()
	tbl := table.Encode([]domain.Entry{{Step: "main"}, {Action: domain.ActionEnd}}, table.DefaultLayout())

	require.NoError(t, store.Write(ctx, "guide", tbl))
	require.NoError(t, store.Write(ctx, "arena", tbl))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"guide", "arena"}, f.GetSheetList())

	header, err := f.GetCellValue("guide", "A1")
	require.NoError(t, err)
	assert.Equal(t, table.ColStep, header)

	lastText, err := f.GetCellValue("guide", "K1")
	require.NoError(t, err)
	assert.Equal(t, "text_EN", lastText)

	// Offset 5: header on row 1, reserved rows 2-5, data from row 6.
	marker, err := f.GetCellValue("guide", "A6")
	require.NoError(t, err)
	assert.Equal(t, "main", marker)
	action, err := f.GetCellValue("guide", "E7")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionEnd, action)
}

func TestXLSXStore_Missing(t *testing.T) {
	store := xlsx.New(filepath.Join(t.TempDir(), "none.xlsx"))
	ctx := context.Background()

	_, err := store.Read(ctx, "guide")
	assert.ErrorIs(t, err, domain.ErrSheetNotFound)

	sheets, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sheets)
}
