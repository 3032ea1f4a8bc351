package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/drama/pkg/adapters/file"
	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/ports"
	"github.com/aretw0/drama/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunSheetStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	tbl := table.Encode([]domain.Entry{{Step: "main"}, {Action: domain.ActionEnd}}, table.DefaultLayout())

	require.NoError(t, store.Write(context.Background(), "guide", tbl))

	data, err := os.ReadFile(filepath.Join(dir, "guide.tsv"))
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Len(t, lines, table.DefaultOffset+2)
	assert.Equal(t, "step\tjump\tif\tif2\taction\tparam\tactor\tversion\tid\ttext_JP\ttext_EN", lines[0])
	assert.Equal(t, "main\t\t\t\t\t\t\t\t\t\t", lines[table.DefaultOffset])

	// No temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_InvalidName(t *testing.T) {
	store := file.New(t.TempDir())
	tbl := &table.Table{Header: table.DefaultLayout().Header()}

	assert.Error(t, store.Write(context.Background(), "", tbl))
	assert.Error(t, store.Write(context.Background(), "../escape", tbl))
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	sheets, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sheets)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}
