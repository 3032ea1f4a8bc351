package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/table"
)

const ext = ".tsv"

// Store implements ports.SheetStore using the local filesystem.
// Each sheet is a <sheet>.tsv file in BasePath.
type Store struct {
	BasePath string
	// Offset is the data row offset used when reading sheets back.
	Offset int
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to "build/drama".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join("build", "drama")
	}
	return &Store{BasePath: basePath, Offset: table.DefaultOffset}
}

// Write persists the sheet atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Write(ctx context.Context, sheet string, t *table.Table) error {
	if err := checkName(sheet); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure output directory: %w", err)
	}

	destPath := s.path(sheet)

	// 1. Create Temp File in the same directory (atomic rename needs one filesystem)
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+sheet+"-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	// 2. Write Data
	if err := table.WriteTSV(tmpFile, t); err != nil {
		return err
	}

	// 3. Fsync to ensure durability
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// 4. Close File (cannot rename open file on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// 5. Rename. On Windows os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing sheet for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to sheet: %w", err)
	}

	return nil
}

// Read loads a sheet back.
func (s *Store) Read(ctx context.Context, sheet string) (*table.Table, error) {
	if err := checkName(sheet); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(sheet))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSheetNotFound
		}
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	defer f.Close()

	return table.ReadTSV(f, s.Offset)
}

// List returns all sheet names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}

	var sheets []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		sheets = append(sheets, strings.TrimSuffix(name, ext))
	}
	sort.Strings(sheets)
	return sheets, nil
}

func (s *Store) path(sheet string) string {
	return filepath.Join(s.BasePath, sheet+ext)
}

func checkName(sheet string) error {
	if sheet == "" {
		return fmt.Errorf("sheet name cannot be empty")
	}
	if strings.ContainsAny(sheet, `/\`) || sheet == "." || sheet == ".." {
		return fmt.Errorf("invalid sheet name %q", sheet)
	}
	return nil
}
