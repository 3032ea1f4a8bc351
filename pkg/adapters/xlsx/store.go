package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/table"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is created by excelize for every new workbook.
const defaultSheet = "Sheet1"

// Store implements ports.SheetStore on a single workbook, one sheet per graph.
// The header goes on row 1 and data starts at the table's offset.
type Store struct {
	Path string
	// Offset is the data row offset used when reading sheets back.
	Offset int

	mu sync.Mutex
}

// New creates a store writing to the workbook at path.
func New(path string) *Store {
	return &Store{Path: path, Offset: table.DefaultOffset}
}

// Write replaces the sheet and saves the workbook.
func (s *Store) Write(ctx context.Context, sheet string, t *table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.Path)
	fresh := errors.Is(statErr, os.ErrNotExist)

	f, err := s.open(true)
	if err != nil {
		return err
	}
	defer f.Close()

	// 1. Clear an existing sheet in place (keeps column widths and styles), or create it
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("invalid sheet name %q: %w", sheet, err)
	}
	if idx >= 0 {
		if err := clearSheet(f, sheet); err != nil {
			return err
		}
	} else if idx, err = f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	// 2. Header and data, in the same places as the TSV grid
	for i, row := range t.Grid() {
		if i > 0 && isBlank(row) {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}

	// 3. Drop the placeholder sheet of a fresh workbook
	if fresh && sheet != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove placeholder sheet: %w", err)
		}
		idx, _ = f.GetSheetIndex(sheet)
	}
	f.SetActiveSheet(idx)

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create workbook dir: %w", err)
	}
	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Read loads a sheet back.
func (s *Store) Read(ctx context.Context, sheet string) (*table.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(false)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrSheetNotFound
	}
	defer f.Close()

	if !slices.Contains(f.GetSheetList(), sheet) {
		return nil, domain.ErrSheetNotFound
	}
	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return table.FromGrid(grid, s.Offset)
}

// List returns the workbook's sheet names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(false)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return []string{}, nil
	}
	defer f.Close()

	sheets := f.GetSheetList()
	sort.Strings(sheets)
	return sheets, nil
}

// open returns the workbook, a new one when create is set, or nil when it doesn't exist.
func (s *Store) open(create bool) (*excelize.File, error) {
	f, err := excelize.OpenFile(s.Path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if !create {
		return nil, nil
	}
	return excelize.NewFile(), nil
}

// clearSheet removes every row of the sheet, bottom up.
func clearSheet(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	for i := len(rows); i >= 1; i-- {
		if err := f.RemoveRow(sheet, i); err != nil {
			return fmt.Errorf("failed to clear row %d of %s: %w", i, sheet, err)
		}
	}
	return nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
