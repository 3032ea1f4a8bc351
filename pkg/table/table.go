package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/drama/pkg/domain"
)

// ErrHeader is returned when a sheet does not carry the fixed header.
var ErrHeader = errors.New("unexpected table header")

// Table is the serialized form of a drama: a header and one row per entry.
type Table struct {
	Header []string
	Rows   [][]string
	// Offset is the sheet row index of Rows[0]; rows between the header and it are reserved.
	Offset int
}

// Encode flattens entries into rows. Entry order is preserved exactly.
func Encode(entries []domain.Entry, layout Layout) *Table {
	header := layout.Header()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := make([]string, len(header))
		row[0] = e.Step
		row[1] = e.Jump
		row[2] = e.If
		row[3] = e.If2
		row[4] = e.Action
		row[5] = e.Param
		row[6] = e.Actor
		row[7] = e.Version
		row[8] = e.ID
		for i := range layout.Locales {
			if i < len(e.Text) {
				row[len(fixedColumns)+i] = e.Text[i]
			}
		}
		rows = append(rows, row)
	}
	return &Table{Header: header, Rows: rows, Offset: layout.offset()}
}

// Decode reads entries back from a table.
// Columns are located by header name, so column order on the sheet does not matter;
// text columns keep their header order. Trailing empty text cells are dropped.
func Decode(t *Table) ([]domain.Entry, error) {
	idx := make(map[string]int, len(t.Header))
	var textCols []int
	for i, name := range t.Header {
		name = strings.TrimSpace(name)
		if strings.HasPrefix(name, TextPrefix) {
			textCols = append(textCols, i)
			continue
		}
		idx[name] = i
	}
	for _, col := range fixedColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrHeader, col)
		}
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	entries := make([]domain.Entry, 0, len(t.Rows))
	for _, row := range t.Rows {
		e := domain.Entry{
			Step:    cell(row, idx[ColStep]),
			Jump:    cell(row, idx[ColJump]),
			If:      cell(row, idx[ColIf]),
			If2:     cell(row, idx[ColIf2]),
			Action:  cell(row, idx[ColAction]),
			Param:   cell(row, idx[ColParam]),
			Actor:   cell(row, idx[ColActor]),
			Version: cell(row, idx[ColVersion]),
			ID:      cell(row, idx[ColID]),
		}
		text := make([]string, len(textCols))
		for i, c := range textCols {
			text[i] = cell(row, c)
		}
		e.Text = TrimText(text)
		entries = append(entries, e)
	}
	return entries, nil
}

// TrimText drops trailing empty cells and returns nil when none remain.
func TrimText(text []string) []string {
	n := len(text)
	for n > 0 && text[n-1] == "" {
		n--
	}
	if n == 0 {
		return nil
	}
	return text[:n]
}

// Grid returns the full sheet: header, blank reserved rows, then data rows.
func (t *Table) Grid() [][]string {
	offset := t.Offset
	if offset < 1 {
		offset = DefaultOffset
	}
	grid := make([][]string, 0, offset+len(t.Rows))
	grid = append(grid, t.Header)
	for i := 1; i < offset; i++ {
		grid = append(grid, make([]string, len(t.Header)))
	}
	return append(grid, t.Rows...)
}

// FromGrid splits a full sheet into header and data rows.
// Data rows that are entirely blank are skipped.
func FromGrid(grid [][]string, offset int) (*Table, error) {
	if offset < 1 {
		offset = DefaultOffset
	}
	if len(grid) == 0 || len(grid[0]) == 0 || strings.TrimSpace(grid[0][0]) != ColStep {
		return nil, fmt.Errorf("%w: first row must start with %q", ErrHeader, ColStep)
	}
	t := &Table{Header: grid[0], Offset: offset}
	for i := offset; i < len(grid); i++ {
		if isBlank(grid[i]) {
			continue
		}
		t.Rows = append(t.Rows, grid[i])
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// StepRows counts data rows per step, marker included.
// Rows before the first marker are counted under "".
func (t *Table) StepRows() map[string]int {
	counts := make(map[string]int)
	current := ""
	for _, row := range t.Rows {
		if len(row) > 0 && row[0] != "" {
			current = row[0]
		}
		counts[current]++
	}
	return counts
}
