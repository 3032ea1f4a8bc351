package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteTSV writes the full sheet as tab-separated values.
// Cells containing tabs, quotes or newlines are quoted.
func WriteTSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.WriteAll(t.Grid()); err != nil {
		return fmt.Errorf("failed to write tsv: %w", err)
	}
	return nil
}

// ReadTSV reads a sheet written by WriteTSV.
func ReadTSV(r io.Reader, offset int) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read tsv: %w", err)
	}
	return FromGrid(grid, offset)
}
