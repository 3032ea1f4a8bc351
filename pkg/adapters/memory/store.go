package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/table"
)

// Store implements ports.SheetStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*table.Table
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*table.Table),
	}
}

// Write stores a copy of the table.
func (s *Store) Write(ctx context.Context, sheet string, t *table.Table) error {
	copied := clone(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sheet] = copied
	return nil
}

// Read returns a copy so callers can't mutate the stored rows.
func (s *Store) Read(ctx context.Context, sheet string) (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[sheet]
	if !ok {
		return nil, domain.ErrSheetNotFound
	}
	return clone(t), nil
}

// Delete removes a sheet.
func (s *Store) Delete(ctx context.Context, sheet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sheet)
	return nil
}

// List returns stored sheet names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sheets := make([]string, 0, len(s.data))
	for name := range s.data {
		sheets = append(sheets, name)
	}
	sort.Strings(sheets)
	return sheets, nil
}

func clone(t *table.Table) *table.Table {
	out := &table.Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
		Offset: t.Offset,
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
