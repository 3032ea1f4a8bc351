package ports

import (
	"context"

	"github.com/aretw0/drama/pkg/flags"
	"github.com/aretw0/drama/pkg/table"
)

// Sink accepts the finalized row sequence of one graph.
type Sink interface {
	// Write stores the table under sheet, replacing any previous content.
	Write(ctx context.Context, sheet string, t *table.Table) error
}

// SheetStore is a Sink that can read its sheets back.
type SheetStore interface {
	Sink

	// Read returns the stored table.
	// Returns domain.ErrSheetNotFound if the sheet was never written.
	Read(ctx context.Context, sheet string) (*table.Table, error)

	// List returns the stored sheet names, sorted.
	List(ctx context.Context) ([]string, error)
}

// SchemaSource provides the flag schema.
type SchemaSource interface {
	Load(ctx context.Context) (*flags.Registry, error)
}
