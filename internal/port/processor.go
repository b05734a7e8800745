package port

import (
	"context"

	"invodex/internal/domain"
)

// DocumentProcessor runs the extraction pipeline for a single file or for
// every member of a zip archive.
type DocumentProcessor interface {
	// Process classifies one file, builds its representation(s), extracts and
	// sanitizes fields. Spreadsheets and CSVs yield one record per data row.
	Process(ctx context.Context, data []byte, filename string) ([]domain.InvoiceRecord, error)
	// ExpandArchive fans Process out over the members of a zip archive with
	// per-entry failure isolation.
	ExpandArchive(ctx context.Context, data []byte) (*domain.BatchResult, error)
}
