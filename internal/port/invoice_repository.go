package port

import (
	"context"

	"invodex/internal/domain"
)

// InvoiceRepository is the append-only persistence gateway for sanitized
// invoice records. No update or delete path exists.
type InvoiceRepository interface {
	Create(ctx context.Context, rec *domain.InvoiceRecord) error
	// List returns all records ordered newest-first.
	List(ctx context.Context) ([]domain.InvoiceRecord, error)
}
