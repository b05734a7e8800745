package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invodex/internal/domain"
	"invodex/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, rec *domain.InvoiceRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now().UTC()

	query := `INSERT INTO invoices (
		id, invoice_number, vendor_name, invoice_date,
		pre_tax_amount, tax_amount, total_amount,
		payment_status, source_file, storage_key, created_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10, $11
	)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.InvoiceNumber, rec.VendorName, rec.InvoiceDate,
		rec.PreTaxAmount, rec.TaxAmount, rec.TotalAmount,
		rec.PaymentStatus, rec.SourceFile, rec.StorageKey, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) List(ctx context.Context) ([]domain.InvoiceRecord, error) {
	// invoice_date renders as ISO text and numerics as float8 so the row
	// scans straight into the record struct.
	query := `SELECT
		id, invoice_number, vendor_name,
		to_char(invoice_date, 'YYYY-MM-DD') AS invoice_date,
		pre_tax_amount::float8 AS pre_tax_amount,
		tax_amount::float8 AS tax_amount,
		total_amount::float8 AS total_amount,
		payment_status, source_file, storage_key, created_at
	FROM invoices
	ORDER BY created_at DESC, id DESC`

	records := []domain.InvoiceRecord{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return records, nil
}
