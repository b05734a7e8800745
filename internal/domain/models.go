package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceRecord is the sanitized, storable invoice entity. Every field holds
// either a well-typed value or an explicit absence marker (nil pointer);
// unparseable dates and amounts never survive sanitization.
type InvoiceRecord struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	InvoiceNumber string        `db:"invoice_number" json:"invoice_number"`
	VendorName    string        `db:"vendor_name" json:"vendor_name"`
	InvoiceDate   *string       `db:"invoice_date" json:"invoice_date"`
	PreTaxAmount  *float64      `db:"pre_tax_amount" json:"pre_tax_amount"`
	TaxAmount     *float64      `db:"tax_amount" json:"tax_amount"`
	TotalAmount   *float64      `db:"total_amount" json:"total_amount"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	SourceFile    string        `db:"source_file" json:"source_file"`
	StorageKey    *string       `db:"storage_key" json:"storage_key,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// ExtractedFields is the raw, untrusted output of an extraction backend.
// Any field may be absent, null, or of the wrong type; nothing here carries
// a validity guarantee until it passes through the sanitizer.
type ExtractedFields struct {
	InvoiceNumber any `json:"invoice_number"`
	VendorName    any `json:"vendor_name"`
	InvoiceDate   any `json:"invoice_date"`
	PreTaxAmount  any `json:"pre_tax_amount"`
	TaxAmount     any `json:"tax_amount"`
	TotalAmount   any `json:"total_amount"`
	PaymentStatus any `json:"payment_status"`
}

// ImagePayload is an encoded raster image ready for a vision backend.
type ImagePayload struct {
	Bytes     []byte
	MediaType string
}

// TextPayload is a newline-joined "field: value" listing built from one
// spreadsheet or CSV row.
type TextPayload struct {
	RowText string
}

// Representation is the canonical extraction input. Exactly one of Image or
// Text is populated; backends dispatch on which.
type Representation struct {
	Image *ImagePayload
	Text  *TextPayload
}

// FailureMarker records a per-entry failure inside an archive batch.
type FailureMarker struct {
	Entry  string `json:"entry"`
	Reason string `json:"reason"`
}

// BatchItem holds either a successful record or a failure marker, never both.
type BatchItem struct {
	Record  *InvoiceRecord `json:"record,omitempty"`
	Failure *FailureMarker `json:"failure,omitempty"`
}

// BatchResult aggregates the outcome of expanding one archive.
type BatchResult struct {
	ProcessedCount int         `json:"processed"`
	FailedCount    int         `json:"failed"`
	SkippedEntries []string    `json:"skipped"`
	Items          []BatchItem `json:"results"`
}

// Recount recomputes the processed/failed counters from the item sequence.
// Counters are never tracked incrementally: a single entry may contribute
// several records, so the items slice is the only source of truth.
func (b *BatchResult) Recount() {
	processed, failed := 0, 0
	for _, item := range b.Items {
		switch {
		case item.Record != nil:
			processed++
		case item.Failure != nil:
			failed++
		}
	}
	b.ProcessedCount = processed
	b.FailedCount = failed
}
