// Package csvexport renders persisted invoice records as CSV.
package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"

	"invodex/internal/domain"
)

// BOM is the UTF-8 byte order mark, written first for Excel compatibility
// on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Invoice Number",
	"Vendor Name",
	"Invoice Date",
	"Pre-Tax Amount",
	"Tax Amount",
	"Total Amount",
	"Payment Status",
	"Source File",
	"Created At",
}

// Writer wraps csv.Writer for exporting invoice records.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of records to CSV rows and writes them.
func (w *Writer) WriteInvoices(records []domain.InvoiceRecord) error {
	for i := range records {
		if err := w.csv.Write(recordToRow(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func recordToRow(rec *domain.InvoiceRecord) []string {
	return []string{
		rec.InvoiceNumber,
		rec.VendorName,
		strOrEmpty(rec.InvoiceDate),
		amountOrEmpty(rec.PreTaxAmount),
		amountOrEmpty(rec.TaxAmount),
		amountOrEmpty(rec.TotalAmount),
		string(rec.PaymentStatus),
		rec.SourceFile,
		rec.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func amountOrEmpty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 2, 64)
}
