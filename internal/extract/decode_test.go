package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFields_Success(t *testing.T) {
	text := `{
		"invoice_number": "INV-001",
		"vendor_name": "Acme Corp",
		"invoice_date": "2024-03-15",
		"pre_tax_amount": 1000,
		"tax_amount": 180,
		"total_amount": 1180,
		"payment_status": "Paid"
	}`

	fields, err := DecodeFields(text)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", fields.InvoiceNumber)
	assert.Equal(t, "Acme Corp", fields.VendorName)
	assert.Equal(t, "2024-03-15", fields.InvoiceDate)
	assert.Equal(t, 1180.0, fields.TotalAmount)
	assert.Equal(t, "Paid", fields.PaymentStatus)
}

func TestDecodeFields_MixedTypesTolerated(t *testing.T) {
	// Field-level garbage is the sanitizer's problem, not the decoder's.
	text := `{"invoice_number": 78912, "total_amount": "1,180.00", "tax_amount": null}`

	fields, err := DecodeFields(text)
	require.NoError(t, err)
	assert.Equal(t, 78912.0, fields.InvoiceNumber)
	assert.Equal(t, "1,180.00", fields.TotalAmount)
	assert.Nil(t, fields.TaxAmount)
}

func TestDecodeFields_SurroundingWhitespace(t *testing.T) {
	fields, err := DecodeFields("\n  {\"invoice_number\": \"X\"}  \n")
	require.NoError(t, err)
	assert.Equal(t, "X", fields.InvoiceNumber)
}

func TestDecodeFields_Rejections(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "the invoice number is INV-001"},
		{"json array", `[{"invoice_number": "INV-001"}]`},
		{"json string", `"INV-001"`},
		{"json null", "null"},
		{"empty", ""},
		{"truncated object", `{"invoice_number": "INV`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFields(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefghij", 5))
}
