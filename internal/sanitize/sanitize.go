// Package sanitize normalizes the untrusted output of an extraction backend
// into a storable invoice record. All coercion lives here so no unvalidated
// value ever reaches the persistence layer.
package sanitize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"invodex/internal/domain"
)

// dateLayouts is the ordered list of accepted date formats. The first layout
// that parses wins, so US month-first variants take priority over the EU
// day-first ones for ambiguous inputs.
var dateLayouts = []string{
	"2006-01-02",      // ISO
	"01/02/2006",      // MM/DD/YYYY
	"02/01/2006",      // DD/MM/YYYY
	"02-01-2006",      // DD-MM-YYYY
	"01-02-2006",      // MM-DD-YYYY
	"January 2, 2006", // long form
	"Jan 2, 2006",     // abbreviated
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02",
}

// sentinels are model outputs that mean "no value". They normalize to
// absent, never to an error.
var sentinels = map[string]bool{
	"":        true,
	"unknown": true,
	"n/a":     true,
	"null":    true,
	"none":    true,
}

// Record converts raw extracted fields into a sanitized invoice record for
// the given source file. It is a pure function: it never errors, it only
// drops or derives values.
func Record(raw *domain.ExtractedFields, sourceFile string) domain.InvoiceRecord {
	rec := domain.InvoiceRecord{
		InvoiceNumber: stringOr(raw.InvoiceNumber, "N/A"),
		VendorName:    stringOr(raw.VendorName, "Unknown"),
		InvoiceDate:   Date(raw.InvoiceDate),
		PreTaxAmount:  Amount(raw.PreTaxAmount),
		TaxAmount:     Amount(raw.TaxAmount),
		TotalAmount:   Amount(raw.TotalAmount),
		PaymentStatus: Status(raw.PaymentStatus),
		SourceFile:    sourceFile,
	}

	// Derive the missing member of {pre-tax, tax, total} when the other two
	// are known. Fewer than two known components: leave everything as given.
	switch {
	case rec.TotalAmount == nil && rec.PreTaxAmount != nil && rec.TaxAmount != nil:
		total := round2(*rec.PreTaxAmount + *rec.TaxAmount)
		rec.TotalAmount = &total
	case rec.PreTaxAmount == nil && rec.TotalAmount != nil && rec.TaxAmount != nil:
		pre := round2(*rec.TotalAmount - *rec.TaxAmount)
		rec.PreTaxAmount = &pre
	}

	return rec
}

// Date parses a free-form date value against the accepted layouts and
// normalizes it to YYYY-MM-DD. Sentinels, non-strings, and unrecognized
// strings all normalize to absent; the raw string is never forwarded.
func Date(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if sentinels[strings.ToLower(s)] {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			iso := t.Format("2006-01-02")
			return &iso
		}
	}
	return nil
}

// Amount coerces a numeric value, stripping currency symbols, thousands
// separators, and whitespace from strings. Sentinels and non-numeric
// residues normalize to absent.
func Amount(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		s := strings.TrimSpace(t)
		if sentinels[strings.ToLower(s)] {
			return nil
		}
		s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// Status normalizes a payment status to the closed canonical set. Anything
// outside the set, including absence, becomes Unknown.
func Status(v any) domain.PaymentStatus {
	s, ok := v.(string)
	if !ok {
		return domain.PaymentStatusUnknown
	}
	status := domain.PaymentStatus(strings.TrimSpace(s))
	if domain.ValidPaymentStatuses[status] {
		return status
	}
	return domain.PaymentStatusUnknown
}

// stringOr coerces v to a trimmed string, falling back to def for absence,
// sentinels, and unsupported types. Numbers are rendered without a decimal
// tail so numeric invoice identifiers survive coercion.
func stringOr(v any, def string) string {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return def
	}
	if s == "" || sentinels[strings.ToLower(s)] {
		return def
	}
	return s
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
