// Package pipeline composes classification, representation building,
// extraction, and sanitization into the per-file processing flow.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"invodex/internal/domain"
	"invodex/internal/port"
	"invodex/internal/represent"
	"invodex/internal/sanitize"
)

// Processor runs the extraction pipeline for one file at a time. It holds no
// request state; all dependencies are injected so it can be exercised with
// stub backends.
type Processor struct {
	extractor  port.FieldExtractor
	rasterizer *represent.Rasterizer
}

// NewProcessor creates a Processor.
func NewProcessor(extractor port.FieldExtractor, rasterizer *represent.Rasterizer) *Processor {
	return &Processor{extractor: extractor, rasterizer: rasterizer}
}

// Process classifies the file, builds its canonical representation(s), runs
// extraction, and sanitizes the output. Image and PDF inputs yield exactly
// one record; spreadsheets and CSVs yield one per non-blank data row.
func (p *Processor) Process(ctx context.Context, data []byte, filename string) ([]domain.InvoiceRecord, error) {
	switch domain.ClassifyFilename(filename) {
	case domain.CategoryImage:
		payload, err := represent.Image(data, domain.FileExt(filename))
		if err != nil {
			return nil, err
		}
		return p.extractOne(ctx, domain.Representation{Image: payload}, filename)

	case domain.CategoryPDF:
		pngBytes, err := p.rasterizer.FirstPagePNG(ctx, data)
		if err != nil {
			return nil, err
		}
		payload := &domain.ImagePayload{Bytes: pngBytes, MediaType: "image/png"}
		return p.extractOne(ctx, domain.Representation{Image: payload}, filename)

	case domain.CategorySpreadsheet:
		rows, err := represent.SpreadsheetRows(data)
		if err != nil {
			return nil, err
		}
		return p.extractRows(ctx, rows, filename)

	case domain.CategoryCSV:
		rows, err := represent.CSVRows(data)
		if err != nil {
			return nil, err
		}
		return p.extractRows(ctx, rows, filename)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filename)
	}
}

// extractOne runs one extraction round-trip and sanitizes the result.
func (p *Processor) extractOne(ctx context.Context, rep domain.Representation, filename string) ([]domain.InvoiceRecord, error) {
	fields, err := p.extractor.Extract(ctx, rep)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	return []domain.InvoiceRecord{sanitize.Record(fields, filename)}, nil
}

// extractRows extracts each row payload independently. A failing row is
// logged and skipped rather than aborting the sheet; only when every row
// fails does the whole file fail.
func (p *Processor) extractRows(ctx context.Context, rows []domain.TextPayload, filename string) ([]domain.InvoiceRecord, error) {
	var records []domain.InvoiceRecord
	var lastErr error
	for i := range rows {
		fields, err := p.extractor.Extract(ctx, domain.Representation{Text: &rows[i]})
		if err != nil {
			log.Printf("pipeline.Processor: %s row %d extraction failed: %v", filename, i+1, err)
			lastErr = err
			continue
		}
		records = append(records, sanitize.Record(fields, filename))
	}
	if len(records) == 0 && lastErr != nil {
		return nil, fmt.Errorf("%w: all %d rows failed: %v", domain.ErrExtractionFailed, len(rows), lastErr)
	}
	return records, nil
}
