package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invodex/internal/config"
	"invodex/internal/domain"
	"invodex/internal/pipeline"
	"invodex/internal/represent"
	"invodex/mocks"
)

func newProcessor(extractor *mocks.MockFieldExtractor) *pipeline.Processor {
	// The binary name is deliberately bogus so any accidental PDF path in a
	// non-PDF test fails loudly.
	rast := represent.NewRasterizer(&config.PDFConfig{Pdftoppm: "pdftoppm-not-installed"})
	return pipeline.NewProcessor(extractor, rast)
}

func TestProcess_Image(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	fields := &domain.ExtractedFields{
		InvoiceNumber: "INV-001",
		VendorName:    "Acme Corp",
		InvoiceDate:   "2024-03-15",
		TotalAmount:   1180.0,
		PaymentStatus: "Paid",
	}
	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(rep domain.Representation) bool {
		return rep.Image != nil && rep.Image.MediaType == "image/png"
	})).Return(fields, nil)

	p := newProcessor(extractor)
	records, err := p.Process(context.Background(), []byte("png-bytes"), "scan.png")
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "INV-001", rec.InvoiceNumber)
	assert.Equal(t, "Acme Corp", rec.VendorName)
	require.NotNil(t, rec.InvoiceDate)
	assert.Equal(t, "2024-03-15", *rec.InvoiceDate)
	assert.Equal(t, domain.PaymentStatusPaid, rec.PaymentStatus)
	assert.Equal(t, "scan.png", rec.SourceFile)
}

func TestProcess_ExtractionFailure(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("model unavailable"))

	p := newProcessor(extractor)
	_, err := p.Process(context.Background(), []byte("png-bytes"), "scan.png")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestProcess_UnsupportedFormat(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	p := newProcessor(extractor)

	_, err := p.Process(context.Background(), []byte("hello"), "notes.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestProcess_PDFWithoutRasterizer(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	p := newProcessor(extractor)

	_, err := p.Process(context.Background(), []byte("%PDF-1.4"), "invoice.pdf")
	assert.ErrorIs(t, err, domain.ErrCapabilityUnavailable)
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestProcess_CSV_RecordPerRow(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(rep domain.Representation) bool {
		return rep.Text != nil
	})).Return(&domain.ExtractedFields{InvoiceNumber: "X"}, nil)

	p := newProcessor(extractor)
	csvData := []byte("Invoice,Vendor\nINV-001,Acme\nINV-002,Globex\n")
	records, err := p.Process(context.Background(), csvData, "rows.csv")
	require.NoError(t, err)
	assert.Len(t, records, 2)
	extractor.AssertNumberOfCalls(t, "Extract", 2)
}

func TestProcess_CSV_FailingRowSkipped(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, errors.New("flaky")).Once()
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&domain.ExtractedFields{InvoiceNumber: "INV-002"}, nil).Once()

	p := newProcessor(extractor)
	csvData := []byte("Invoice,Vendor\nINV-001,Acme\nINV-002,Globex\n")
	records, err := p.Process(context.Background(), csvData, "rows.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "INV-002", records[0].InvoiceNumber)
}

func TestProcess_CSV_AllRowsFail(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	p := newProcessor(extractor)
	csvData := []byte("Invoice,Vendor\nINV-001,Acme\nINV-002,Globex\n")
	_, err := p.Process(context.Background(), csvData, "rows.csv")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestProcess_CSV_NoDataRows(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	p := newProcessor(extractor)

	_, err := p.Process(context.Background(), []byte("Invoice,Vendor\n"), "rows.csv")
	assert.ErrorIs(t, err, domain.ErrNoDataRows)
}
