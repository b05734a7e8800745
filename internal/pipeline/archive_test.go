package pipeline_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invodex/internal/domain"
	"invodex/mocks"
)

func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExpandArchive_MixedEntries(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&domain.ExtractedFields{InvoiceNumber: "INV-001"}, nil)

	archive := buildZip(t, map[string][]byte{
		"scan.png":       []byte("png-bytes"),
		"notes.txt":      []byte("hello"),
		"broken.pdf":     []byte("%PDF-1.4 truncated"),
		"__MACOSX/._x":   []byte("resource fork"),
		".DS_Store":      []byte("finder junk"),
		"nested.zip":     []byte("PK"),
		"subdir/pic.jpg": []byte("jpeg-bytes"),
	})

	p := newProcessor(extractor)
	result, err := p.ExpandArchive(context.Background(), archive)
	require.NoError(t, err)

	// scan.png and subdir/pic.jpg succeed; broken.pdf fails (no rasterizer);
	// notes.txt and nested.zip are skipped; metadata entries vanish silently.
	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.ElementsMatch(t, []string{"notes.txt", "nested.zip"}, result.SkippedEntries)
	assert.Len(t, result.Items, 3)

	var failed *domain.FailureMarker
	for _, item := range result.Items {
		if item.Failure != nil {
			failed = item.Failure
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "broken.pdf", failed.Entry)
}

func TestExpandArchive_FaultIsolation(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	// First entry fails extraction, the rest succeed.
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, errors.New("model unavailable")).Once()
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&domain.ExtractedFields{InvoiceNumber: "OK"}, nil)

	archive := buildZip(t, map[string][]byte{
		"a.png": []byte("x"),
		"b.png": []byte("y"),
		"c.png": []byte("z"),
	})

	p := newProcessor(extractor)
	result, err := p.ExpandArchive(context.Background(), archive)
	require.NoError(t, err)

	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Empty(t, result.SkippedEntries)
}

func TestExpandArchive_RecordPerRowInsideArchive(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&domain.ExtractedFields{InvoiceNumber: "ROW"}, nil)

	archive := buildZip(t, map[string][]byte{
		"rows.csv": []byte("Invoice,Vendor\nINV-001,Acme\nINV-002,Globex\n"),
	})

	p := newProcessor(extractor)
	result, err := p.ExpandArchive(context.Background(), archive)
	require.NoError(t, err)

	// One CSV entry contributes two records; Recount follows the items.
	assert.Equal(t, 2, result.ProcessedCount)
	assert.Equal(t, 0, result.FailedCount)
}

func TestExpandArchive_Malformed(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	p := newProcessor(extractor)

	_, err := p.ExpandArchive(context.Background(), []byte("definitely not a zip"))
	assert.ErrorIs(t, err, domain.ErrMalformedArchive)
}

func TestExpandArchive_EmptyArchive(t *testing.T) {
	extractor := new(mocks.MockFieldExtractor)
	p := newProcessor(extractor)

	result, err := p.ExpandArchive(context.Background(), buildZip(t, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, result.ProcessedCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Empty(t, result.SkippedEntries)
	assert.Empty(t, result.Items)
}
