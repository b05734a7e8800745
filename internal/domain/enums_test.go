package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileExt(t *testing.T) {
	assert.Equal(t, "png", FileExt("scan.png"))
	assert.Equal(t, "pdf", FileExt("Invoice.PDF"))
	assert.Equal(t, "gz", FileExt("archive.tar.gz"))
	assert.Equal(t, "", FileExt("README"))
	assert.Equal(t, "", FileExt("trailing."))
	assert.Equal(t, "hidden", FileExt(".hidden"))
}

func TestClassifyFilename(t *testing.T) {
	tests := []struct {
		name string
		want FileCategory
	}{
		{"scan.png", CategoryImage},
		{"photo.JPG", CategoryImage},
		{"photo.jpeg", CategoryImage},
		{"pic.webp", CategoryImage},
		{"anim.gif", CategoryImage},
		{"fax.tiff", CategoryImage},
		{"fax.tif", CategoryImage},
		{"old.bmp", CategoryImage},
		{"invoice.pdf", CategoryPDF},
		{"book.xlsx", CategorySpreadsheet},
		{"book.xls", CategorySpreadsheet},
		{"rows.csv", CategoryCSV},
		{"batch.zip", CategoryArchive},
		{"notes.txt", CategoryUnsupported},
		{"archive.rar", CategoryUnsupported},
		{"noext", CategoryUnsupported},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyFilename(tt.name), "filename %s", tt.name)
	}
}

func TestNativeImageMediaType(t *testing.T) {
	mt, ok := NativeImageMediaType("jpg")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", mt)

	mt, ok = NativeImageMediaType("png")
	assert.True(t, ok)
	assert.Equal(t, "image/png", mt)

	// TIFF and BMP require conversion and are not web-safe.
	_, ok = NativeImageMediaType("tiff")
	assert.False(t, ok)
	_, ok = NativeImageMediaType("bmp")
	assert.False(t, ok)
}
