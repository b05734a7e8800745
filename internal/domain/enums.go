package domain

import "strings"

// FileCategory is the routing category derived from an upload's filename.
type FileCategory string

const (
	CategoryImage       FileCategory = "image"
	CategoryPDF         FileCategory = "pdf"
	CategorySpreadsheet FileCategory = "spreadsheet"
	CategoryCSV         FileCategory = "csv"
	CategoryArchive     FileCategory = "archive"
	CategoryUnsupported FileCategory = "unsupported"
)

// categoryByExt maps a lowercase filename suffix to its category.
var categoryByExt = map[string]FileCategory{
	"png":  CategoryImage,
	"jpg":  CategoryImage,
	"jpeg": CategoryImage,
	"webp": CategoryImage,
	"gif":  CategoryImage,
	"tiff": CategoryImage,
	"tif":  CategoryImage,
	"bmp":  CategoryImage,
	"pdf":  CategoryPDF,
	"xlsx": CategorySpreadsheet,
	"xls":  CategorySpreadsheet,
	"csv":  CategoryCSV,
	"zip":  CategoryArchive,
}

// nativeImageMediaTypes maps web-safe image suffixes to their MIME types.
// TIFF and BMP are deliberately missing: they are re-encoded to PNG first.
var nativeImageMediaTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
}

// FileExt returns the lowercase suffix after the last dot, without the dot.
// Returns "" when the name has no dot.
func FileExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// ClassifyFilename maps a filename to its processing category. Classification
// is suffix-driven only; no content sniffing.
func ClassifyFilename(name string) FileCategory {
	if cat, ok := categoryByExt[FileExt(name)]; ok {
		return cat
	}
	return CategoryUnsupported
}

// NativeImageMediaType returns the MIME type for a web-safe image suffix.
func NativeImageMediaType(ext string) (string, bool) {
	mt, ok := nativeImageMediaTypes[ext]
	return mt, ok
}

// PaymentStatus is the closed set of invoice payment states.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
	PaymentStatusDue     PaymentStatus = "Due"
	PaymentStatusOverdue PaymentStatus = "Overdue"
	PaymentStatusUnknown PaymentStatus = "Unknown"
)

// ValidPaymentStatuses enumerates every storable payment status.
var ValidPaymentStatuses = map[PaymentStatus]bool{
	PaymentStatusPaid:    true,
	PaymentStatusUnpaid:  true,
	PaymentStatusDue:     true,
	PaymentStatusOverdue: true,
	PaymentStatusUnknown: true,
}
