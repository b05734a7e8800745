package domain

import "errors"

var (
	// Validation errors: bad input, rejected before any side effect.
	ErrEmptyFile         = errors.New("uploaded file is empty")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedArchive  = errors.New("malformed zip archive")
	ErrNoDataRows        = errors.New("no data rows after header")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")

	// ErrConversionFailed marks an image or PDF that could not be decoded.
	ErrConversionFailed = errors.New("file conversion failed")

	// ErrCapabilityUnavailable marks a missing optional runtime feature
	// (e.g. the PDF rasterizer binary), distinct from bad input so operators
	// can tell the two apart.
	ErrCapabilityUnavailable = errors.New("required processing capability unavailable")

	// ErrExtractionFailed marks an extraction backend call that failed or
	// returned unparsable output.
	ErrExtractionFailed = errors.New("field extraction failed")

	// ErrPersistenceFailed marks a store write that failed after the record
	// was fully sanitized.
	ErrPersistenceFailed = errors.New("invoice persistence failed")
)
