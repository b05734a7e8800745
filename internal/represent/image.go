// Package represent converts raw upload bytes into the canonical inputs the
// extraction backends accept: encoded raster images for the vision path and
// per-row text listings for the spreadsheet/CSV path.
package represent

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"invodex/internal/domain"
)

// Image builds the image payload for a file in the image category. Web-safe
// formats pass through untouched with their native media type; TIFF and BMP
// are decoded and re-encoded to PNG.
func Image(data []byte, ext string) (*domain.ImagePayload, error) {
	if mt, ok := domain.NativeImageMediaType(ext); ok {
		return &domain.ImagePayload{Bytes: data, MediaType: mt}, nil
	}

	var (
		img image.Image
		err error
	)
	switch ext {
	case "tiff", "tif":
		img, err = tiff.Decode(bytes.NewReader(data))
	case "bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s image: %v", domain.ErrConversionFailed, ext, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding png: %v", domain.ErrConversionFailed, err)
	}
	return &domain.ImagePayload{Bytes: buf.Bytes(), MediaType: "image/png"}, nil
}
