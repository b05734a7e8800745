package represent

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"invodex/internal/config"
	"invodex/internal/domain"
)

// Rasterizer renders the first page of a PDF to PNG by shelling out to
// poppler's pdftoppm. Multi-page invoices are not supported: only page one
// is rendered.
type Rasterizer struct {
	binary string
	dpi    int
}

// NewRasterizer creates a Rasterizer from config. An empty binary name
// defaults to "pdftoppm"; a zero DPI defaults to 144, twice the nominal
// 72 dpi page size.
func NewRasterizer(cfg *config.PDFConfig) *Rasterizer {
	binary := cfg.Pdftoppm
	if binary == "" {
		binary = "pdftoppm"
	}
	dpi := cfg.DPI
	if dpi == 0 {
		dpi = 144
	}
	return &Rasterizer{binary: binary, dpi: dpi}
}

// Available reports whether the rasterizer binary can be found. A missing
// binary is a capability error, not a conversion failure.
func (r *Rasterizer) Available() error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return fmt.Errorf("%w: %s not found in PATH (install poppler-utils)", domain.ErrCapabilityUnavailable, r.binary)
	}
	return nil
}

// FirstPagePNG renders page one of the given PDF bytes as PNG. The
// capability check runs first so a missing binary fails fast, before any
// temp files are written or AI calls attempted.
func (r *Rasterizer) FirstPagePNG(ctx context.Context, pdf []byte) ([]byte, error) {
	if err := r.Available(); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "invodex-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Printf("represent.Rasterizer: failed to remove temp dir %q: %v", tmpDir, err)
		}
	}()

	in := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return nil, fmt.Errorf("writing temp pdf: %w", err)
	}

	// pdftoppm -png -f 1 -l 1 -r <dpi> input.pdf <tmp>/page
	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, r.binary, "-png", "-f", "1", "-l", "1", "-r", strconv.Itoa(r.dpi), in, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%w: pdftoppm: %v: %s", domain.ErrConversionFailed, err, bytes.TrimSpace(out))
	}

	// Page numbering in the output filename is zero-padded to the document's
	// page count, so glob rather than guess.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: pdftoppm produced no pages", domain.ErrConversionFailed)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("reading rendered page: %w", err)
	}
	return data, nil
}
