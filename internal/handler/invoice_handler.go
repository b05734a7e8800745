package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"invodex/internal/csvexport"
	"invodex/internal/domain"
	"invodex/internal/service"
)

// InvoiceHandler handles invoice upload, listing, and export endpoints.
type InvoiceHandler struct {
	svc            service.InvoiceService
	maxUploadBytes int64
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(svc service.InvoiceService, maxUploadMB int64) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, maxUploadBytes: maxUploadMB << 20}
}

// Upload handles POST /api/v1/invoices/upload. One file per call: a single
// document yields its record(s), a zip archive yields a batch summary.
func (h *InvoiceHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	// Browsers may send a full client-side path; only the base name matters.
	result, err := h.svc.ProcessUpload(c.Request.Context(), filepath.Base(header.Filename), data)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// List handles GET /api/v1/invoices, newest-first.
func (h *InvoiceHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondList(c, records, ListMeta{Total: len(records)})
}

// ExportCSV handles GET /api/v1/invoices/export, streaming all records as a
// BOM-prefixed CSV download.
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="invoices.csv"`)
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteInvoices(records); err != nil {
		return
	}
	w.Flush()
}
