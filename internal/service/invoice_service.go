package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime"

	"github.com/google/uuid"

	"invodex/internal/domain"
	"invodex/internal/port"
)

// UploadResult is the normalized outcome of one upload. Records is set for
// single-file uploads (one entry for images/PDFs, one per row for sheets);
// Batch is set for archive uploads.
type UploadResult struct {
	Records []domain.InvoiceRecord `json:"records,omitempty"`
	Batch   *domain.BatchResult    `json:"batch,omitempty"`
}

// InvoiceService drives the extraction pipeline and persists its output.
type InvoiceService interface {
	ProcessUpload(ctx context.Context, filename string, data []byte) (*UploadResult, error)
	List(ctx context.Context) ([]domain.InvoiceRecord, error)
}

type invoiceService struct {
	repo      port.InvoiceRepository
	storage   port.ObjectStorage
	processor port.DocumentProcessor
	bucket    string
}

// NewInvoiceService creates an InvoiceService. An empty bucket disables
// raw-upload archival; storage may then be nil.
func NewInvoiceService(repo port.InvoiceRepository, storage port.ObjectStorage, processor port.DocumentProcessor, bucket string) InvoiceService {
	return &invoiceService{
		repo:      repo,
		storage:   storage,
		processor: processor,
		bucket:    bucket,
	}
}

func (s *invoiceService) ProcessUpload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyFile
	}

	cat := domain.ClassifyFilename(filename)
	if cat == domain.CategoryUnsupported {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFormat, domain.FileExt(filename))
	}

	storageKey := s.archiveOriginal(ctx, filename, data)

	if cat == domain.CategoryArchive {
		return s.processArchive(ctx, data, storageKey)
	}

	records, err := s.processor.Process(ctx, data, filename)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].ID = uuid.New()
		records[i].StorageKey = storageKey
		if err := s.repo.Create(ctx, &records[i]); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
		}
	}
	return &UploadResult{Records: records}, nil
}

// processArchive expands the archive and persists each successful record.
// A failed write inside a batch downgrades that item to a failure marker
// instead of failing the whole batch, matching the per-entry isolation of
// the expander itself.
func (s *invoiceService) processArchive(ctx context.Context, data []byte, storageKey *string) (*UploadResult, error) {
	batch, err := s.processor.ExpandArchive(ctx, data)
	if err != nil {
		return nil, err
	}

	for i := range batch.Items {
		rec := batch.Items[i].Record
		if rec == nil {
			continue
		}
		rec.ID = uuid.New()
		rec.StorageKey = storageKey
		if err := s.repo.Create(ctx, rec); err != nil {
			log.Printf("invoiceService.processArchive: persisting record from %s failed: %v", rec.SourceFile, err)
			batch.Items[i] = domain.BatchItem{Failure: &domain.FailureMarker{
				Entry:  rec.SourceFile,
				Reason: fmt.Sprintf("%v: %v", domain.ErrPersistenceFailed, err),
			}}
		}
	}
	batch.Recount()
	return &UploadResult{Batch: batch}, nil
}

// archiveOriginal copies the raw upload to object storage. Archival is
// best-effort: a storage failure is logged and the request continues.
func (s *invoiceService) archiveOriginal(ctx context.Context, filename string, data []byte) *string {
	if s.bucket == "" || s.storage == nil {
		return nil
	}

	key := "uploads/" + uuid.New().String() + "/" + filename
	contentType := mime.TypeByExtension("." + domain.FileExt(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: contentType,
	}); err != nil {
		log.Printf("invoiceService.archiveOriginal: archiving %s failed: %v", filename, err)
		return nil
	}
	return &key
}

func (s *invoiceService) List(ctx context.Context) ([]domain.InvoiceRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}
	return records, nil
}
