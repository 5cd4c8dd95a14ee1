package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"agriverify/internal/config"
	"agriverify/internal/csvexport"
	"agriverify/internal/domain"
	"agriverify/internal/port"
)

// exportBatchSize is how many rows are fetched per page during CSV export.
const exportBatchSize = 500

// DocumentService exposes stored verification documents.
type DocumentService interface {
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.VerificationDocument, error)
	List(ctx context.Context, offset, limit int) ([]domain.VerificationDocument, int, error)
	ListByFarmer(ctx context.Context, farmerID string, offset, limit int) ([]domain.VerificationDocument, int, error)
	GetImageURL(ctx context.Context, docID uuid.UUID) (string, error)
	Delete(ctx context.Context, docID uuid.UUID) error
	ExportCSV(ctx context.Context, w io.Writer) error
}

type documentService struct {
	docRepo port.VerificationRepository
	storage port.ObjectStorage
	s3cfg   config.S3Config
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(docRepo port.VerificationRepository, storage port.ObjectStorage, s3cfg config.S3Config) DocumentService {
	return &documentService{
		docRepo: docRepo,
		storage: storage,
		s3cfg:   s3cfg,
	}
}

func (s *documentService) GetByID(ctx context.Context, docID uuid.UUID) (*domain.VerificationDocument, error) {
	return s.docRepo.GetByID(ctx, docID)
}

func (s *documentService) List(ctx context.Context, offset, limit int) ([]domain.VerificationDocument, int, error) {
	return s.docRepo.List(ctx, offset, limit)
}

func (s *documentService) ListByFarmer(ctx context.Context, farmerID string, offset, limit int) ([]domain.VerificationDocument, int, error) {
	return s.docRepo.ListByFarmer(ctx, farmerID, offset, limit)
}

// GetImageURL returns a presigned URL for the stored document image.
func (s *documentService) GetImageURL(ctx context.Context, docID uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	url, err := s.storage.GetPresignedURL(ctx, doc.S3Bucket, doc.S3Key, s.s3cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("documentService.GetImageURL: %w", err)
	}
	return url, nil
}

// Delete removes the stored image and then the document record. A storage
// failure is logged and does not block removing the record.
func (s *documentService) Delete(ctx context.Context, docID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, doc.S3Bucket, doc.S3Key); err != nil {
		log.Printf("documentService.Delete: removing object %s/%s failed: %v", doc.S3Bucket, doc.S3Key, err)
	}
	return s.docRepo.Delete(ctx, docID)
}

// ExportCSV streams all verification documents to w as CSV, with a UTF-8 BOM
// for spreadsheet compatibility.
func (s *documentService) ExportCSV(ctx context.Context, w io.Writer) error {
	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("documentService.ExportCSV: %w", err)
	}

	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("documentService.ExportCSV header: %w", err)
	}

	for offset := 0; ; offset += exportBatchSize {
		docs, total, err := s.docRepo.List(ctx, offset, exportBatchSize)
		if err != nil {
			return fmt.Errorf("documentService.ExportCSV page at %d: %w", offset, err)
		}
		if err := cw.WriteDocuments(docs); err != nil {
			return fmt.Errorf("documentService.ExportCSV rows: %w", err)
		}
		if offset+len(docs) >= total || len(docs) == 0 {
			break
		}
	}

	cw.Flush()
	return cw.Error()
}
