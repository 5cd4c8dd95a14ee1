package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agriverify/internal/config"
	"agriverify/internal/domain"
	"agriverify/internal/service"
	"agriverify/mocks"
)

func TestDocumentDelete_RemovesObjectAndRecord(t *testing.T) {
	docRepo := new(mocks.MockVerificationRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewDocumentService(docRepo, storage, config.S3Config{Bucket: "agriverify-test"})

	docID := uuid.New()
	docRepo.On("GetByID", mock.Anything, docID).Return(&domain.VerificationDocument{
		ID:       docID,
		S3Bucket: "agriverify-test",
		S3Key:    "verifications/abc.jpg",
	}, nil)
	storage.On("Delete", mock.Anything, "agriverify-test", "verifications/abc.jpg").Return(nil)
	docRepo.On("Delete", mock.Anything, docID).Return(nil)

	err := svc.Delete(context.Background(), docID)

	require.NoError(t, err)
	storage.AssertCalled(t, "Delete", mock.Anything, "agriverify-test", "verifications/abc.jpg")
	docRepo.AssertCalled(t, "Delete", mock.Anything, docID)
}

func TestDocumentDelete_StorageFailureStillDeletesRecord(t *testing.T) {
	docRepo := new(mocks.MockVerificationRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewDocumentService(docRepo, storage, config.S3Config{})

	docID := uuid.New()
	docRepo.On("GetByID", mock.Anything, docID).Return(&domain.VerificationDocument{
		ID:       docID,
		S3Bucket: "agriverify-test",
		S3Key:    "verifications/abc.jpg",
	}, nil)
	storage.On("Delete", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("s3 down"))
	docRepo.On("Delete", mock.Anything, docID).Return(nil)

	err := svc.Delete(context.Background(), docID)

	require.NoError(t, err)
	docRepo.AssertCalled(t, "Delete", mock.Anything, docID)
}

func TestDocumentDelete_UnknownDocument(t *testing.T) {
	docRepo := new(mocks.MockVerificationRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewDocumentService(docRepo, storage, config.S3Config{})

	docID := uuid.New()
	docRepo.On("GetByID", mock.Anything, docID).Return(nil, domain.ErrNotFound)

	err := svc.Delete(context.Background(), docID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
