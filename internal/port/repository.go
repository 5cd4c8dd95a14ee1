package port

import (
	"context"

	"github.com/google/uuid"

	"agriverify/internal/domain"
)

// FarmerRepository defines the contract for farmer registry persistence.
// ListAll returns the full registry in stable id order; the matcher builds its
// snapshot from that ordering.
type FarmerRepository interface {
	Create(ctx context.Context, farmer *domain.Farmer) error
	GetByID(ctx context.Context, id string) (*domain.Farmer, error)
	List(ctx context.Context, offset, limit int) ([]domain.Farmer, int, error)
	ListAll(ctx context.Context) ([]domain.Farmer, error)
	Update(ctx context.Context, farmer *domain.Farmer) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
}

// VerificationRepository defines the contract for verification document
// persistence.
type VerificationRepository interface {
	Create(ctx context.Context, doc *domain.VerificationDocument) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.VerificationDocument, error)
	List(ctx context.Context, offset, limit int) ([]domain.VerificationDocument, int, error)
	ListByFarmer(ctx context.Context, farmerID string, offset, limit int) ([]domain.VerificationDocument, int, error)
	UpdateResult(ctx context.Context, doc *domain.VerificationDocument) error
	Delete(ctx context.Context, docID uuid.UUID) error
}
