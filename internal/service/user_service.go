package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"agriverify/internal/domain"
	"agriverify/internal/port"
)

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required,oneof=admin officer"`
}

// UserService defines user administration operations.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
}

type userService struct {
	userRepo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(userRepo port.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("userService.Create: %w", err)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	return s.userRepo.List(ctx, offset, limit)
}
