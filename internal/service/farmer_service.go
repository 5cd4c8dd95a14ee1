package service

import (
	"context"
	"log"
	"time"

	"agriverify/internal/domain"
	"agriverify/internal/match"
	"agriverify/internal/port"
)

// FarmerInput is the DTO for creating or updating a farmer record.
type FarmerInput struct {
	ID            string     `json:"id" binding:"required"`
	Name          string     `json:"name" binding:"required"`
	NameEN        string     `json:"name_en"`
	Phone         string     `json:"phone"`
	Village       string     `json:"village"`
	District      string     `json:"district"`
	State         string     `json:"state"`
	AccountNumber string     `json:"account_number"`
	IFSCCode      string     `json:"ifsc_code"`
	BankName      string     `json:"bank_name"`
	Aadhaar       string     `json:"aadhaar"`
	SurveyNumber  string     `json:"survey_number"`
	AreaAcres     float64    `json:"area_acres"`
	EnrolledDate  *time.Time `json:"enrolled_date"`
}

// FarmerService defines farmer registry administration operations.
type FarmerService interface {
	Create(ctx context.Context, input FarmerInput) (*domain.Farmer, error)
	GetByID(ctx context.Context, id string) (*domain.Farmer, error)
	List(ctx context.Context, offset, limit int) ([]domain.Farmer, int, error)
	Update(ctx context.Context, id string, input FarmerInput) (*domain.Farmer, error)
	Delete(ctx context.Context, id string) error
	FindSimilar(name string, limit int) []match.SimilarFarmer
}

type farmerService struct {
	farmerRepo port.FarmerRepository
	registry   RegistryService
}

// NewFarmerService creates a new FarmerService implementation.
func NewFarmerService(farmerRepo port.FarmerRepository, registry RegistryService) FarmerService {
	return &farmerService{
		farmerRepo: farmerRepo,
		registry:   registry,
	}
}

func (s *farmerService) Create(ctx context.Context, input FarmerInput) (*domain.Farmer, error) {
	farmer := farmerFromInput(input)
	if err := s.farmerRepo.Create(ctx, farmer); err != nil {
		return nil, err
	}
	s.refreshRegistry(ctx)
	return farmer, nil
}

func (s *farmerService) GetByID(ctx context.Context, id string) (*domain.Farmer, error) {
	return s.farmerRepo.GetByID(ctx, id)
}

func (s *farmerService) List(ctx context.Context, offset, limit int) ([]domain.Farmer, int, error) {
	return s.farmerRepo.List(ctx, offset, limit)
}

func (s *farmerService) Update(ctx context.Context, id string, input FarmerInput) (*domain.Farmer, error) {
	farmer := farmerFromInput(input)
	farmer.ID = id
	if err := s.farmerRepo.Update(ctx, farmer); err != nil {
		return nil, err
	}
	s.refreshRegistry(ctx)
	return farmer, nil
}

func (s *farmerService) Delete(ctx context.Context, id string) error {
	if err := s.farmerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshRegistry(ctx)
	return nil
}

// FindSimilar suggests registry records whose names resemble the query. It
// reads the current snapshot, so very recent writes may not appear until the
// next refresh completes.
func (s *farmerService) FindSimilar(name string, limit int) []match.SimilarFarmer {
	return s.registry.Snapshot().SimilarFarmers(name, limit)
}

// refreshRegistry keeps the matching snapshot current after a write. A
// failed refresh is logged, not returned: the write itself succeeded and
// the periodic refresher will catch up.
func (s *farmerService) refreshRegistry(ctx context.Context) {
	if _, err := s.registry.Refresh(ctx); err != nil {
		log.Printf("farmerService: registry refresh after write failed: %v", err)
	}
}

func farmerFromInput(input FarmerInput) *domain.Farmer {
	return &domain.Farmer{
		ID:            input.ID,
		Name:          input.Name,
		NameEN:        input.NameEN,
		Phone:         input.Phone,
		Village:       input.Village,
		District:      input.District,
		State:         input.State,
		AccountNumber: input.AccountNumber,
		IFSCCode:      input.IFSCCode,
		BankName:      input.BankName,
		Aadhaar:       input.Aadhaar,
		SurveyNumber:  input.SurveyNumber,
		AreaAcres:     input.AreaAcres,
		EnrolledDate:  input.EnrolledDate,
	}
}
