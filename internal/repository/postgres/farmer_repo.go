package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"agriverify/internal/domain"
	"agriverify/internal/port"
)

type farmerRepo struct {
	db *sqlx.DB
}

// NewFarmerRepo creates a new PostgreSQL-backed FarmerRepository.
func NewFarmerRepo(db *sqlx.DB) port.FarmerRepository {
	return &farmerRepo{db: db}
}

func (r *farmerRepo) Create(ctx context.Context, farmer *domain.Farmer) error {
	now := time.Now().UTC()
	farmer.CreatedAt = now
	farmer.UpdatedAt = now

	query := `INSERT INTO farmers (id, name, name_en, phone, village, district, state,
		account_number, ifsc_code, bank_name, aadhaar, survey_number, area_acres,
		enrolled_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		farmer.ID, farmer.Name, farmer.NameEN, farmer.Phone, farmer.Village,
		farmer.District, farmer.State, farmer.AccountNumber, farmer.IFSCCode,
		farmer.BankName, farmer.Aadhaar, farmer.SurveyNumber, farmer.AreaAcres,
		farmer.EnrolledDate, farmer.CreatedAt, farmer.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateFarmerID
		}
		return fmt.Errorf("farmerRepo.Create: %w", err)
	}
	return nil
}

func (r *farmerRepo) GetByID(ctx context.Context, id string) (*domain.Farmer, error) {
	var farmer domain.Farmer
	err := r.db.GetContext(ctx, &farmer, "SELECT * FROM farmers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("farmerRepo.GetByID: %w", err)
	}
	return &farmer, nil
}

func (r *farmerRepo) List(ctx context.Context, offset, limit int) ([]domain.Farmer, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM farmers"); err != nil {
		return nil, 0, fmt.Errorf("farmerRepo.List count: %w", err)
	}

	var farmers []domain.Farmer
	err := r.db.SelectContext(ctx, &farmers,
		"SELECT * FROM farmers ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("farmerRepo.List: %w", err)
	}
	return farmers, total, nil
}

func (r *farmerRepo) ListAll(ctx context.Context) ([]domain.Farmer, error) {
	var farmers []domain.Farmer
	err := r.db.SelectContext(ctx, &farmers, "SELECT * FROM farmers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("farmerRepo.ListAll: %w", err)
	}
	return farmers, nil
}

func (r *farmerRepo) Update(ctx context.Context, farmer *domain.Farmer) error {
	farmer.UpdatedAt = time.Now().UTC()

	query := `UPDATE farmers SET name = $2, name_en = $3, phone = $4, village = $5,
		district = $6, state = $7, account_number = $8, ifsc_code = $9, bank_name = $10,
		aadhaar = $11, survey_number = $12, area_acres = $13, enrolled_date = $14,
		updated_at = $15
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		farmer.ID, farmer.Name, farmer.NameEN, farmer.Phone, farmer.Village,
		farmer.District, farmer.State, farmer.AccountNumber, farmer.IFSCCode,
		farmer.BankName, farmer.Aadhaar, farmer.SurveyNumber, farmer.AreaAcres,
		farmer.EnrolledDate, farmer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("farmerRepo.Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("farmerRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *farmerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM farmers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("farmerRepo.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("farmerRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
