package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"agriverify/internal/domain"
	"agriverify/internal/port"
)

type verificationRepo struct {
	db *sqlx.DB
}

// NewVerificationRepo creates a new PostgreSQL-backed VerificationRepository.
func NewVerificationRepo(db *sqlx.DB) port.VerificationRepository {
	return &verificationRepo{db: db}
}

func (r *verificationRepo) Create(ctx context.Context, doc *domain.VerificationDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO verification_documents (id, farmer_id, file_name, s3_bucket, s3_key,
		content_type, file_size, status, language, engine, confidence, verdict, summary,
		uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.FarmerID, doc.FileName, doc.S3Bucket, doc.S3Key,
		doc.ContentType, doc.FileSize, doc.Status, doc.Language, doc.Engine,
		doc.Confidence, doc.Verdict, doc.Summary, doc.UploadedBy,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("verificationRepo.Create: %w", err)
	}
	return nil
}

func (r *verificationRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.VerificationDocument, error) {
	var doc domain.VerificationDocument
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM verification_documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("verificationRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *verificationRepo) List(ctx context.Context, offset, limit int) ([]domain.VerificationDocument, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM verification_documents"); err != nil {
		return nil, 0, fmt.Errorf("verificationRepo.List count: %w", err)
	}

	var docs []domain.VerificationDocument
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM verification_documents ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("verificationRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *verificationRepo) ListByFarmer(ctx context.Context, farmerID string, offset, limit int) ([]domain.VerificationDocument, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM verification_documents WHERE farmer_id = $1", farmerID)
	if err != nil {
		return nil, 0, fmt.Errorf("verificationRepo.ListByFarmer count: %w", err)
	}

	var docs []domain.VerificationDocument
	err = r.db.SelectContext(ctx, &docs,
		"SELECT * FROM verification_documents WHERE farmer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		farmerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("verificationRepo.ListByFarmer: %w", err)
	}
	return docs, total, nil
}

func (r *verificationRepo) UpdateResult(ctx context.Context, doc *domain.VerificationDocument) error {
	doc.UpdatedAt = time.Now().UTC()

	query := `UPDATE verification_documents SET farmer_id = $2, status = $3, language = $4,
		engine = $5, confidence = $6, verdict = $7, summary = $8, updated_at = $9
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.FarmerID, doc.Status, doc.Language, doc.Engine,
		doc.Confidence, doc.Verdict, doc.Summary, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("verificationRepo.UpdateResult: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verificationRepo.UpdateResult rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *verificationRepo) Delete(ctx context.Context, docID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM verification_documents WHERE id = $1", docID)
	if err != nil {
		return fmt.Errorf("verificationRepo.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verificationRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
