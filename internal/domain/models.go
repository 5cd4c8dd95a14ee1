package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Farmer is a registry record for an enrolled farmer. The registry is the
// system of record that uploaded documents are checked against.
type Farmer struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	NameEN        string     `db:"name_en" json:"name_en"`
	Phone         string     `db:"phone" json:"phone"`
	Village       string     `db:"village" json:"village"`
	District      string     `db:"district" json:"district"`
	State         string     `db:"state" json:"state"`
	AccountNumber string     `db:"account_number" json:"account_number"`
	IFSCCode      string     `db:"ifsc_code" json:"ifsc_code"`
	BankName      string     `db:"bank_name" json:"bank_name"`
	Aadhaar       string     `db:"aadhaar" json:"aadhaar"`
	SurveyNumber  string     `db:"survey_number" json:"survey_number"`
	AreaAcres     float64    `db:"area_acres" json:"area_acres"`
	EnrolledDate  *time.Time `db:"enrolled_date" json:"enrolled_date"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// FarmerPublic is the sanitized view of a farmer that may leave the service
// boundary. Bank and identity numbers are deliberately absent.
type FarmerPublic struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameEN   string `json:"name_en"`
	Village  string `json:"village"`
	District string `json:"district"`
	State    string `json:"state"`
}

// Public returns the sanitized view of the farmer.
func (f *Farmer) Public() *FarmerPublic {
	if f == nil {
		return nil
	}
	return &FarmerPublic{
		ID:       f.ID,
		Name:     f.Name,
		NameEN:   f.NameEN,
		Village:  f.Village,
		District: f.District,
		State:    f.State,
	}
}

// DisplayName prefers the transliterated name when present.
func (f *Farmer) DisplayName() string {
	if f.NameEN != "" {
		return f.NameEN
	}
	return f.Name
}

// User represents an authenticated user (field officer or admin).
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// VerificationDocument records one verification run over an uploaded document
// image, including the stored verdict.
type VerificationDocument struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	FarmerID    *string         `db:"farmer_id" json:"farmer_id"`
	FileName    string          `db:"file_name" json:"file_name"`
	S3Bucket    string          `db:"s3_bucket" json:"s3_bucket"`
	S3Key       string          `db:"s3_key" json:"s3_key"`
	ContentType string          `db:"content_type" json:"content_type"`
	FileSize    int64           `db:"file_size" json:"file_size"`
	Status      DocumentStatus  `db:"status" json:"status"`
	Language    Language        `db:"language" json:"language"`
	Engine      string          `db:"engine" json:"engine"`
	Confidence  float64         `db:"confidence" json:"confidence"`
	Verdict     json.RawMessage `db:"verdict" json:"verdict"`
	Summary     string          `db:"summary" json:"summary"`
	UploadedBy  uuid.UUID       `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
