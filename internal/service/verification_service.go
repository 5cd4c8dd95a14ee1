package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"agriverify/internal/config"
	"agriverify/internal/domain"
	"agriverify/internal/extract"
	"agriverify/internal/match"
	"agriverify/internal/port"
	"agriverify/internal/quality"
)

// rawTextLimit caps the recognized text echoed back in verify responses.
const rawTextLimit = 1000

// VerifyInput is the DTO for a full verification run.
type VerifyInput struct {
	FileName    string
	ContentType string
	Image       []byte
	UploadedBy  uuid.UUID
}

// OCRResult is the recognition portion of a verification response.
type OCRResult struct {
	RawText    string          `json:"raw_text"`
	Language   domain.Language `json:"detected_language"`
	Confidence float64         `json:"confidence"`
	Fields     *extract.Fields `json:"fields"`
	Engine     string          `json:"ocr_engine"`
}

// ValidationResult is the matcher portion of a verification response, with
// the matched farmer reduced to its public view.
type ValidationResult struct {
	IsValid       bool                        `json:"is_valid"`
	Confidence    float64                     `json:"confidence"`
	MatchedFarmer *domain.FarmerPublic        `json:"matched_farmer"`
	FieldMatches  map[string]match.FieldMatch `json:"field_matches"`
	Issues        []string                    `json:"issues"`
	Warnings      []string                    `json:"warnings"`
}

// VerifyResult is the full verification pipeline outcome.
type VerifyResult struct {
	DocumentID uuid.UUID         `json:"document_id"`
	Success    bool              `json:"success"`
	Quality    *quality.Report   `json:"quality"`
	OCR        *OCRResult        `json:"ocr_result,omitempty"`
	Validation *ValidationResult `json:"validation,omitempty"`
	Summary    string            `json:"summary"`
	NextSteps  []string          `json:"next_steps"`
}

// VerificationService runs the document verification pipeline: quality gate,
// text recognition, field extraction, registry matching.
type VerificationService interface {
	Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error)
	CheckQuality(ctx context.Context, image []byte) (*quality.Report, error)
	Recognize(ctx context.Context, image []byte, contentType string) (*OCRResult, error)
	ValidateFields(fields *extract.Fields) (*ValidationResult, error)
}

type verificationService struct {
	analyzer   port.QualityAnalyzer
	policy     *quality.Policy
	recognizer port.TextRecognizer
	extractor  *extract.Extractor
	matcher    *match.Matcher
	registry   RegistryService
	storage    port.ObjectStorage
	docRepo    port.VerificationRepository
	email      port.EmailSender
	s3cfg      config.S3Config
	emailCfg   config.EmailConfig
}

// NewVerificationService creates a VerificationService with all pipeline
// collaborators injected.
func NewVerificationService(
	analyzer port.QualityAnalyzer,
	policy *quality.Policy,
	rec port.TextRecognizer,
	extractor *extract.Extractor,
	matcher *match.Matcher,
	registry RegistryService,
	storage port.ObjectStorage,
	docRepo port.VerificationRepository,
	email port.EmailSender,
	s3cfg config.S3Config,
	emailCfg config.EmailConfig,
) VerificationService {
	return &verificationService{
		analyzer:   analyzer,
		policy:     policy,
		recognizer: rec,
		extractor:  extractor,
		matcher:    matcher,
		registry:   registry,
		storage:    storage,
		docRepo:    docRepo,
		email:      email,
		s3cfg:      s3cfg,
		emailCfg:   emailCfg,
	}
}

func (s *verificationService) Verify(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	if _, ok := domain.AllowedContentTypes[input.ContentType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	if int64(len(input.Image)) > s.s3cfg.MaxFileSizeMB*1024*1024 {
		return nil, domain.ErrFileTooLarge
	}

	doc := &domain.VerificationDocument{
		ID:          uuid.New(),
		FileName:    input.FileName,
		S3Bucket:    s.s3cfg.Bucket,
		S3Key:       fmt.Sprintf("verifications/%s%s", uuid.New().String(), extensionFor(input.ContentType)),
		ContentType: input.ContentType,
		FileSize:    int64(len(input.Image)),
		Status:      domain.DocumentStatusPending,
		Language:    domain.LanguageUnknown,
		UploadedBy:  input.UploadedBy,
	}

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      doc.S3Bucket,
		Key:         doc.S3Key,
		Body:        bytes.NewReader(input.Image),
		ContentType: input.ContentType,
	}); err != nil {
		log.Printf("verificationService.Verify: upload failed: %v", err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("verificationService.Verify: %w", err)
	}

	result := &VerifyResult{DocumentID: doc.ID}

	// Step 1: quality gate. An analyzer failure means the image itself is
	// unreadable, which is a verdict, not a server error.
	var report *quality.Report
	metrics, err := s.analyzer.Analyze(ctx, input.Image)
	if err != nil {
		log.Printf("verificationService.Verify: analyzer failed for %s: %v", doc.ID, err)
		report = quality.Unreadable()
	} else {
		report = s.policy.Decide(metrics)
	}
	result.Quality = report

	if !report.IsAcceptable {
		result.Summary = "Document quality insufficient for processing."
		result.NextSteps = append(append([]string{}, report.Suggestions...),
			"Please retake the photo with better lighting and focus")
		doc.Status = domain.DocumentStatusRejected
		doc.Summary = result.Summary
		s.persistResult(ctx, doc)
		return result, nil
	}

	// Step 2: text recognition.
	recOut, err := s.recognizer.Recognize(ctx, port.RecognitionInput{
		Image:       input.Image,
		ContentType: input.ContentType,
	})
	if err != nil {
		result.Summary = fmt.Sprintf("OCR processing failed: %v", err)
		result.NextSteps = []string{"Please try again or contact support"}
		doc.Status = domain.DocumentStatusFailed
		doc.Summary = result.Summary
		s.persistResult(ctx, doc)
		return result, nil
	}

	// Step 3: field extraction.
	fields := s.extractor.Extract(recOut.Text)
	language := extract.DetectLanguage(recOut.Text)
	result.OCR = &OCRResult{
		RawText:    truncate(recOut.Text, rawTextLimit),
		Language:   language,
		Confidence: recOut.Confidence,
		Fields:     fields,
		Engine:     recOut.Engine,
	}
	doc.Language = language
	doc.Engine = recOut.Engine

	if fields.Empty() {
		result.Summary = "Could not extract any fields from document."
		result.NextSteps = []string{
			"Ensure document contains visible name, account number, or land details",
			"Try uploading a clearer image",
		}
		doc.Status = domain.DocumentStatusNeedsReview
		doc.Summary = result.Summary
		s.persistResult(ctx, doc)
		s.notifyReview(ctx, doc, result, nil)
		return result, nil
	}

	// Step 4: registry matching.
	verdict := s.matcher.Validate(s.registry.Snapshot(), fields)
	validation := sanitizeVerdict(verdict)
	result.Validation = validation
	result.Success = verdict.IsValid

	if verdict.IsValid {
		result.Summary = fmt.Sprintf("Document verified! Matched farmer: %s", verdict.MatchedFarmer.DisplayName())
		doc.Status = domain.DocumentStatusVerified
		doc.FarmerID = &verdict.MatchedFarmer.ID
	} else {
		result.Summary = fmt.Sprintf("Document needs review. %d issue(s) found.", len(verdict.Issues))
		doc.Status = domain.DocumentStatusNeedsReview
		if verdict.MatchedFarmer != nil {
			doc.FarmerID = &verdict.MatchedFarmer.ID
		}
	}
	result.NextSteps = assembleNextSteps(verdict, fields)
	doc.Confidence = verdict.Confidence
	doc.Summary = result.Summary
	if verdictJSON, err := json.Marshal(validation); err == nil {
		doc.Verdict = verdictJSON
	}
	s.persistResult(ctx, doc)

	if doc.Status == domain.DocumentStatusNeedsReview {
		s.notifyReview(ctx, doc, result, verdict)
	}
	return result, nil
}

func (s *verificationService) CheckQuality(ctx context.Context, image []byte) (*quality.Report, error) {
	metrics, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		log.Printf("verificationService.CheckQuality: analyzer failed: %v", err)
		return quality.Unreadable(), nil
	}
	return s.policy.Decide(metrics), nil
}

func (s *verificationService) Recognize(ctx context.Context, image []byte, contentType string) (*OCRResult, error) {
	if _, ok := domain.AllowedContentTypes[contentType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	recOut, err := s.recognizer.Recognize(ctx, port.RecognitionInput{
		Image:       image,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("verificationService.Recognize: %w", err)
	}

	return &OCRResult{
		RawText:    recOut.Text,
		Language:   extract.DetectLanguage(recOut.Text),
		Confidence: recOut.Confidence,
		Fields:     s.extractor.Extract(recOut.Text),
		Engine:     recOut.Engine,
	}, nil
}

func (s *verificationService) ValidateFields(fields *extract.Fields) (*ValidationResult, error) {
	if fields == nil || fields.Empty() {
		return nil, domain.ErrNoFieldsProvided
	}
	verdict := s.matcher.Validate(s.registry.Snapshot(), fields)
	return sanitizeVerdict(verdict), nil
}

// persistResult records the pipeline outcome. Persistence failure does not
// void a verdict that was already computed.
func (s *verificationService) persistResult(ctx context.Context, doc *domain.VerificationDocument) {
	if err := s.docRepo.UpdateResult(ctx, doc); err != nil {
		log.Printf("verificationService: persisting result for %s failed: %v", doc.ID, err)
	}
}

func (s *verificationService) notifyReview(ctx context.Context, doc *domain.VerificationDocument, result *VerifyResult, verdict *match.Verdict) {
	if s.emailCfg.ReviewRecipient == "" {
		return
	}
	n := port.ReviewNotification{
		DocumentID: doc.ID.String(),
		FileName:   doc.FileName,
		Summary:    result.Summary,
	}
	if verdict != nil {
		n.Issues = verdict.Issues
		n.Warnings = verdict.Warnings
		if verdict.MatchedFarmer != nil {
			n.FarmerName = verdict.MatchedFarmer.DisplayName()
		}
	}
	if err := s.email.SendReviewNeeded(ctx, s.emailCfg.ReviewRecipient, n); err != nil {
		log.Printf("verificationService: review notification for %s failed: %v", doc.ID, err)
	}
}

// assembleNextSteps derives follow-up instructions from the verdict. Fields
// the matcher scores but that were absent from extraction come first; an
// invalid verdict then carries its review guidance.
func assembleNextSteps(verdict *match.Verdict, fields *extract.Fields) []string {
	steps := missingMatchFields(fields)
	if verdict.IsValid {
		return append(steps, "Document ready for processing", "No further action required")
	}
	if len(verdict.Warnings) > 0 {
		steps = append(steps, "Flag the document for manual review")
	}
	if len(verdict.Issues) > 0 {
		steps = append(steps, verdict.Issues...)
	} else {
		steps = append(steps, "Please verify and re-upload if needed")
	}
	return append(steps, "Cross-check the extracted details against farmer records before approving")
}

func missingMatchFields(fields *extract.Fields) []string {
	var steps []string
	for _, mf := range []struct {
		val   *string
		label string
	}{
		{fields.Name, "name"},
		{fields.AccountNumber, "account number"},
		{fields.IFSCCode, "IFSC code"},
		{fields.SurveyNumber, "survey number"},
	} {
		if mf.val == nil || *mf.val == "" {
			steps = append(steps, fmt.Sprintf("Document does not show a readable %s", mf.label))
		}
	}
	return steps
}

func sanitizeVerdict(v *match.Verdict) *ValidationResult {
	return &ValidationResult{
		IsValid:       v.IsValid,
		Confidence:    v.Confidence,
		MatchedFarmer: v.MatchedFarmer.Public(),
		FieldMatches:  v.FieldMatches,
		Issues:        v.Issues,
		Warnings:      v.Warnings,
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
