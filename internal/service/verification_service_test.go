package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agriverify/internal/config"
	"agriverify/internal/domain"
	"agriverify/internal/extract"
	"agriverify/internal/match"
	"agriverify/internal/port"
	"agriverify/internal/quality"
	"agriverify/internal/service"
	"agriverify/mocks"
)

type stubRegistry struct {
	snap *match.Snapshot
}

func (s *stubRegistry) Snapshot() *match.Snapshot            { return s.snap }
func (s *stubRegistry) Refresh(context.Context) (int, error) { return s.snap.Size(), nil }

type verifyFixture struct {
	analyzer *mocks.MockQualityAnalyzer
	rec      *mocks.MockTextRecognizer
	storage  *mocks.MockObjectStorage
	docRepo  *mocks.MockVerificationRepo
	email    *mocks.MockEmailSender
	svc      service.VerificationService

	persisted *domain.VerificationDocument
}

func testQualityConfig() config.QualityConfig {
	return config.QualityConfig{
		MinSharpness:     30,
		MinBrightnessRaw: 50,
		MaxBrightnessRaw: 200,
		MaxSkewDegrees:   10,
		MinWidthPx:       800,
		MinHeightPx:      600,
		MaxMinorIssues:   2,
	}
}

func goodMetrics() *port.QualityMetrics {
	return &port.QualityMetrics{
		Sharpness:     80,
		BrightnessRaw: 120,
		GlarePercent:  1,
		SkewDegrees:   2,
		WidthPx:       1200,
		HeightPx:      900,
	}
}

func registryFarmers() []*domain.Farmer {
	return []*domain.Farmer{
		{
			ID:            "F001",
			Name:          "राजेश कुमार पाटिल",
			NameEN:        "Rajesh Kumar Patil",
			Phone:         "9876543210",
			Village:       "Shirur",
			District:      "Pune",
			State:         "Maharashtra",
			AccountNumber: "12345678901234",
			IFSCCode:      "SBIN0001234",
			Aadhaar:       "123456789012",
			SurveyNumber:  "123/4",
		},
	}
}

func newVerifyFixture(t *testing.T) *verifyFixture {
	t.Helper()

	f := &verifyFixture{
		analyzer: new(mocks.MockQualityAnalyzer),
		rec:      new(mocks.MockTextRecognizer),
		storage:  new(mocks.MockObjectStorage),
		docRepo:  new(mocks.MockVerificationRepo),
		email:    new(mocks.MockEmailSender),
	}

	registry := &stubRegistry{snap: match.NewSnapshot(registryFarmers())}

	f.docRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.docRepo.On("UpdateResult", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		f.persisted = args.Get(1).(*domain.VerificationDocument)
	}).Return(nil).Maybe()
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{ETag: "etag"}, nil).Maybe()

	f.svc = service.NewVerificationService(
		f.analyzer,
		quality.NewPolicy(testQualityConfig()),
		f.rec,
		extract.NewExtractor(),
		match.NewMatcher(config.MatcherConfig{
			MatchThreshold:        60,
			AccountWarnSimilarity: 90,
			NameWarnSimilarity:    70,
		}),
		registry,
		f.storage,
		f.docRepo,
		f.email,
		config.S3Config{Bucket: "agriverify-test", MaxFileSizeMB: 1, PresignExpiry: 900},
		config.EmailConfig{ReviewRecipient: "review@agriverify.example"},
	)
	return f
}

func jpegInput() service.VerifyInput {
	return service.VerifyInput{
		FileName:    "passbook.jpg",
		ContentType: "image/jpeg",
		Image:       []byte("fake image bytes"),
	}
}

func TestVerify_RejectsUnsupportedContentType(t *testing.T) {
	f := newVerifyFixture(t)

	input := jpegInput()
	input.ContentType = "application/pdf"
	_, err := f.svc.Verify(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestVerify_RejectsOversizedFile(t *testing.T) {
	f := newVerifyFixture(t)

	input := jpegInput()
	input.Image = make([]byte, 1024*1024+1)
	_, err := f.svc.Verify(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestVerify_UploadFailure(t *testing.T) {
	f := newVerifyFixture(t)
	f.storage.ExpectedCalls = nil
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := f.svc.Verify(context.Background(), jpegInput())

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVerify_QualityRejection(t *testing.T) {
	f := newVerifyFixture(t)
	blurry := goodMetrics()
	blurry.Sharpness = 12
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(blurry, nil)

	result, err := f.svc.Verify(context.Background(), jpegInput())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.False(t, result.Quality.IsAcceptable)
	assert.Equal(t, "Document quality insufficient for processing.", result.Summary)
	require.NotEmpty(t, result.Quality.Suggestions)
	assert.Equal(t,
		append(append([]string{}, result.Quality.Suggestions...), "Please retake the photo with better lighting and focus"),
		result.NextSteps)
	require.NotNil(t, f.persisted)
	assert.Equal(t, domain.DocumentStatusRejected, f.persisted.Status)
	f.rec.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestVerify_AnalyzerFailureIsUnreadableVerdict(t *testing.T) {
	f := newVerifyFixture(t)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("decode error"))

	result, err := f.svc.Verify(context.Background(), jpegInput())

	require.NoError(t, err)
	assert.False(t, result.Quality.IsAcceptable)
	assert.Contains(t, result.Quality.Issues, "Could not read image file")
	assert.Equal(t, []string{
		"Please upload a valid JPG or PNG image",
		"Please retake the photo with better lighting and focus",
	}, result.NextSteps)
	require.NotNil(t, f.persisted)
	assert.Equal(t, domain.DocumentStatusRejected, f.persisted.Status)
}

func TestVerify_OCRFailure(t *testing.T) {
	f := newVerifyFixture(t)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(goodMetrics(), nil)
	f.rec.On("Recognize", mock.Anything, mock.Anything).Return(nil, errors.New("all recognizers failed"))

	result, err := f.svc.Verify(context.Background(), jpegInput())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Summary, "OCR processing failed")
	assert.Equal(t, []string{"Please try again or contact support"}, result.NextSteps)
	require.NotNil(t, f.persisted)
	assert.Equal(t, domain.DocumentStatusFailed, f.persisted.Status)
}

func TestVerify_NoFieldsExtracted(t *testing.T) {
	f := newVerifyFixture(t)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(goodMetrics(), nil)
	f.rec.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognitionOutput{
		Text:       "%%% ???",
		Confidence: 0.4,
		Engine:     "tesseract",
	}, nil)
	f.email.On("SendReviewNeeded", mock.Anything, "review@agriverify.example", mock.Anything).Return(nil)

	result, err := f.svc.Verify(context.Background(), jpegInput())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Could not extract any fields from document.", result.Summary)
	require.NotNil(t, f.persisted)
	assert.Equal(t, domain.DocumentStatusNeedsReview, f.persisted.Status)
	f.email.AssertCalled(t, "SendReviewNeeded", mock.Anything, "review@agriverify.example", mock.Anything)
}

func TestVerify_VerifiedOnExactAccountMatch(t *testing.T) {
	f := newVerifyFixture(t)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(goodMetrics(), nil)
	f.rec.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognitionOutput{
		Text:       "Name: Rajesh Kumar Patil\nA/C No: 12345678901234\nIFSC: SBIN0001234",
		Confidence: 0.93,
		Engine:     "google_vision",
	}, nil)

	result, err := f.svc.Verify(context.Background(), jpegInput())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Document verified! Matched farmer: Rajesh Kumar Patil", result.Summary)
	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.IsValid)
	require.NotNil(t, result.Validation.MatchedFarmer)
	assert.Equal(t, "F001", result.Validation.MatchedFarmer.ID)

	assert.Equal(t, []string{
		"Document does not show a readable survey number",
		"Document ready for processing",
		"No further action required",
	}, result.NextSteps)

	require.NotNil(t, f.persisted)
	assert.Equal(t, domain.DocumentStatusVerified, f.persisted.Status)
	require.NotNil(t, f.persisted.FarmerID)
	assert.Equal(t, "F001", *f.persisted.FarmerID)
	assert.Equal(t, domain.LanguageEnglish, f.persisted.Language)
	assert.NotEmpty(t, f.persisted.Verdict)
	f.email.AssertNotCalled(t, "SendReviewNeeded", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerify_SanitizesMatchedFarmer(t *testing.T) {
	f := newVerifyFixture(t)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(goodMetrics(), nil)
	f.rec.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognitionOutput{
		Text:       "A/C No: 12345678901234",
		Confidence: 0.9,
		Engine:     "google_vision",
	}, nil)

	result, err := f.svc.Verify(context.Background(), jpegInput())

	require.NoError(t, err)
	require.NotNil(t, result.Validation)
	require.NotNil(t, result.Validation.MatchedFarmer)
	// The public view carries no bank or identity numbers.
	assert.Equal(t, "Rajesh Kumar Patil", result.Validation.MatchedFarmer.NameEN)
	assert.Equal(t, "Shirur", result.Validation.MatchedFarmer.Village)
}

func TestVerify_AccountMismatchNeedsReview(t *testing.T) {
	f := newVerifyFixture(t)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(goodMetrics(), nil)
	// Two digits off from the registry account: fuzzy name match wins, the
	// cross-check flags the account difference as a hard issue.
	f.rec.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognitionOutput{
		Text:       "Name: Rajesh Kumar Patil\nA/C No: 12345998901234",
		Confidence: 0.9,
		Engine:     "google_vision",
	}, nil)
	f.email.On("SendReviewNeeded", mock.Anything, "review@agriverify.example", mock.Anything).Return(nil)

	result, err := f.svc.Verify(context.Background(), jpegInput())

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Summary, "Document needs review.")
	require.NotNil(t, result.Validation)
	assert.False(t, result.Validation.IsValid)
	require.NotEmpty(t, result.Validation.Issues)
	assert.Contains(t, result.Validation.Issues[0], "Account number mismatch")

	require.NotNil(t, f.persisted)
	assert.Equal(t, domain.DocumentStatusNeedsReview, f.persisted.Status)
	f.email.AssertCalled(t, "SendReviewNeeded", mock.Anything, "review@agriverify.example", mock.Anything)
}

func TestVerify_UnmatchedNameNextSteps(t *testing.T) {
	f := newVerifyFixture(t)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(goodMetrics(), nil)
	// Only a name, and one matching no registry record: the verdict carries a
	// warning but no issues.
	f.rec.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognitionOutput{
		Text:       "Name: Suresh Sharma",
		Confidence: 0.9,
		Engine:     "tesseract",
	}, nil)
	f.email.On("SendReviewNeeded", mock.Anything, "review@agriverify.example", mock.Anything).Return(nil)

	result, err := f.svc.Verify(context.Background(), jpegInput())

	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Validation)
	assert.Empty(t, result.Validation.Issues)
	assert.Contains(t, result.Validation.Warnings, "No confident match found for 'Suresh Sharma'")
	assert.Equal(t, []string{
		"Document does not show a readable account number",
		"Document does not show a readable IFSC code",
		"Document does not show a readable survey number",
		"Flag the document for manual review",
		"Please verify and re-upload if needed",
		"Cross-check the extracted details against farmer records before approving",
	}, result.NextSteps)
	assert.Equal(t, domain.DocumentStatusNeedsReview, f.persisted.Status)
}

func TestCheckQuality_AnalyzerErrorReturnsUnreadable(t *testing.T) {
	f := newVerifyFixture(t)
	f.analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("bad image"))

	report, err := f.svc.CheckQuality(context.Background(), []byte("junk"))

	require.NoError(t, err)
	assert.False(t, report.IsAcceptable)
	assert.Contains(t, report.Issues, "Could not read image file")
}

func TestRecognize_RejectsUnsupportedContentType(t *testing.T) {
	f := newVerifyFixture(t)

	_, err := f.svc.Recognize(context.Background(), []byte("data"), "text/plain")

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestValidateFields_RequiresAtLeastOneField(t *testing.T) {
	f := newVerifyFixture(t)

	_, err := f.svc.ValidateFields(nil)
	assert.ErrorIs(t, err, domain.ErrNoFieldsProvided)

	_, err = f.svc.ValidateFields(&extract.Fields{})
	assert.ErrorIs(t, err, domain.ErrNoFieldsProvided)
}

func TestValidateFields_ExactAadhaarMatch(t *testing.T) {
	f := newVerifyFixture(t)
	aadhaar := "123456789012"

	result, err := f.svc.ValidateFields(&extract.Fields{Aadhaar: &aadhaar})

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	require.NotNil(t, result.MatchedFarmer)
	assert.Equal(t, "F001", result.MatchedFarmer.ID)
	assert.Equal(t, match.MatchTypeExact, result.FieldMatches["aadhaar"].MatchType)
}
