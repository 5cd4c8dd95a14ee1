package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverify/internal/domain"
)

func sampleDoc(t *testing.T) domain.VerificationDocument {
	t.Helper()
	verdict, err := json.Marshal(map[string]interface{}{
		"is_valid": true,
		"issues":   []string{},
		"warnings": []string{"Name partially matches: 'a' vs 'b'"},
	})
	require.NoError(t, err)

	farmerID := "F001"
	return domain.VerificationDocument{
		ID:         uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		FarmerID:   &farmerID,
		FileName:   "passbook.jpg",
		Status:     domain.DocumentStatusVerified,
		Language:   domain.LanguageHindi,
		Engine:     "google_vision",
		Confidence: 0.95,
		Verdict:    verdict,
		Summary:    "Document verified! Matched farmer: Rajesh Kumar Patil",
		UploadedBy: uuid.MustParse("99999999-8888-7777-6666-555555555555"),
		CreatedAt:  time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestWriter_HeaderAndRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments([]domain.VerificationDocument{sampleDoc(t)}))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Document ID", records[0][0])
	assert.Equal(t, "Created At", records[0][12])

	row := records[1]
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", row[0])
	assert.Equal(t, "passbook.jpg", row[1])
	assert.Equal(t, "verified", row[2])
	assert.Equal(t, "F001", row[3])
	assert.Equal(t, "hi", row[4])
	assert.Equal(t, "google_vision", row[5])
	assert.Equal(t, "0.95", row[6])
	assert.Equal(t, "Yes", row[7])
	assert.Equal(t, "0", row[8])
	assert.Equal(t, "1", row[9])
	assert.Equal(t, "2026-03-14T10:00:00Z", row[12])
}

func TestWriter_EmptyVerdictLeavesColumnsBlank(t *testing.T) {
	doc := sampleDoc(t)
	doc.Verdict = nil
	doc.FarmerID = nil

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteDocuments([]domain.VerificationDocument{doc}))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	row := records[1]
	assert.Empty(t, row[3])
	assert.Empty(t, row[7])
	assert.Empty(t, row[8])
	assert.Empty(t, row[9])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "verifications", "verifications"},
		{"spaces and slashes", "march / exports", "march_exports"},
		{"devanagari replaced", "दस्तावेज़ report", "report"},
		{"trims underscores", "__report__", "report"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	got := BuildFilename("verification export")
	assert.Regexp(t, `^verification_export_\d{4}-\d{2}-\d{2}\.csv$`, got)
}
