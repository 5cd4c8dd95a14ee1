package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"agriverify/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Document ID",
	"File Name",
	"Status",
	"Farmer ID",
	"Language",
	"OCR Engine",
	"Confidence",
	"Valid",
	"Issue Count",
	"Warning Count",
	"Summary",
	"Uploaded By",
	"Created At",
}

// verdictFields is the subset of the stored verdict JSON the export reads.
type verdictFields struct {
	IsValid  bool     `json:"is_valid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
}

// Writer wraps csv.Writer for exporting verification documents as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments converts a batch of verification documents to CSV rows and
// writes them.
func (w *Writer) WriteDocuments(docs []domain.VerificationDocument) error {
	for i := range docs {
		row := documentToRow(&docs[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// documentToRow converts a single verification document to a CSV row. The
// verdict columns stay empty when no verdict was stored or its JSON is
// invalid.
func documentToRow(doc *domain.VerificationDocument) []string {
	row := make([]string, len(columns))

	row[0] = doc.ID.String()
	row[1] = doc.FileName
	row[2] = string(doc.Status)
	if doc.FarmerID != nil {
		row[3] = *doc.FarmerID
	}
	row[4] = string(doc.Language)
	row[5] = doc.Engine
	row[6] = strconv.FormatFloat(doc.Confidence, 'f', 2, 64)
	row[10] = doc.Summary
	row[11] = doc.UploadedBy.String()
	row[12] = doc.CreatedAt.Format(time.RFC3339)

	if len(doc.Verdict) == 0 {
		return row
	}
	var v verdictFields
	if err := json.Unmarshal(doc.Verdict, &v); err != nil {
		return row
	}
	row[7] = formatBool(v.IsValid)
	row[8] = strconv.Itoa(len(v.Issues))
	row[9] = strconv.Itoa(len(v.Warnings))

	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
