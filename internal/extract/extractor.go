// Package extract pulls identity and land-record fields out of recognized
// document text. Patterns cover English, Hindi and Marathi keyword variants.
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"agriverify/internal/domain"
)

// Ordered pattern lists: the first pattern that yields a usable value wins.
var (
	accountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:a/?c|account|खाता)\s*(?:no\.?|number|नं\.?)?\s*:?\s*(\d{10,18})`),
		regexp.MustCompile(`\b([1-9]\d{9,17})\b`),
	}

	// IFSC is strictly uppercase on bank documents.
	ifscPattern = regexp.MustCompile(`\b([A-Z]{4}0[A-Z0-9]{6})\b`)

	aadhaarPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:aadhaar|आधार)\s*:?\s*(\d{4}\s?\d{4}\s?\d{4})`),
		regexp.MustCompile(`\b(\d{4}\s?\d{4}\s?\d{4})\b`),
	}

	surveyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:survey|khasra|खसरा|सर्वे|गट)\s*(?:no\.?|number|नं\.?|क्र\.?)?\s*:?\s*([0-9]+[/\-]?[A-Za-z0-9]*)`),
		regexp.MustCompile(`(?i)(?:plot|प्लॉट)\s*(?:no\.?)?\s*:?\s*([0-9]+[/\-]?[A-Za-z0-9]*)`),
	}

	areaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(acres?|hectares?|एकड़|हेक्टेयर|गुंठे|आर)`),
		regexp.MustCompile(`(?i)(?:area|क्षेत्र)\s*:?\s*(\d+\.?\d*)\s*(acres?|hectares?|एकड़|हेक्टेयर)?`),
	}

	phonePattern = regexp.MustCompile(`(?:\+91|91)?[- ]?([6-9]\d{9})\b`)

	// Name patterns run against the raw multi-line text so line boundaries
	// keep values from bleeding together.
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)(?:name|नाम|नांव)\s*:?\s*([^\n,\d]{3,50})`),
		regexp.MustCompile(`(?m)^([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`),
	}

	nameStopWords = []string{"bank", "account", "ifsc", "branch"}

	marathiMarkers = []string{"आहे", "नाही", "होते", "असे", "करणे"}
)

// Extractor parses recognized text into structured fields.
type Extractor struct{}

// NewExtractor creates a field extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scans the recognized text for identity and land-record fields.
// Address is reserved for callers that obtain it elsewhere; the free-text
// patterns are too unreliable to fill it.
func (e *Extractor) Extract(text string) *Fields {
	f := &Fields{}

	// Single-line matching works better for most fields; only name keeps
	// line structure.
	normalized := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))

	for _, p := range accountPatterns {
		if m := p.FindStringSubmatch(normalized); m != nil {
			f.AccountNumber = strPtr(m[1])
			break
		}
	}

	if m := ifscPattern.FindStringSubmatch(normalized); m != nil {
		f.IFSCCode = strPtr(m[1])
	}

	for _, p := range aadhaarPatterns {
		if m := p.FindStringSubmatch(normalized); m != nil {
			digits := strings.ReplaceAll(m[1], " ", "")
			if len(digits) == 12 {
				f.Aadhaar = strPtr(digits)
				break
			}
		}
	}

	for _, p := range surveyPatterns {
		if m := p.FindStringSubmatch(normalized); m != nil {
			f.SurveyNumber = strPtr(m[1])
			break
		}
	}

	for _, p := range areaPatterns {
		if m := p.FindStringSubmatch(normalized); m != nil {
			unit := "units"
			if len(m) > 2 && m[2] != "" {
				unit = m[2]
			}
			f.Area = strPtr(m[1] + " " + unit)
			break
		}
	}

	if m := phonePattern.FindStringSubmatch(normalized); m != nil {
		f.Phone = strPtr(m[1])
	}

	for _, p := range namePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			if !containsStopWord(name) {
				f.Name = strPtr(name)
				break
			}
		}
	}

	return f
}

func containsStopWord(name string) bool {
	lower := strings.ToLower(name)
	for _, w := range nameStopWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// DetectLanguage classifies text as Hindi, Marathi or English by the share
// of Devanagari letters. Marathi is separated from Hindi by a small set of
// marker words.
func DetectLanguage(text string) domain.Language {
	devanagari := 0
	alpha := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			alpha++
		}
		if r >= 0x0900 && r <= 0x097F {
			devanagari++
		}
	}
	if alpha == 0 {
		return domain.LanguageUnknown
	}
	if float64(devanagari)/float64(alpha) > 0.3 {
		for _, marker := range marathiMarkers {
			if strings.Contains(text, marker) {
				return domain.LanguageMarathi
			}
		}
		return domain.LanguageHindi
	}
	return domain.LanguageEnglish
}
