// Package match validates extracted document fields against the farmer
// registry. Unique identifiers are matched exactly; names fall back to
// weighted fuzzy scoring.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"agriverify/internal/config"
	"agriverify/internal/domain"
	"agriverify/internal/extract"
)

// MatchType describes how a field contributed to identifying a farmer.
type MatchType string

const (
	MatchTypeExact  MatchType = "exact"
	MatchTypeFuzzy  MatchType = "fuzzy"
	MatchTypeFormat MatchType = "format"
)

// FieldMatch reports the outcome of validating one extracted field.
type FieldMatch struct {
	Valid      bool      `json:"valid"`
	Confidence float64   `json:"confidence"`
	MatchType  MatchType `json:"match_type,omitempty"`
}

// Verdict is the result of validating a document's fields against the
// registry. MatchedFarmer is only set when the match score clears the
// configured threshold.
type Verdict struct {
	IsValid       bool                  `json:"is_valid"`
	Confidence    float64               `json:"confidence"`
	MatchedFarmer *domain.Farmer        `json:"matched_farmer,omitempty"`
	FieldMatches  map[string]FieldMatch `json:"field_matches"`
	Issues        []string              `json:"issues"`
	Warnings      []string              `json:"warnings"`
}

var (
	ifscFormat  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	phoneFormat = regexp.MustCompile(`^[6-9]\d{9}$`)
	digitsOnly  = regexp.MustCompile(`^\d+$`)
)

// Matcher scores extracted fields against registry snapshots.
type Matcher struct {
	cfg config.MatcherConfig
}

// NewMatcher creates a matcher with the given cutoffs.
func NewMatcher(cfg config.MatcherConfig) *Matcher {
	return &Matcher{cfg: cfg}
}

// Validate matches the extracted fields against the snapshot and returns a
// verdict. Exact hits on account number or Aadhaar short-circuit the fuzzy
// search with a full score.
func (m *Matcher) Validate(snap *Snapshot, fields *extract.Fields) *Verdict {
	v := &Verdict{
		FieldMatches: make(map[string]FieldMatch),
		Issues:       []string{},
		Warnings:     []string{},
	}

	var best *domain.Farmer
	bestScore := 0.0

	if acc := deref(fields.AccountNumber); acc != "" {
		if f, ok := snap.ByAccount(acc); ok {
			best = f
			bestScore = 100
			v.FieldMatches["account_number"] = FieldMatch{Valid: true, Confidence: 1.0, MatchType: MatchTypeExact}
		}
	}
	if best == nil {
		if aadhaar := deref(fields.Aadhaar); aadhaar != "" {
			if f, ok := snap.ByAadhaar(aadhaar); ok {
				best = f
				bestScore = 100
				v.FieldMatches["aadhaar"] = FieldMatch{Valid: true, Confidence: 1.0, MatchType: MatchTypeExact}
			}
		}
	}

	// Fuzzy search over the whole registry only when no identifier hit and
	// a name is available to anchor the comparison.
	if best == nil && deref(fields.Name) != "" {
		for _, farmer := range snap.Farmers() {
			score := matchScore(fields, farmer)
			if score > bestScore {
				bestScore = score
				best = farmer
			}
		}
		if best != nil && bestScore > m.cfg.MatchThreshold {
			v.FieldMatches["name"] = FieldMatch{Valid: true, Confidence: bestScore / 100, MatchType: MatchTypeFuzzy}
		}
	}

	m.validateFormats(fields, v)

	if best != nil && bestScore > m.cfg.MatchThreshold {
		m.crossValidate(fields, best, v)
	} else if bestScore <= m.cfg.MatchThreshold && deref(fields.Name) != "" {
		v.Warnings = append(v.Warnings, fmt.Sprintf("No confident match found for '%s'", deref(fields.Name)))
	}

	critical := 0
	for _, issue := range v.Issues {
		if !strings.HasPrefix(issue, "Minor:") {
			critical++
		}
	}
	v.IsValid = critical == 0 && bestScore >= m.cfg.MatchThreshold
	v.Confidence = bestScore / 100
	if bestScore >= m.cfg.MatchThreshold {
		v.MatchedFarmer = best
	}
	return v
}

// matchScore is a weighted average of per-field similarities. Name carries
// double weight and is compared against both the native and transliterated
// record names.
func matchScore(fields *extract.Fields, farmer *domain.Farmer) float64 {
	var scores []float64
	var weights []float64

	if name := deref(fields.Name); name != "" && farmer.Name != "" {
		s := float64(TokenSortRatio(strings.ToLower(name), strings.ToLower(farmer.Name)))
		if farmer.NameEN != "" {
			if en := float64(TokenSortRatio(strings.ToLower(name), strings.ToLower(farmer.NameEN))); en > s {
				s = en
			}
		}
		scores = append(scores, s)
		weights = append(weights, 2.0)
	}

	if acc := deref(fields.AccountNumber); acc != "" && farmer.AccountNumber != "" {
		s := 100.0
		if acc != farmer.AccountNumber {
			s = float64(Ratio(acc, farmer.AccountNumber))
		}
		scores = append(scores, s)
		weights = append(weights, 1.5)
	}

	if survey := deref(fields.SurveyNumber); survey != "" && farmer.SurveyNumber != "" {
		scores = append(scores, float64(Ratio(survey, farmer.SurveyNumber)))
		weights = append(weights, 1.0)
	}

	if phone := deref(fields.Phone); phone != "" && farmer.Phone != "" {
		s := 100.0
		if phone != farmer.Phone {
			s = float64(Ratio(phone, farmer.Phone))
		}
		scores = append(scores, s)
		weights = append(weights, 1.0)
	}

	if len(scores) == 0 {
		return 0
	}
	var sum, total float64
	for i := range scores {
		sum += scores[i] * weights[i]
		total += weights[i]
	}
	return sum / total
}

func (m *Matcher) validateFormats(fields *extract.Fields, v *Verdict) {
	if acc := deref(fields.AccountNumber); acc != "" {
		if !validAccountFormat(acc) {
			v.Issues = append(v.Issues, fmt.Sprintf("Account number format appears invalid: %s", acc))
			v.FieldMatches["account_number"] = FieldMatch{Valid: false, Confidence: 0.3, MatchType: MatchTypeFormat}
		} else if _, exists := v.FieldMatches["account_number"]; !exists {
			v.FieldMatches["account_number"] = FieldMatch{Valid: true, Confidence: 0.9, MatchType: MatchTypeFormat}
		}
	}
	if ifsc := deref(fields.IFSCCode); ifsc != "" {
		if !ifscFormat.MatchString(strings.ToUpper(ifsc)) {
			v.Issues = append(v.Issues, fmt.Sprintf("IFSC code format invalid: %s", ifsc))
			v.FieldMatches["ifsc_code"] = FieldMatch{Valid: false, Confidence: 0.2, MatchType: MatchTypeFormat}
		} else {
			v.FieldMatches["ifsc_code"] = FieldMatch{Valid: true, Confidence: 0.95, MatchType: MatchTypeFormat}
		}
	}
	if aadhaar := deref(fields.Aadhaar); aadhaar != "" {
		clean := strings.ReplaceAll(aadhaar, " ", "")
		if !digitsOnly.MatchString(clean) || len(clean) != 12 {
			v.Issues = append(v.Issues, fmt.Sprintf("Aadhaar number format invalid: %s", aadhaar))
			v.FieldMatches["aadhaar"] = FieldMatch{Valid: false, Confidence: 0.1, MatchType: MatchTypeFormat}
		} else if _, exists := v.FieldMatches["aadhaar"]; !exists {
			v.FieldMatches["aadhaar"] = FieldMatch{Valid: true, Confidence: 0.95, MatchType: MatchTypeFormat}
		}
	}
	if phone := deref(fields.Phone); phone != "" {
		if !phoneFormat.MatchString(stripSeparators(phone)) {
			v.Issues = append(v.Issues, fmt.Sprintf("Minor: Phone number format unusual: %s", phone))
			v.FieldMatches["phone"] = FieldMatch{Valid: false, Confidence: 0.5, MatchType: MatchTypeFormat}
		} else {
			v.FieldMatches["phone"] = FieldMatch{Valid: true, Confidence: 0.9, MatchType: MatchTypeFormat}
		}
	}
}

func (m *Matcher) crossValidate(fields *extract.Fields, farmer *domain.Farmer, v *Verdict) {
	if acc := deref(fields.AccountNumber); acc != "" && farmer.AccountNumber != "" && acc != farmer.AccountNumber {
		similarity := Ratio(acc, farmer.AccountNumber)
		if similarity < m.cfg.AccountWarnSimilarity {
			v.Issues = append(v.Issues, fmt.Sprintf(
				"Account number mismatch: document shows '%s' but database has '%s' (similarity: %d%%)",
				acc, farmer.AccountNumber, similarity))
		} else {
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"Account number has minor difference (similarity: %d%%)", similarity))
		}
	}
	// Unlike scoring, the cross-check compares names as written on the
	// document, so casing differences count against the similarity.
	if name := deref(fields.Name); name != "" && farmer.Name != "" {
		if sim := TokenSortRatio(name, farmer.Name); sim < m.cfg.NameWarnSimilarity {
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"Name partially matches: '%s' vs '%s'", name, farmer.Name))
		}
	}
}

func validAccountFormat(acc string) bool {
	clean := stripSeparators(acc)
	return digitsOnly.MatchString(clean) && len(clean) >= 9 && len(clean) <= 18
}

func stripSeparators(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
