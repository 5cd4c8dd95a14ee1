package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriverify/internal/config"
	"agriverify/internal/domain"
	"agriverify/internal/extract"
)

func matcherConfig() config.MatcherConfig {
	return config.MatcherConfig{
		MatchThreshold:        60,
		AccountWarnSimilarity: 90,
		NameWarnSimilarity:    70,
	}
}

func ptr(s string) *string { return &s }

func registry() *Snapshot {
	return NewSnapshot([]*domain.Farmer{
		{
			ID:            "F001",
			Name:          "राजेश कुमार पाटिल",
			NameEN:        "Rajesh Kumar Patil",
			AccountNumber: "12345678901234",
			IFSCCode:      "SBIN0001234",
			Aadhaar:       "123456789012",
			Phone:         "9876543210",
			SurveyNumber:  "123/4",
		},
		{
			ID:            "F002",
			Name:          "Sunita Devi",
			AccountNumber: "98765432109876",
			Phone:         "8765432109",
		},
	})
}

func TestValidate_ExactAccountShortcut(t *testing.T) {
	m := NewMatcher(matcherConfig())

	v := m.Validate(registry(), &extract.Fields{
		AccountNumber: ptr("12345678901234"),
	})

	require.NotNil(t, v.MatchedFarmer)
	assert.Equal(t, "F001", v.MatchedFarmer.ID)
	assert.Equal(t, 1.0, v.Confidence)
	assert.True(t, v.IsValid)

	fm, ok := v.FieldMatches["account_number"]
	require.True(t, ok)
	assert.True(t, fm.Valid)
	assert.Equal(t, 1.0, fm.Confidence)
	assert.Equal(t, MatchTypeExact, fm.MatchType)
}

func TestValidate_ExactAadhaarShortcut(t *testing.T) {
	m := NewMatcher(matcherConfig())

	v := m.Validate(registry(), &extract.Fields{
		Aadhaar: ptr("123456789012"),
	})

	require.NotNil(t, v.MatchedFarmer)
	assert.Equal(t, "F001", v.MatchedFarmer.ID)
	assert.Equal(t, MatchTypeExact, v.FieldMatches["aadhaar"].MatchType)
}

func TestValidate_AccountShortcutBeatsAadhaar(t *testing.T) {
	m := NewMatcher(matcherConfig())

	// Account points at F002, aadhaar at F001. Account wins.
	v := m.Validate(registry(), &extract.Fields{
		AccountNumber: ptr("98765432109876"),
		Aadhaar:       ptr("123456789012"),
	})

	require.NotNil(t, v.MatchedFarmer)
	assert.Equal(t, "F002", v.MatchedFarmer.ID)
}

func TestValidate_FuzzyNameMatch(t *testing.T) {
	m := NewMatcher(matcherConfig())

	v := m.Validate(registry(), &extract.Fields{
		Name: ptr("Sunita Devi"),
	})

	require.NotNil(t, v.MatchedFarmer)
	assert.Equal(t, "F002", v.MatchedFarmer.ID)
	assert.Equal(t, 1.0, v.Confidence)
	assert.True(t, v.IsValid)
	assert.Empty(t, v.Warnings)
	assert.Equal(t, MatchTypeFuzzy, v.FieldMatches["name"].MatchType)
}

func TestValidate_CrossValidationComparesNamesAsWritten(t *testing.T) {
	m := NewMatcher(matcherConfig())

	// Scoring lower-cases, so the all-caps name still matches F002 with a
	// full score; the cross-check does not, so the casing difference warns.
	v := m.Validate(registry(), &extract.Fields{Name: ptr("SUNITA DEVI")})

	require.NotNil(t, v.MatchedFarmer)
	assert.Equal(t, "F002", v.MatchedFarmer.ID)
	assert.True(t, v.IsValid)
	assert.Contains(t, v.Warnings, "Name partially matches: 'SUNITA DEVI' vs 'Sunita Devi'")
}

func TestValidate_FuzzyMatchesTransliteratedName(t *testing.T) {
	m := NewMatcher(matcherConfig())

	// Scores 66 against the transliterated name, which clears the
	// threshold; the native-script comparison then warns.
	v := m.Validate(registry(), &extract.Fields{
		Name: ptr("Rajesh Patil"),
	})

	require.NotNil(t, v.MatchedFarmer)
	assert.Equal(t, "F001", v.MatchedFarmer.ID)
	assert.True(t, v.IsValid)
	assert.Contains(t, v.Warnings, "Name partially matches: 'Rajesh Patil' vs 'राजेश कुमार पाटिल'")
}

func TestValidate_NoConfidentMatch(t *testing.T) {
	m := NewMatcher(matcherConfig())

	v := m.Validate(registry(), &extract.Fields{
		Name: ptr("Someone Entirely Different"),
	})

	assert.Nil(t, v.MatchedFarmer)
	assert.False(t, v.IsValid)
	assert.Contains(t, v.Warnings, "No confident match found for 'Someone Entirely Different'")
}

func TestValidate_AccountSimilarityBoundary(t *testing.T) {
	snap := NewSnapshot([]*domain.Farmer{{
		ID:            "F010",
		Name:          "Ramesh Kumar",
		AccountNumber: "1234567890",
	}})
	m := NewMatcher(matcherConfig())

	t.Run("similarity 90 warns", func(t *testing.T) {
		v := m.Validate(snap, &extract.Fields{
			Name:          ptr("Ramesh Kumar"),
			AccountNumber: ptr("1234567891"),
		})

		assert.True(t, v.IsValid)
		assert.Contains(t, v.Warnings, "Account number has minor difference (similarity: 90%)")
		for _, issue := range v.Issues {
			assert.NotContains(t, issue, "mismatch")
		}
	})

	t.Run("similarity below 90 blocks", func(t *testing.T) {
		v := m.Validate(snap, &extract.Fields{
			Name:          ptr("Ramesh Kumar"),
			AccountNumber: ptr("1234567889"),
		})

		assert.False(t, v.IsValid)
		assert.Contains(t, v.Issues, fmt.Sprintf(
			"Account number mismatch: document shows '%s' but database has '%s' (similarity: %d%%)",
			"1234567889", "1234567890", 80))
	})
}

func TestValidate_FormatChecks(t *testing.T) {
	m := NewMatcher(matcherConfig())
	empty := NewSnapshot(nil)

	t.Run("short account number", func(t *testing.T) {
		v := m.Validate(empty, &extract.Fields{AccountNumber: ptr("12345")})

		assert.Contains(t, v.Issues, "Account number format appears invalid: 12345")
		fm := v.FieldMatches["account_number"]
		assert.False(t, fm.Valid)
		assert.Equal(t, 0.3, fm.Confidence)
		assert.False(t, v.IsValid)
	})

	t.Run("valid account number", func(t *testing.T) {
		v := m.Validate(empty, &extract.Fields{AccountNumber: ptr("1234567890123")})

		fm := v.FieldMatches["account_number"]
		assert.True(t, fm.Valid)
		assert.Equal(t, 0.9, fm.Confidence)
		assert.Equal(t, MatchTypeFormat, fm.MatchType)
		assert.Empty(t, v.Issues)
	})

	t.Run("ifsc missing reserved zero", func(t *testing.T) {
		v := m.Validate(empty, &extract.Fields{IFSCCode: ptr("SBIN001234")})

		assert.Contains(t, v.Issues, "IFSC code format invalid: SBIN001234")
		assert.Equal(t, 0.2, v.FieldMatches["ifsc_code"].Confidence)
	})

	t.Run("valid ifsc", func(t *testing.T) {
		v := m.Validate(empty, &extract.Fields{IFSCCode: ptr("SBIN0001234")})

		fm := v.FieldMatches["ifsc_code"]
		assert.True(t, fm.Valid)
		assert.Equal(t, 0.95, fm.Confidence)
	})

	t.Run("aadhaar wrong length", func(t *testing.T) {
		v := m.Validate(empty, &extract.Fields{Aadhaar: ptr("12345678901")})

		assert.Contains(t, v.Issues, "Aadhaar number format invalid: 12345678901")
		assert.Equal(t, 0.1, v.FieldMatches["aadhaar"].Confidence)
	})

	t.Run("phone with spaces passes", func(t *testing.T) {
		v := m.Validate(empty, &extract.Fields{Phone: ptr("98765 43210")})

		fm := v.FieldMatches["phone"]
		assert.True(t, fm.Valid)
		assert.Equal(t, 0.9, fm.Confidence)
	})

	t.Run("phone format failure is minor", func(t *testing.T) {
		v := m.Validate(empty, &extract.Fields{
			Name:  ptr("Sunita Devi"),
			Phone: ptr("12345"),
		})

		assert.Contains(t, v.Issues, "Minor: Phone number format unusual: 12345")
		assert.Equal(t, 0.5, v.FieldMatches["phone"].Confidence)
	})
}

func TestValidate_MinorIssuesDoNotInvalidate(t *testing.T) {
	m := NewMatcher(matcherConfig())

	// Confident match plus a minor phone issue keeps the verdict valid.
	v := m.Validate(registry(), &extract.Fields{
		Name:  ptr("Sunita Devi"),
		Phone: ptr("12345"),
	})

	require.NotNil(t, v.MatchedFarmer)
	assert.True(t, v.IsValid)
	assert.Len(t, v.Issues, 1)
}

func TestValidate_NoSignalsScoresZero(t *testing.T) {
	m := NewMatcher(matcherConfig())

	v := m.Validate(registry(), &extract.Fields{IFSCCode: ptr("SBIN0001234")})

	assert.Nil(t, v.MatchedFarmer)
	assert.Equal(t, 0.0, v.Confidence)
	assert.False(t, v.IsValid)
	assert.Empty(t, v.Warnings)
}
