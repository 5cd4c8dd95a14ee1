package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func enrollmentSheet(t *testing.T, rows [][]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []any{
		"ID", "Name", "Name (English)", "Phone", "Village", "District", "State",
		"Account Number", "IFSC", "Bank", "Aadhaar", "Survey Number",
		"Area (acres)", "Enrolled Date",
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

func TestParseSheet(t *testing.T) {
	f := enrollmentSheet(t, [][]any{
		{"F001", "राजेश कुमार पाटिल", "Rajesh Kumar Patil", "98765 43210", "Shirpur", "Dhule", "Maharashtra",
			"1234-5678-9012-34", "sbin0001234", "State Bank of India", "1234 5678 9012", "123/4", "2.50", "2023-06-15"},
		{"F002", "Sunita Devi", "", "8765432109", "", "", "", "", "", "", "", "", "", ""},
	})

	entries, err := parseSheet(f)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	e := entries[0]
	assert.Equal(t, "F001", e.id)
	assert.Equal(t, "राजेश कुमार पाटिल", e.name)
	assert.Equal(t, "Rajesh Kumar Patil", e.nameEN)
	assert.Equal(t, "9876543210", e.phone)
	assert.Equal(t, "12345678901234", e.accountNumber)
	assert.Equal(t, "SBIN0001234", e.ifscCode)
	assert.Equal(t, "123456789012", e.aadhaar)
	assert.Equal(t, "123/4", e.surveyNumber)
	assert.Equal(t, 2.5, e.areaAcres)
	assert.Equal(t, "2023-06-15", e.enrolledDate)

	assert.Equal(t, "F002", entries[1].id)
	assert.Empty(t, entries[1].enrolledDate)
}

func TestParseSheet_SkipsBadRows(t *testing.T) {
	f := enrollmentSheet(t, [][]any{
		{"", "No ID Farmer"},
		{"F003", ""},
		{"F004", "Keeper"},
		{"F004", "Duplicate Of Keeper"},
		{"F005", "Bad Date", "", "", "", "", "", "", "", "", "", "", "", "15-06-2023"},
	})

	entries, err := parseSheet(f)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "F004", entries[0].id)
	assert.Equal(t, "Keeper", entries[0].name)
	assert.Equal(t, "F005", entries[1].id)
	assert.Empty(t, entries[1].enrolledDate)
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "123456789012", normalizeDigits(" 1234 5678-9012 "))
	assert.Equal(t, "", normalizeDigits("   "))
}

func TestEscapeSQL(t *testing.T) {
	assert.Equal(t, "O''Brien''s", escapeSQL("O'Brien's"))
}
