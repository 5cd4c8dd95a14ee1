// Command seedfarmers converts a farmer enrollment Excel file into a SQL seed
// file for the farmer registry.
// Expected columns: A=ID, B=Name, C=Name (English), D=Phone, E=Village,
// F=District, G=State, H=Account Number, I=IFSC, J=Bank, K=Aadhaar,
// L=Survey Number, M=Area (acres), N=Enrolled Date (YYYY-MM-DD).
// Usage: go run ./cmd/seedfarmers <enrollment.xlsx>
// Output: db/seeds/farmers.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const batchSize = 500

type farmerEntry struct {
	id            string
	name          string
	nameEN        string
	phone         string
	village       string
	district      string
	state         string
	accountNumber string
	ifscCode      string
	bankName      string
	aadhaar       string
	surveyNumber  string
	areaAcres     float64
	enrolledDate  string // empty = NULL
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: seedfarmers <enrollment.xlsx>")
	}
	xlsxPath := os.Args[1]
	outPath := "db/seeds/farmers.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseSheet(f)
	if err != nil {
		return fmt.Errorf("parse enrollment sheet: %w", err)
	}
	log.Printf("enrollment sheet: %d farmers", len(entries))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Farmer registry seed data generated from enrollment Excel.",
		fmt.Sprintf("-- %d farmers in batches of %d.", len(entries), batchSize),
		"-- Run: make seed-farmers",
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d farmers (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseSheet reads the first sheet. Data starts at row index 1 (row 0 is the
// header). Rows without an ID or a name are skipped.
func parseSheet(f *excelize.File) ([]farmerEntry, error) {
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []farmerEntry
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		id := strings.TrimSpace(cellVal(row, 0))
		name := strings.TrimSpace(cellVal(row, 1))
		if id == "" || name == "" {
			continue
		}
		if seen[id] {
			log.Printf("row %d: duplicate farmer id %s, skipping", i+1, id)
			continue
		}
		seen[id] = true

		entry := farmerEntry{
			id:            id,
			name:          name,
			nameEN:        strings.TrimSpace(cellVal(row, 2)),
			phone:         normalizeDigits(cellVal(row, 3)),
			village:       strings.TrimSpace(cellVal(row, 4)),
			district:      strings.TrimSpace(cellVal(row, 5)),
			state:         strings.TrimSpace(cellVal(row, 6)),
			accountNumber: normalizeDigits(cellVal(row, 7)),
			ifscCode:      strings.ToUpper(strings.TrimSpace(cellVal(row, 8))),
			bankName:      strings.TrimSpace(cellVal(row, 9)),
			aadhaar:       normalizeDigits(cellVal(row, 10)),
			surveyNumber:  strings.TrimSpace(cellVal(row, 11)),
		}

		if areaStr := strings.TrimSpace(cellVal(row, 12)); areaStr != "" {
			if area, aerr := strconv.ParseFloat(areaStr, 64); aerr == nil {
				entry.areaAcres = area
			}
		}
		if dateStr := strings.TrimSpace(cellVal(row, 13)); dateStr != "" {
			if _, derr := time.Parse("2006-01-02", dateStr); derr == nil {
				entry.enrolledDate = dateStr
			} else {
				log.Printf("row %d: unparseable enrolled date %q, storing NULL", i+1, dateStr)
			}
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func writeBatch(out *os.File, batch []farmerEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO farmers (id, name, name_en, phone, village, district, state, account_number, ifsc_code, bank_name, aadhaar, survey_number, area_acres, enrolled_date) VALUES\n")

	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}

		dateVal := "NULL"
		if e.enrolledDate != "" {
			dateVal = fmt.Sprintf("'%s'", e.enrolledDate)
		}

		fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', '%s', %.2f, %s)",
			escapeSQL(e.id), escapeSQL(e.name), escapeSQL(e.nameEN), escapeSQL(e.phone),
			escapeSQL(e.village), escapeSQL(e.district), escapeSQL(e.state),
			escapeSQL(e.accountNumber), escapeSQL(e.ifscCode), escapeSQL(e.bankName),
			escapeSQL(e.aadhaar), escapeSQL(e.surveyNumber), e.areaAcres, dateVal)
	}

	b.WriteString("\nON CONFLICT (id) DO NOTHING;\n")

	_, err := out.WriteString(b.String())
	return err
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// normalizeDigits strips spaces and dashes from identifier columns so the
// registry indexes on clean values.
func normalizeDigits(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
