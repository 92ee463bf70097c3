package v1

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/duynhne/directory-service/internal/core/domain"
)

// Recognized CSV columns.
const (
	ColumnName        = "name"
	ColumnEmail       = "email"
	ColumnPhone       = "phone"
	ColumnGender      = "gender"
	ColumnWork        = "work"
	ColumnAddress     = "address"
	ColumnVillage     = "village"
	ColumnCity        = "city"
	ColumnState       = "state"
	ColumnCompanyName = "companyName"
	ColumnExperience  = "experience"
	ColumnDescription = "description"
	ColumnAvatar      = "avatar"

	// Legacy column names accepted in uploads.
	columnSkills   = "skills"
	columnLocation = "location"
)

// TemplateColumns is the header row of the downloadable template.
var TemplateColumns = []string{
	ColumnName, ColumnEmail, ColumnPhone, ColumnGender, ColumnWork,
	ColumnAddress, ColumnVillage, ColumnCity, ColumnState,
	ColumnCompanyName, ColumnExperience, ColumnDescription, ColumnAvatar,
}

// TemplateFilename is the suggested name of the downloaded template.
const TemplateFilename = "profiles_template.csv"

// TemplateCSV returns the template document: header plus one example row.
func TemplateCSV() []byte {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(TemplateColumns)
	_ = w.Write([]string{
		"John Doe", "john.doe@example.com", "+91 98765 43210", "Male", "Plumber, Electrician",
		"12 Station Road", "Sayaji", "Vadodara", "Gujarat",
		"Doe Services", "5 years", "Residential plumbing and wiring", "",
	})
	w.Flush()
	return []byte(b.String())
}

// RawRow is one parsed CSV record keyed by header column. Values are the
// cells as read; normalization happens in NormalizeRow.
type RawRow map[string]string

// ParseCSV reads a profile table. Structural problems (ragged rows, bad
// quoting, a header without name, phone or work) fail the whole document
// with domain.ErrMalformedCSV before any row is used.
func ParseCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrMalformedCSV)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCSV, err)
	}

	columns, err := headerColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCSV, err)
		}

		row := make(RawRow, len(columns))
		for i, col := range columns {
			if col != "" {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// headerColumns canonicalizes header names. Unknown columns map to "" and
// are ignored; duplicate or missing required columns are errors.
func headerColumns(header []string) ([]string, error) {
	known := make(map[string]string, len(TemplateColumns)+2)
	for _, c := range TemplateColumns {
		known[strings.ToLower(c)] = c
	}
	known[columnSkills] = ColumnWork
	known[columnLocation] = columnLocation

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		col, ok := known[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if seen[col] {
			return nil, fmt.Errorf("%w: duplicate column %q", domain.ErrMalformedCSV, col)
		}
		seen[col] = true
		columns[i] = col
	}

	for _, required := range []string{ColumnName, ColumnPhone, ColumnWork} {
		if !seen[required] {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrMalformedCSV, required)
		}
	}

	return columns, nil
}
