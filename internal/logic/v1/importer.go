package v1

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/duynhne/directory-service/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// firstDataLine is the line number of the first record after the header.
const firstDataLine = 2

// ImportRow is a normalized CSV record.
type ImportRow struct {
	Line        int
	Name        string
	Email       string
	Phone       string
	Gender      string
	Work        []string
	Address     string
	Village     string
	City        string
	State       string
	CompanyName string
	Experience  string
	Description string
	Avatar      string
}

// cleanCell trims a cell and maps empty markers left by spreadsheet exports
// to "".
func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "nan", "null", "undefined":
		return ""
	}
	return v
}

// NormalizeRow converts a raw record into an ImportRow. Missing columns
// become empty strings.
func NormalizeRow(line int, raw RawRow) ImportRow {
	get := func(col string) string { return cleanCell(raw[col]) }

	city := get(ColumnCity)
	if city == "" {
		city = get(columnLocation)
	}

	return ImportRow{
		Line:        line,
		Name:        get(ColumnName),
		Email:       normalizeEmail(get(ColumnEmail)),
		Phone:       get(ColumnPhone),
		Gender:      normalizeGender(get(ColumnGender)),
		Work:        splitWork(get(ColumnWork)),
		Address:     get(ColumnAddress),
		Village:     get(ColumnVillage),
		City:        city,
		State:       get(ColumnState),
		CompanyName: get(ColumnCompanyName),
		Experience:  get(ColumnExperience),
		Description: get(ColumnDescription),
		Avatar:      get(ColumnAvatar),
	}
}

func (r ImportRow) profile() *domain.Profile {
	return &domain.Profile{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Gender:      r.Gender,
		Work:        r.Work,
		Address:     r.Address,
		Village:     r.Village,
		City:        r.City,
		State:       r.State,
		CompanyName: r.CompanyName,
		Experience:  r.Experience,
		Description: r.Description,
		Avatar:      r.Avatar,
	}
}

// rejection renders the per-row reason for a domain error. It returns
// false for errors that are not the row's fault.
func rejection(line int, p *domain.Profile, err error) (string, bool) {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Row %d: %s", line, fieldErr.Error()), true
	case errors.Is(err, domain.ErrInvalidEmail):
		return fmt.Sprintf("Row %d: Invalid email format", line), true
	case errors.Is(err, domain.ErrEmailTaken):
		return fmt.Sprintf("Row %d: Email %s already exists", line, p.Email), true
	}
	return "", false
}

// ImportProfiles creates one profile per row, in order, one attempt each.
// A rejected row never stops the batch. A storage failure does: the rows
// after it are not attempted and the partial report is returned with the
// error.
func (s *ProfileService) ImportProfiles(ctx context.Context, rows []RawRow) (*domain.ImportReport, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.import", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("import.rows", len(rows)),
	))
	defer span.End()

	report := &domain.ImportReport{Errors: []string{}}

	for idx, raw := range rows {
		row := NormalizeRow(idx+firstDataLine, raw)
		p := row.profile()

		_, err := s.createProfile(ctx, p)
		if err == nil {
			report.Inserted++
			importRowsTotal.WithLabelValues("accepted").Inc()
			continue
		}

		reason, rowFault := rejection(row.Line, p, err)
		if !rowFault {
			span.RecordError(err)
			s.logger.Error("Import aborted",
				zap.Int("line", row.Line),
				zap.Int("inserted", report.Inserted),
				zap.Int("rejected", report.Rejected),
				zap.Error(err),
			)
			return report, fmt.Errorf("import row %d: %w", row.Line, err)
		}

		report.Rejected++
		report.Errors = append(report.Errors, reason)
		importRowsTotal.WithLabelValues("rejected").Inc()
		s.logger.Debug("Import row rejected", zap.String("reason", reason))
	}

	span.SetAttributes(
		attribute.Int("import.inserted", report.Inserted),
		attribute.Int("import.rejected", report.Rejected),
	)
	s.logger.Info("Import completed",
		zap.Int("inserted", report.Inserted),
		zap.Int("rejected", report.Rejected),
	)

	return report, nil
}
