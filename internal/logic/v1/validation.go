package v1

import (
	"fmt"
	"strings"

	"github.com/duynhne/directory-service/internal/core/domain"
)

// requiredField reads one required attribute off a profile.
type requiredField struct {
	name  string
	value func(p *domain.Profile) bool
}

func hasText(get func(p *domain.Profile) string) func(p *domain.Profile) bool {
	return func(p *domain.Profile) bool { return get(p) != "" }
}

var (
	fieldName  = requiredField{"name", hasText(func(p *domain.Profile) string { return p.Name })}
	fieldPhone = requiredField{"phone", hasText(func(p *domain.Profile) string { return p.Phone })}
	fieldWork  = requiredField{"work", func(p *domain.Profile) bool { return len(p.Work) > 0 }}

	// relaxedFields is the policy of the listing schema generation.
	relaxedFields = []requiredField{fieldName, fieldPhone, fieldWork}

	// strictFields is the policy of the registration schema generation.
	strictFields = []requiredField{
		fieldName,
		{"email", hasText(func(p *domain.Profile) string { return p.Email })},
		fieldPhone,
		{"gender", hasText(func(p *domain.Profile) string { return p.Gender })},
		fieldWork,
		{"address", hasText(func(p *domain.Profile) string { return p.Address })},
		{"village", hasText(func(p *domain.Profile) string { return p.Village })},
		{"city", hasText(func(p *domain.Profile) string { return p.City })},
		{"state", hasText(func(p *domain.Profile) string { return p.State })},
		{"experience", hasText(func(p *domain.Profile) string { return p.Experience })},
	}
)

// validateProfile checks a normalized profile. The first failing rule wins.
func validateProfile(p *domain.Profile, strict bool) error {
	fields := relaxedFields
	if strict {
		fields = strictFields
	}
	for _, f := range fields {
		if !f.value(p) {
			return domain.MissingField(f.name)
		}
	}

	if !domain.ValidGender(p.Gender) {
		return &domain.FieldError{Field: "gender", Reason: "Invalid value"}
	}

	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return fmt.Errorf("validate email %q: %w", p.Email, domain.ErrInvalidEmail)
	}

	return nil
}

// normalizeEmail applies the stored form of an email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeWork trims tags and drops empty ones.
func normalizeWork(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitWork splits a comma-separated work cell into tags.
func splitWork(cell string) []string {
	return normalizeWork(strings.Split(cell, ","))
}

// normalizeGender maps case variants onto the canonical enumeration so
// "male" and "MALE" are accepted. Unknown values are kept for validation
// to reject.
func normalizeGender(g string) string {
	g = strings.TrimSpace(g)
	for _, v := range []string{domain.GenderMale, domain.GenderFemale, domain.GenderOther} {
		if strings.EqualFold(g, v) {
			return v
		}
	}
	return g
}

// profileFromInput builds the normalized profile for a create request.
// Legacy skills/location are folded into work/city here and nowhere else.
func profileFromInput(in domain.ProfileInput) *domain.Profile {
	work := in.Work
	if len(normalizeWork(work)) == 0 {
		work = in.Skills
	}
	city := strings.TrimSpace(in.City)
	if city == "" {
		city = strings.TrimSpace(in.Location)
	}

	return &domain.Profile{
		Name:        strings.TrimSpace(in.Name),
		Email:       normalizeEmail(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Gender:      normalizeGender(in.Gender),
		Work:        normalizeWork(work),
		Address:     strings.TrimSpace(in.Address),
		Village:     strings.TrimSpace(in.Village),
		City:        city,
		State:       strings.TrimSpace(in.State),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Experience:  strings.TrimSpace(in.Experience),
		Description: strings.TrimSpace(in.Description),
		Avatar:      strings.TrimSpace(in.Avatar),
	}
}

// updateFromInput keeps only the supplied (non-empty) fields of in.
func updateFromInput(in domain.ProfileInput) domain.ProfileUpdate {
	var upd domain.ProfileUpdate
	str := func(v string) *string {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		return &v
	}

	upd.Name = str(in.Name)
	if email := normalizeEmail(in.Email); email != "" {
		upd.Email = &email
	}
	upd.Phone = str(in.Phone)
	if g := normalizeGender(in.Gender); g != "" {
		upd.Gender = &g
	}
	if work := normalizeWork(in.Work); len(work) > 0 {
		upd.Work = work
	} else if skills := normalizeWork(in.Skills); len(skills) > 0 {
		upd.Work = skills
	}
	upd.Address = str(in.Address)
	upd.Village = str(in.Village)
	upd.City = str(in.City)
	if upd.City == nil {
		upd.City = str(in.Location)
	}
	upd.State = str(in.State)
	upd.CompanyName = str(in.CompanyName)
	upd.Experience = str(in.Experience)
	upd.Description = str(in.Description)
	upd.Avatar = str(in.Avatar)

	return upd
}
