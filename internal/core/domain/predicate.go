package domain

import "strings"

// Field names a searchable profile attribute. The value doubles as the
// document key in Mongo and the column name in Postgres.
type Field string

const (
	FieldName        Field = "name"
	FieldCity        Field = "city"
	FieldVillage     Field = "village"
	FieldState       Field = "state"
	FieldDescription Field = "description"
	FieldWork        Field = "work"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
)

// SearchFields are the attributes a free-text search looks at.
var SearchFields = []Field{
	FieldName, FieldCity, FieldVillage, FieldState,
	FieldDescription, FieldWork, FieldEmail, FieldPhone,
}

// Condition is a case-insensitive substring match on one field. For the
// work field it matches when any tag contains the substring.
type Condition struct {
	Field     Field
	Substring string
}

// Clause is satisfied when at least one of its conditions holds.
type Clause []Condition

// Predicate is satisfied when every clause holds. The empty predicate
// matches every profile.
type Predicate []Clause

// Matches evaluates the condition against p.
func (c Condition) Matches(p *Profile) bool {
	needle := strings.ToLower(c.Substring)
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}

	switch c.Field {
	case FieldName:
		return contains(p.Name)
	case FieldCity:
		return contains(p.City)
	case FieldVillage:
		return contains(p.Village)
	case FieldState:
		return contains(p.State)
	case FieldDescription:
		return contains(p.Description)
	case FieldEmail:
		return contains(p.Email)
	case FieldPhone:
		return contains(p.Phone)
	case FieldWork:
		for _, w := range p.Work {
			if contains(w) {
				return true
			}
		}
	}
	return false
}

// Matches reports whether any condition of the clause holds for p.
func (c Clause) Matches(p *Profile) bool {
	for _, cond := range c {
		if cond.Matches(p) {
			return true
		}
	}
	return false
}

// Matches reports whether every clause holds for p.
func (pr Predicate) Matches(p *Profile) bool {
	for _, clause := range pr {
		if !clause.Matches(p) {
			return false
		}
	}
	return true
}
