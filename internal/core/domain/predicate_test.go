package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicateMatches(t *testing.T) {
	ravi := &Profile{
		Name:        "Ravi Kumar",
		Email:       "ravi@example.com",
		Phone:       "98765",
		Work:        []string{"Plumber", "Electrician"},
		City:        "Mumbai",
		Village:     "Andheri",
		State:       "Maharashtra",
		Description: "Pipes and fittings",
	}

	cases := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"empty predicate matches all", nil, true},
		{"name is case-insensitive", Predicate{{{FieldName, "RAVI"}}}, true},
		{"work matches any tag", Predicate{{{FieldWork, "elec"}}}, true},
		{"work without match", Predicate{{{FieldWork, "Carpenter"}}}, false},
		{"clause is OR", Predicate{{{FieldCity, "Delhi"}, {FieldState, "mahara"}}}, true},
		{"predicate is AND", Predicate{
			{{FieldCity, "mumbai"}},
			{{FieldWork, "Carpenter"}},
		}, false},
		{"phone substring", Predicate{{{FieldPhone, "876"}}}, true},
		{"unknown field never matches", Predicate{{{Field("avatar"), "x"}}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.pred.Matches(ravi))
		})
	}
}
