package v1

import (
	"context"
	"fmt"
	"testing"

	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func searchClause(s string) domain.Clause {
	c := domain.Clause{}
	for _, f := range domain.SearchFields {
		c = append(c, domain.Condition{Field: f, Substring: s})
	}
	return c
}

func TestBuildPredicate(t *testing.T) {
	cases := []struct {
		name   string
		search string
		work   []string
		want   domain.Predicate
	}{
		{name: "neither", want: nil},
		{name: "blank search is no search", search: "   ", want: nil},
		{
			name:   "search only",
			search: " ravi ",
			want:   domain.Predicate{searchClause("ravi")},
		},
		{
			name: "work only",
			work: []string{"Plumber", "Cook"},
			want: domain.Predicate{{
				{Field: domain.FieldWork, Substring: "Plumber"},
				{Field: domain.FieldWork, Substring: "Cook"},
			}},
		},
		{
			name:   "both",
			search: "pune",
			work:   []string{"Cook"},
			want: domain.Predicate{
				searchClause("pune"),
				{{Field: domain.FieldWork, Substring: "Cook"}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildPredicate(tc.search, tc.work)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("BuildPredicate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWorkFilters(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"all", nil},
		{"ALL", nil},
		{"Plumber", []string{"Plumber"}},
		{" Plumber , ,Cook,plumber,all", []string{"Plumber", "Cook"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, ParseWorkFilters(tc.raw)); diff != "" {
			t.Errorf("ParseWorkFilters(%q) mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

func TestListQueryPaging(t *testing.T) {
	s, _ := newTestService(t, false)

	q := s.listQuery(ListParams{Page: "abc", Limit: "-3"})
	require.Equal(t, 1, q.Page)
	require.Equal(t, 100, q.Limit)

	q = s.listQuery(ListParams{Page: "3", Limit: "25"})
	require.Equal(t, 3, q.Page)
	require.Equal(t, 25, q.Limit)

	q = s.listQuery(ListParams{Limit: "100000"})
	require.Equal(t, 500, q.Limit)

	q = s.listQuery(ListParams{Limit: "50", Public: true})
	require.Equal(t, 12, q.Limit)
}

func seedProfiles(t *testing.T, s *ProfileService, profiles ...domain.ProfileInput) []*domain.Profile {
	t.Helper()
	out := make([]*domain.Profile, 0, len(profiles))
	for _, in := range profiles {
		p, err := s.CreateProfile(context.Background(), in)
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func TestListProfilesWorkFilter(t *testing.T) {
	s, _ := newTestService(t, false)
	seedProfiles(t, s,
		domain.ProfileInput{Name: "P1", Phone: "1", Work: []string{"Plumber"}},
		domain.ProfileInput{Name: "P2", Phone: "2", Work: []string{"Cook"}},
		domain.ProfileInput{Name: "P3", Phone: "3", Work: []string{"Electrician", "Plumber"}},
		domain.ProfileInput{Name: "P4", Phone: "4", Work: []string{"Driver"}},
		domain.ProfileInput{Name: "P5", Phone: "5", Work: []string{"Maid"}},
	)

	res, err := s.ListProfiles(context.Background(), ListParams{Search: "", Work: "Plumber"})
	require.NoError(t, err)
	require.Len(t, res.Profiles, 2)
	require.EqualValues(t, 2, res.Total)
	require.Equal(t, 1, res.Pages())
}

func TestListProfilesSearchFields(t *testing.T) {
	s, _ := newTestService(t, false)
	seedProfiles(t, s, domain.ProfileInput{
		Name:        "Meena Patel",
		Email:       "meena@example.com",
		Phone:       "90000 11111",
		Work:        []string{"Tailor"},
		Village:     "Sayaji",
		City:        "Vadodara",
		State:       "Gujarat",
		Description: "Blouse stitching",
	})

	for _, search := range []string{"meena", "VADODARA", "sayaji", "gujarat", "stitch", "tail", "@example", "11111"} {
		res, err := s.ListProfiles(context.Background(), ListParams{Search: search})
		require.NoError(t, err)
		require.EqualValues(t, 1, res.Total, "search %q", search)
	}

	res, err := s.ListProfiles(context.Background(), ListParams{Search: "meena", Work: "Plumber"})
	require.NoError(t, err)
	require.Zero(t, res.Total)
}

func TestListProfilesSearchIsLiteral(t *testing.T) {
	s, _ := newTestService(t, false)
	seedProfiles(t, s,
		domain.ProfileInput{Name: "A.B Services", Phone: "1", Work: []string{"Cook"}},
		domain.ProfileInput{Name: "AxB Services", Phone: "2", Work: []string{"Cook"}},
	)

	res, err := s.ListProfiles(context.Background(), ListParams{Search: "A.B"})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Total)
	require.Equal(t, "A.B Services", res.Profiles[0].Name)
}

func TestListProfilesIsIdempotent(t *testing.T) {
	s, _ := newTestService(t, false)
	for i := 0; i < 30; i++ {
		seedProfiles(t, s, domain.ProfileInput{Name: fmt.Sprintf("Worker %d", i), Phone: "1", Work: []string{"Cook"}})
	}

	params := ListParams{Work: "cook", Page: "2", Limit: "7"}
	first, err := s.ListProfiles(context.Background(), params)
	require.NoError(t, err)
	second, err := s.ListProfiles(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, first.Profiles, 7)
	require.EqualValues(t, 30, first.Total)
	require.Equal(t, 5, first.Pages())
	if diff := cmp.Diff(first.Profiles, second.Profiles); diff != "" {
		t.Errorf("pages differ (-first +second):\n%s", diff)
	}
	// Newest first: page 2 of size 7 starts at the 8th newest.
	require.Equal(t, "Worker 22", first.Profiles[0].Name)
}

func TestListProfilesPagePastEnd(t *testing.T) {
	s, _ := newTestService(t, false)
	seedProfiles(t, s,
		domain.ProfileInput{Name: "P1", Phone: "1", Work: []string{"Cook"}},
		domain.ProfileInput{Name: "P2", Phone: "2", Work: []string{"Cook"}},
	)

	for _, page := range []string{"3", "9223372036854775807"} {
		res, err := s.ListProfiles(context.Background(), ListParams{Page: page})
		require.NoError(t, err, "page %s", page)
		require.Empty(t, res.Profiles, "page %s", page)
		require.EqualValues(t, 2, res.Total, "page %s", page)
	}

	// Out of int range falls back to the first page.
	res, err := s.ListProfiles(context.Background(), ListParams{Page: "99999999999999999999"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Page)
	require.Len(t, res.Profiles, 2)
}
