package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvatarURL(t *testing.T) {
	const base = "https://ui-avatars.com/api/"

	got := AvatarURL(base, "John Doe")
	require.Equal(t, "https://ui-avatars.com/api/?name=John+Doe&background=667eea&color=fff&size=200", got)

	// Whitespace runs collapse, so the URL only depends on the words.
	require.Equal(t, got, AvatarURL(base, "  John   Doe "))
	require.Contains(t, AvatarURL(base, "Zoë & Co"), "name=Zo%C3%AB+%26+Co&")
}

func TestListResultPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 12, 3},
		{5, 0, 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ListResult{Total: tc.total, Limit: tc.limit}.Pages(), "total=%d limit=%d", tc.total, tc.limit)
	}
}

func TestListQuerySkip(t *testing.T) {
	require.Equal(t, 0, ListQuery{Page: 1, Limit: 12}.Skip())
	require.Equal(t, 0, ListQuery{Page: 0, Limit: 12}.Skip())
	require.Equal(t, 24, ListQuery{Page: 3, Limit: 12}.Skip())
	require.Equal(t, 0, ListQuery{Page: 3, Limit: 0}.Skip())

	// Saturates instead of wrapping negative.
	require.Equal(t, math.MaxInt, ListQuery{Page: math.MaxInt, Limit: 100}.Skip())
	require.Equal(t, math.MaxInt, ListQuery{Page: math.MaxInt/100 + 2, Limit: 100}.Skip())
	require.Equal(t, (math.MaxInt/100)*100, ListQuery{Page: math.MaxInt/100 + 1, Limit: 100}.Skip())
}

func TestProfileUpdateApply(t *testing.T) {
	p := Profile{Name: "Asha", Phone: "111", Work: []string{"Cook"}, Avatar: "a.png"}

	require.True(t, ProfileUpdate{}.IsEmpty())

	city := "Pune"
	upd := ProfileUpdate{City: &city, Work: []string{"Cook", "Maid"}}
	require.False(t, upd.IsEmpty())

	upd.Apply(&p)
	require.Equal(t, "Pune", p.City)
	require.Equal(t, []string{"Cook", "Maid"}, p.Work)
	require.Equal(t, "Asha", p.Name)
	require.Equal(t, "a.png", p.Avatar)

	// Applied work must not alias the update's slice.
	upd.Work[0] = "Driver"
	require.Equal(t, "Cook", p.Work[0])
}

func TestFieldError(t *testing.T) {
	err := MissingField("phone")
	require.EqualError(t, err, "Missing required field: phone")
	require.True(t, errors.Is(err, ErrValidation))
}

func TestValidGender(t *testing.T) {
	for _, g := range []string{"", GenderMale, GenderFemale, GenderOther} {
		require.True(t, ValidGender(g), g)
	}
	require.False(t, ValidGender("male"))
	require.False(t, ValidGender("Unknown"))
}
