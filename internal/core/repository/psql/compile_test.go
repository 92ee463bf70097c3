package psql

import (
	"testing"

	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestCompileWhereEmpty(t *testing.T) {
	where, args := compileWhere(nil, nil)
	require.Empty(t, where)
	require.Empty(t, args)
}

func TestCompileWhereSearchAndWork(t *testing.T) {
	pred := domain.Predicate{
		{
			{Field: domain.FieldName, Substring: "ravi"},
			{Field: domain.FieldWork, Substring: "ravi"},
		},
		{
			{Field: domain.FieldWork, Substring: "Plumber"},
		},
	}

	where, args := compileWhere(pred, nil)
	require.Equal(t,
		" WHERE (name ILIKE $1 OR EXISTS (SELECT 1 FROM unnest(work) AS w WHERE w ILIKE $2))"+
			" AND (EXISTS (SELECT 1 FROM unnest(work) AS w WHERE w ILIKE $3))",
		where)
	require.Equal(t, []any{"%ravi%", "%ravi%", "%Plumber%"}, args)
}

func TestCompileWhereContinuesArgNumbering(t *testing.T) {
	where, args := compileWhere(domain.Predicate{{{Field: domain.FieldCity, Substring: "Pune"}}}, []any{"seed"})
	require.Equal(t, " WHERE (city ILIKE $2)", where)
	require.Equal(t, []any{"seed", "%Pune%"}, args)
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `100\%`, escapeLike("100%"))
	require.Equal(t, `a\_b`, escapeLike("a_b"))
	require.Equal(t, `c:\\x`, escapeLike(`c:\x`))
	require.Equal(t, "plain", escapeLike("plain"))
}

func TestColumnFallsBackToName(t *testing.T) {
	require.Equal(t, "email", column(domain.FieldEmail))
	require.Equal(t, "name", column(domain.Field("1=1; DROP TABLE profiles")))
}
