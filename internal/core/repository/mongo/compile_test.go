package mongo

import (
	"testing"

	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCompileFilterEmptyMatchesAll(t *testing.T) {
	require.Equal(t, bson.M{}, compileFilter(nil))
}

func TestCompileFilterSingleClause(t *testing.T) {
	got := compileFilter(domain.Predicate{{
		{Field: domain.FieldWork, Substring: "Plumber"},
		{Field: domain.FieldWork, Substring: "Cook"},
	}})

	require.Equal(t, bson.M{"$or": bson.A{
		bson.M{"work": bson.M{"$regex": "Plumber", "$options": "i"}},
		bson.M{"work": bson.M{"$regex": "Cook", "$options": "i"}},
	}}, got)
}

func TestCompileFilterAndOfClauses(t *testing.T) {
	got := compileFilter(domain.Predicate{
		{{Field: domain.FieldName, Substring: "a.b"}},
		{{Field: domain.FieldWork, Substring: "C++"}},
	})

	require.Equal(t, bson.M{"$and": bson.A{
		bson.M{"$or": bson.A{bson.M{"name": bson.M{"$regex": `a\.b`, "$options": "i"}}}},
		bson.M{"$or": bson.A{bson.M{"work": bson.M{"$regex": `C\+\+`, "$options": "i"}}}},
	}}, got)
}
