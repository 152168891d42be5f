package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"savora/apperr"
)

// These cover the paths that reject a request before the collection is
// touched; store round-trips belong to integration environments.

func TestMalformedIDsAreNotFound(t *testing.T) {
	s := &RecipeStore{}
	ctx := context.Background()

	_, err := s.GetByID(ctx, "not-a-hex-id")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = s.UpdateFields(ctx, "not-a-hex-id", map[string]any{"recipe_name": "x"})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = s.Delete(ctx, "not-a-hex-id")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateFieldsRejectsUnknownField(t *testing.T) {
	s := &RecipeStore{}

	err := s.UpdateFields(context.Background(), "6650f0000000000000000001", map[string]any{
		"no_such_field": 1,
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateFieldsNoopOnEmptyMap(t *testing.T) {
	s := &RecipeStore{}
	require.NoError(t, s.UpdateFields(context.Background(), "6650f0000000000000000001", nil))
}

func TestListRejectsUnknownFilterField(t *testing.T) {
	s := &RecipeStore{}

	_, err := s.List(context.Background(), map[string]string{"no_such_field": "x"}, 0, 10)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBuildListQueryTypesEqualityFilters(t *testing.T) {
	query, err := buildListQuery(map[string]string{
		"likes_count":  "3",
		"rating_total": "4.5",
		"tags":         "vegan",
		"user_id":      "U1",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, query["likes_count"])
	assert.Equal(t, 4.5, query["rating_total"])
	assert.Equal(t, "vegan", query["tags"])
	assert.Equal(t, "U1", query["user_id"])
}

func TestBuildListQueryRejectsBadNumericFilter(t *testing.T) {
	_, err := buildListQuery(map[string]string{"likes_count": "three"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = buildListQuery(map[string]string{"rating_total": "lots"})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBuildListQueryEscapesRegexInput(t *testing.T) {
	query, err := buildListQuery(map[string]string{"recipe_name": "chicken("})
	require.NoError(t, err)

	clause, ok := query["recipe_name"].(bson.M)
	require.True(t, ok)
	re, ok := clause["$regex"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `chicken\(`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}
