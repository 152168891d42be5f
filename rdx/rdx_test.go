package rdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyPrefixes(t *testing.T) {
	assert.Equal(t, "recipe:R1", RecipeKey("R1"))
	assert.Equal(t, "user_recipes:U1", UserRecipesKey("U1"))
}

func TestEncodeValueScalars(t *testing.T) {
	for _, val := range []any{"curry", 3, int64(9), 4.5, true} {
		got, err := encodeValue(val)
		require.NoError(t, err)
		assert.Equal(t, val, got)
	}
}

func TestEncodeValueSlices(t *testing.T) {
	got, err := encodeValue([]string{"http://a/1.jpg", "http://a/2.jpg"})
	require.NoError(t, err)
	assert.Equal(t, `["http://a/1.jpg","http://a/2.jpg"]`, got)

	got, err = encodeValue([]string(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", got)
}
