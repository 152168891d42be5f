package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savora/apperr"
)

func TestParsePageDefaults(t *testing.T) {
	start, limit, err := ParsePage("", "", 30)
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 30, limit)
}

func TestParsePageExplicit(t *testing.T) {
	start, limit, err := ParsePage("20", "5", 30)
	require.NoError(t, err)
	assert.Equal(t, 20, start)
	assert.Equal(t, 5, limit)
}

func TestParsePageZeroLimitFallsBack(t *testing.T) {
	_, limit, err := ParsePage("0", "0", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, limit)
}

func TestParsePageRejectsBadValues(t *testing.T) {
	for _, tc := range [][2]string{
		{"-1", ""},
		{"", "-5"},
		{"abc", ""},
		{"", "1.5"},
	} {
		_, _, err := ParsePage(tc[0], tc[1], 30)
		assert.ErrorIs(t, err, apperr.ErrValidation, "start=%q limit=%q", tc[0], tc[1])
	}
}
