package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 35.7, RoundFloat(35.699999999999996, 2))
	assert.Equal(t, 23.987, RoundFloat(23.98666666, 3))
	assert.Equal(t, -0.5, RoundFloat(-0.5001, 2))
	assert.Equal(t, 3.0, RoundFloat(2.5, 0))
}

func TestGenerateETagStable(t *testing.T) {
	payload := map[string]float64{"TRY": 71960, "GA": 23.987}

	first, err := GenerateETag(payload)
	require.NoError(t, err)
	second, err := GenerateETag(payload)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := GenerateETag(map[string]float64{"TRY": 71961})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
