package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids)

	ids, err = ParseIDs("  ")
	require.NoError(t, err)
	assert.Nil(t, ids)

	for _, bad := range []string{"1,,2", "a", "1,-2", "1.5"} {
		_, err = ParseIDs(bad)
		assert.Error(t, err, bad)
	}
}

func TestP(t *testing.T) {
	p := P(42)
	require.NotNil(t, p)
	assert.Equal(t, 42, *p)
}
