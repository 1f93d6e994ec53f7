package rand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandBytes(t *testing.T) {
	b := Bytes(32)
	require.Len(t, b, 32)
	assert.NotEqual(t, b, Bytes(32))
}

func TestRandLetterString(t *testing.T) {
	s := LetterString(64)
	require.Len(t, s, 64)
	for _, r := range s {
		assert.Contains(t, letters, string(r))
	}
}
