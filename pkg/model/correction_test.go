package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const correctionsDoc = `[
	{
		"name": "raw/file1.fits",
		"scope": "dp1",
		"adler32": "0a1b2c3d",
		"md5": "d41d8cd98f00b204e9800998ecf8427e",
		"bytes": 2048,
		"old": {
			"adler32": "deadbeef",
			"md5": "00000000000000000000000000000000",
			"bytes": 1024
		}
	}
]`

func TestUnmarshalCorrections(t *testing.T) {
	corrections, err := UnmarshalCorrections(strings.NewReader(correctionsDoc))
	require.NoError(t, err)
	require.Len(t, corrections, 1)

	c := corrections[0]
	require.NoError(t, c.Validate())
	assert.Equal(t, DID{Scope: "dp1", Name: "raw/file1.fits"}, c.DID())
	assert.Equal(t, Meta{Adler32: "0a1b2c3d", MD5: "d41d8cd98f00b204e9800998ecf8427e", Bytes: 2048}, c.New())
	assert.Equal(t, Meta{Adler32: "deadbeef", MD5: "00000000000000000000000000000000", Bytes: 1024}, c.Old)

	var buf bytes.Buffer
	require.NoError(t, corrections.Marshal(&buf))
	reread, err := UnmarshalCorrections(&buf)
	require.NoError(t, err)
	assert.Equal(t, corrections, reread)
}

func TestCorrectionValidate(t *testing.T) {
	assert.Error(t, Correction{Scope: "dp1", Name: "f", MD5: "x"}.Validate())
	assert.Error(t, Correction{Name: "f", Adler32: "x", MD5: "y"}.Validate())
}

func TestMetaDiff(t *testing.T) {
	a := Meta{Adler32: "1", MD5: "2", Bytes: 3}
	assert.True(t, a.Equal(a))
	assert.Empty(t, a.DiffFields(a))

	b := Meta{Adler32: "1", MD5: "x", Bytes: 4}
	assert.False(t, a.Equal(b))
	assert.Equal(t, []string{"md5", "bytes"}, a.DiffFields(b))
}
