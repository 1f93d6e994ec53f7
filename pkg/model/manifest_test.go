package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalManifest(t *testing.T) {
	doc := `{
		"dp1:Container/Coadds": 1500,
		"dp1:Container/Catalogs": "42",
		"Container/Raw": 7
	}`
	m, err := UnmarshalManifest(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, m, 3)
	assert.Equal(t, Count(1500), m["dp1:Container/Coadds"])
	assert.Equal(t, Count(42), m["dp1:Container/Catalogs"])
	assert.Equal(t, Count(7), m["Container/Raw"])
}

func TestUnmarshalManifestErrors(t *testing.T) {
	_, err := UnmarshalManifest(strings.NewReader(`{"a": `))
	require.Error(t, err)

	_, err = UnmarshalManifest(strings.NewReader(`{}`))
	require.Error(t, err)

	_, err = UnmarshalManifest(strings.NewReader(`{"a": "not-a-number"}`))
	require.Error(t, err)

	_, err = UnmarshalManifest(strings.NewReader(`{"a": true}`))
	require.Error(t, err)
}

func TestManifestHas(t *testing.T) {
	m := ReleaseManifest{
		"dp1:Container/Coadds": 10,
		"Container/Raw":        5,
	}
	// bare key
	assert.True(t, m.Has("Container/Raw"))
	// qualified key, looked up by bare name
	assert.True(t, m.Has("Container/Coadds"))
	assert.False(t, m.Has("Container/Nope"))
}
