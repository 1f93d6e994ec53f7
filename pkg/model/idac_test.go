package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const idacDoc = `{
	"rse": "IN2P3_DISK",
	"containers": {
		"dp1:Container/Coadds": "true",
		"dp1:Container/Catalogs": true,
		"dp1:Container/Raw": "false",
		"dp1:Container/Calibs": false
	}
}`

func TestUnmarshalIDACConfig(t *testing.T) {
	cfg, err := UnmarshalIDACConfig(strings.NewReader(idacDoc))
	require.NoError(t, err)
	assert.Equal(t, "IN2P3_DISK", cfg.RSE)
	require.Len(t, cfg.Containers, 4)
	assert.True(t, bool(cfg.Containers["dp1:Container/Coadds"]))
	assert.True(t, bool(cfg.Containers["dp1:Container/Catalogs"]))
	assert.False(t, bool(cfg.Containers["dp1:Container/Raw"]))
	assert.False(t, bool(cfg.Containers["dp1:Container/Calibs"]))
}

func TestUnmarshalIDACConfigErrors(t *testing.T) {
	_, err := UnmarshalIDACConfig(strings.NewReader(`{"rse": `))
	require.Error(t, err)

	_, err = UnmarshalIDACConfig(strings.NewReader(`{"rse": "X", "containers": {"a:b": "maybe"}}`))
	require.Error(t, err)

	_, err = UnmarshalIDACConfig(strings.NewReader(`{"rse": "X", "containers": {"a:b": 12}}`))
	require.Error(t, err)
}

func TestIDACConfigValidate(t *testing.T) {
	cfg, err := UnmarshalIDACConfig(strings.NewReader(idacDoc))
	require.NoError(t, err)

	require.NoError(t, cfg.Validate("IN2P3_DISK"))

	err = cfg.Validate("UKDF_DISK")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RSE mismatch")

	assert.Error(t, IDACConfig{Containers: cfg.Containers}.Validate("IN2P3_DISK"))
	assert.Error(t, IDACConfig{RSE: "IN2P3_DISK"}.Validate("IN2P3_DISK"))
	assert.Error(t, IDACConfig{
		RSE:        "IN2P3_DISK",
		Containers: map[string]Flag{"not-a-did": true},
	}.Validate("IN2P3_DISK"))
}

func TestIDACConfigCrossCheck(t *testing.T) {
	cfg, err := UnmarshalIDACConfig(strings.NewReader(idacDoc))
	require.NoError(t, err)

	manifest := ReleaseManifest{
		"dp1:Container/Coadds":   10,
		"dp1:Container/Catalogs": 20,
		"Container/Raw":          5,
		"Container/Calibs":       2,
	}
	require.NoError(t, cfg.CrossCheck(manifest))

	delete(manifest, "Container/Calibs")
	err = cfg.CrossCheck(manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dp1:Container/Calibs")
}

func TestIDACConfigEnabled(t *testing.T) {
	cfg, err := UnmarshalIDACConfig(strings.NewReader(idacDoc))
	require.NoError(t, err)

	assert.Equal(t, DIDs{
		{Scope: "dp1", Name: "Container/Catalogs"},
		{Scope: "dp1", Name: "Container/Coadds"},
	}, cfg.Enabled())

	assert.Equal(t, DIDs{
		{Scope: "dp1", Name: "Container/Calibs"},
		{Scope: "dp1", Name: "Container/Raw"},
	}, cfg.Disabled())
}
