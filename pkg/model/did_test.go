package model

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDID(t *testing.T) {
	for _, toPin := range []struct {
		DID      string
		Expected DID
		HasError bool
	}{
		{DID: "dp1:Container/Coadds", Expected: DID{Scope: "dp1", Name: "Container/Coadds"}},
		{DID: "dp1:Dataset/Provenance/Tract123", Expected: DID{Scope: "dp1", Name: "Dataset/Provenance/Tract123"}},
		{DID: "no-colon", HasError: true},
		{DID: ":name", HasError: true},
		{DID: "scope:", HasError: true},
		{DID: "scope:name:extra", HasError: true},
		{DID: "sc ope:name", HasError: true},
		{DID: strings.Repeat("s", 26) + ":name", HasError: true},
	} {
		testCase := toPin
		t.Run(testCase.DID, func(t *testing.T) {
			did, err := ParseDID(testCase.DID)
			if testCase.HasError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.Expected, did)
			assert.Equal(t, testCase.DID, did.String())
		})
	}
}

func TestDIDValidate(t *testing.T) {
	assert.NoError(t, DID{Scope: "dp1", Name: "Container/A"}.Validate())
	assert.Error(t, DID{Scope: "", Name: "Container/A"}.Validate())
	assert.Error(t, DID{Scope: "dp1", Name: ""}.Validate())
	assert.Error(t, DID{Scope: "dp/1", Name: "Container/A"}.Validate())
	assert.Error(t, DID{Scope: "dp1", Name: "bad name"}.Validate())
}

func TestDIDsSort(t *testing.T) {
	dids := DIDs{
		{Scope: "dp1", Name: "b"},
		{Scope: "dp0", Name: "z"},
		{Scope: "dp1", Name: "a"},
	}
	sort.Sort(dids)
	assert.Equal(t, DIDs{
		{Scope: "dp0", Name: "z"},
		{Scope: "dp1", Name: "a"},
		{Scope: "dp1", Name: "b"},
	}, dids)
}
