package release

import (
	"context"
	"testing"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevoke(t *testing.T) {
	client := &mockClient{
		listRulesFunc: func(did model.DID) ([]model.Rule, error) {
			if did.Name != "Container/Raw" {
				return nil, nil
			}
			return []model.Rule{
				{ID: "rule-1", Scope: did.Scope, Name: did.Name, RSEExpression: "IN2P3_DISK"},
				{ID: "rule-2", Scope: did.Scope, Name: did.Name, RSEExpression: "UKDF_DISK"},
			}, nil
		},
		deleteRuleFunc: func(id string, purge bool) error {
			assert.True(t, purge)
			return nil
		},
	}

	report, err := Revoke(context.Background(), client, testIDAC(), "IN2P3_DISK", WithPurge(true))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Count(StatusDeleted))
	// only the rule held at the target RSE goes
	assert.Equal(t, []string{"rule-1"}, client.deletedRules)
}

func TestRevokeDryRun(t *testing.T) {
	client := &mockClient{
		listRulesFunc: func(did model.DID) ([]model.Rule, error) {
			return []model.Rule{
				{ID: "rule-1", Scope: did.Scope, Name: did.Name, RSEExpression: "IN2P3_DISK"},
			}, nil
		},
		deleteRuleFunc: func(string, bool) error {
			t.Fatal("dry-run must not delete rules")
			return nil
		},
	}

	report, err := Revoke(context.Background(), client, testIDAC(), "IN2P3_DISK", WithDryRun(true))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(StatusPlanned))
	assert.Zero(t, client.mutations())
}

func TestRevokeNoRulesHeld(t *testing.T) {
	client := &mockClient{
		listRulesFunc: func(model.DID) ([]model.Rule, error) { return nil, nil },
	}

	report, err := Revoke(context.Background(), client, testIDAC(), "IN2P3_DISK")
	require.NoError(t, err)
	assert.Empty(t, report.Entries)
	assert.Equal(t, 1, report.Skipped)
}
