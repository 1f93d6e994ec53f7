package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleValidate(t *testing.T) {
	rule := Rule{
		ID:            "9f2c1a0e-73f7-4e9b-8a4f-02c3f1b45a6d",
		Scope:         "dp1",
		Name:          "Container/Coadds",
		RSEExpression: "IN2P3_DISK",
		State:         RuleStateOK,
	}
	require.NoError(t, rule.Validate())
	assert.Equal(t, DID{Scope: "dp1", Name: "Container/Coadds"}, rule.DID())

	rule.ID = "not-a-uuid"
	assert.Error(t, rule.Validate())
}

func TestRuleSummary(t *testing.T) {
	var summary RuleSummary
	for _, state := range []string{
		RuleStateOK, RuleStateOK, RuleStateStuck, RuleStateReplicating,
		RuleStateSuspended, RuleStateWaiting,
	} {
		summary.Add(Rule{State: state})
	}
	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 2, summary.OK)
	assert.Equal(t, 1, summary.Stuck)
	assert.Equal(t, 1, summary.Replicating)
	assert.Equal(t, 1, summary.Suspended)

	other := RuleSummary{Total: 1, OK: 1}
	summary.Merge(other)
	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 3, summary.OK)

	assert.Equal(t, "Ok: 3, Stuck: 1, Suspended: 1, Replicating: 1", summary.String())
}

func TestReleaseSession(t *testing.T) {
	session := NewReleaseSession("IN2P3_DISK")
	require.NoError(t, ValidateSessionID(session.ID))
	assert.Contains(t, session.Comment(), session.ID)
	assert.Contains(t, session.Comment(), "IN2P3_DISK")

	assert.Error(t, ValidateSessionID("not-a-ksuid!"))
}
