package release

import (
	"context"
	"fmt"
	"testing"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/lsst-dm/curation-tools/pkg/rucio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() Plan {
	return Plan{
		Session: model.NewReleaseSession("IN2P3_DISK"),
		RSE:     "IN2P3_DISK",
		ToCreate: model.DIDs{
			{Scope: "dp1", Name: "Container/Catalogs"},
			{Scope: "dp1", Name: "Container/Coadds"},
		},
		AlreadyPresent: model.DIDs{
			{Scope: "dp1", Name: "Container/Raw"},
		},
	}
}

func TestApply(t *testing.T) {
	client := &mockClient{
		addRuleFunc: func(req rucio.RuleRequest) ([]string, error) {
			return []string{"rule-" + req.DIDs[0].Name}, nil
		},
	}

	report, err := Apply(context.Background(), client, testPlan())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count(StatusCreated))
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, client.addedRules, 2)

	// one rule per enabled container, 1 copy, asynchronous, session comment
	for _, req := range client.addedRules {
		require.Len(t, req.DIDs, 1)
		assert.Equal(t, 1, req.Copies)
		assert.True(t, req.Asynchronous)
		assert.Equal(t, "IN2P3_DISK", req.RSEExpression)
		assert.Contains(t, req.Comment, report.Session.ID)
	}
}

func TestApplyDryRun(t *testing.T) {
	client := &mockClient{
		addRuleFunc: func(rucio.RuleRequest) ([]string, error) {
			t.Fatal("dry-run must not create rules")
			return nil, nil
		},
	}

	report, err := Apply(context.Background(), client, testPlan(), WithDryRun(true))
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Count(StatusPlanned))
	assert.Zero(t, report.Count(StatusCreated))
	assert.Zero(t, client.mutations())
}

func TestApplyContinuesPastFailures(t *testing.T) {
	client := &mockClient{
		addRuleFunc: func(req rucio.RuleRequest) ([]string, error) {
			if req.DIDs[0].Name == "Container/Catalogs" {
				return nil, fmt.Errorf("quota exceeded")
			}
			return []string{"rule-1"}, nil
		},
	}

	report, err := Apply(context.Background(), client, testPlan())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Container/Catalogs")

	// the batch continued past the failed DID
	assert.Equal(t, 1, report.Count(StatusCreated))
	assert.Equal(t, 1, report.Count(StatusFailed))
	require.Len(t, client.addedRules, 2)
}
