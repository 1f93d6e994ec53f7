package release

import (
	"context"
	"fmt"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/lsst-dm/curation-tools/pkg/rucio"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RuleStatusClient is the part of the service client needed to check
// and re-boost rules
type RuleStatusClient interface {
	ListAssociatedRules(ctx context.Context, did model.DID) ([]model.Rule, error)
	UpdateReplicationRule(ctx context.Context, id string, opts rucio.RuleOptions) error
}

// StatusReport tallies rule states per DID and overall
type StatusReport struct {
	PerDID  map[string]model.RuleSummary `json:"per_did" yaml:"per_did"`
	Summary model.RuleSummary            `json:"summary" yaml:"summary"`
	Boosted int                          `json:"boosted" yaml:"boosted"`
}

// Status tallies the rule states of the given file DIDs.
//
// With WithBoost, stuck rules are re-boosted through a rule update and
// counted in the report.
func Status(ctx context.Context, client RuleStatusClient, dids model.DIDs, opts ...Option) (StatusReport, error) {
	settings := newSettings(opts...)
	m := settings.ensureMetrics()
	var err error
	if m != nil {
		defer func(t0 time.Time) {
			m.Usage.UsedAll(t0, "Status")(err)
		}(time.Now())
	}

	report := StatusReport{
		PerDID: make(map[string]model.RuleSummary, len(dids)),
	}

	for _, did := range dids {
		rules, lerr := client.ListAssociatedRules(ctx, did)
		if lerr != nil {
			err = multierr.Append(err, fmt.Errorf("listing rules for %s: %w", did, lerr))
			continue
		}

		var summary model.RuleSummary
		for _, rule := range rules {
			summary.Add(rule)
			if rule.State != model.RuleStateStuck {
				continue
			}
			settings.l.Info("stuck rule",
				zap.String("did", did.String()),
				zap.String("rule_id", rule.ID),
				zap.String("rse_expression", rule.RSEExpression),
			)
			if !settings.boost {
				continue
			}
			if uerr := client.UpdateReplicationRule(ctx, rule.ID, rucio.RuleOptions{Boost: true}); uerr != nil {
				err = multierr.Append(err, fmt.Errorf("boosting rule %s for %s: %w", rule.ID, did, uerr))
				continue
			}
			report.Boosted++
		}
		if summary.Stuck > 0 || summary.Suspended > 0 {
			settings.l.Warn("rules need attention",
				zap.String("did", did.String()),
				zap.String("summary", summary.String()),
			)
		}
		report.PerDID[did.String()] = summary
		report.Summary.Merge(summary)
	}
	return report, err
}
