package release

import (
	"context"
	"fmt"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RuleRevoker is the part of the service client needed to revoke rules
type RuleRevoker interface {
	RuleLister
	DeleteReplicationRule(ctx context.Context, id string, purge bool) error
}

// Revoke deletes the rules held at the RSE by containers flagged out of
// the release configuration.
//
// With WithPurge, the replicas locked by the rules are deleted along
// with them. In dry-run mode, rules are looked up but nothing is
// deleted.
func Revoke(ctx context.Context, client RuleRevoker, idac model.IDACConfig, rse string, opts ...Option) (Report, error) {
	settings := newSettings(opts...)
	m := settings.ensureMetrics()
	var err error
	if m != nil {
		defer func(t0 time.Time) {
			m.Usage.UsedAll(t0, "Revoke")(err)
		}(time.Now())
	}

	if err = idac.Validate(rse); err != nil {
		return Report{}, err
	}

	report := Report{
		Session: model.NewReleaseSession(rse),
		RSE:     rse,
		DryRun:  settings.dryRun,
	}
	settings.l.Info("revoking release rules",
		zap.String("session", report.Session.ID),
		zap.String("rse", rse),
	)

	for _, did := range idac.Disabled() {
		rules, lerr := client.ListDIDRules(ctx, did)
		if lerr != nil {
			err = multierr.Append(err, fmt.Errorf("listing rules for %s: %w", did, lerr))
			report.Entries = append(report.Entries, ReportEntry{
				DID: did, Status: StatusFailed, Error: lerr.Error(),
			})
			continue
		}

		var held []string
		for _, rule := range rules {
			if rule.RSEExpression == rse {
				held = append(held, rule.ID)
			}
		}
		if len(held) == 0 {
			report.Skipped++
			continue
		}

		if settings.dryRun {
			settings.l.Info("dry-run: would delete rules",
				zap.String("did", did.String()),
				zap.Strings("rule_ids", held),
			)
			report.Entries = append(report.Entries, ReportEntry{DID: did, RuleIDs: held, Status: StatusPlanned})
			continue
		}

		entry := ReportEntry{DID: did, Status: StatusDeleted}
		for _, id := range held {
			if derr := client.DeleteReplicationRule(ctx, id, settings.purge); derr != nil {
				settings.l.Error("rule deletion failed",
					zap.String("did", did.String()),
					zap.String("rule_id", id),
					zap.Error(derr),
				)
				entry.Status = StatusFailed
				entry.Error = derr.Error()
				err = multierr.Append(err, fmt.Errorf("deleting rule %s for %s: %w", id, did, derr))
				continue
			}
			entry.RuleIDs = append(entry.RuleIDs, id)
			settings.l.Info("rule deleted",
				zap.String("did", did.String()),
				zap.String("rule_id", id),
				zap.Bool("purge", settings.purge),
			)
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, err
}
