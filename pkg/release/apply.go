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

// RuleAdder is the part of the service client needed to create rules
type RuleAdder interface {
	AddReplicationRule(ctx context.Context, req rucio.RuleRequest) ([]string, error)
}

// Entry statuses in a release report
const (
	StatusCreated = "created"
	StatusPlanned = "planned"
	StatusDeleted = "deleted"
	StatusFailed  = "failed"
)

// ReportEntry records the outcome for one container DID
type ReportEntry struct {
	DID     model.DID `json:"did" yaml:"did"`
	RuleIDs []string  `json:"rule_ids,omitempty" yaml:"rule_ids,omitempty"`
	Status  string    `json:"status" yaml:"status"`
	Error   string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the outcome of applying or revoking a release plan
type Report struct {
	Session model.ReleaseSession `json:"session" yaml:"session"`
	RSE     string               `json:"rse" yaml:"rse"`
	DryRun  bool                 `json:"dry_run" yaml:"dry_run"`
	Entries []ReportEntry        `json:"entries" yaml:"entries"`
	Skipped int                  `json:"skipped" yaml:"skipped"`
}

// Count returns the number of entries with the given status
func (r Report) Count(status string) int {
	n := 0
	for _, entry := range r.Entries {
		if entry.Status == status {
			n++
		}
	}
	return n
}

// Apply submits one replication rule per planned container.
//
// Rules are created with a single copy and asynchronous evaluation,
// commented with the session identifier. In dry-run mode no mutating
// call is issued and every entry is reported as planned.
//
// Individual failures do not abort the batch: the report carries the
// outcome per DID and the returned error aggregates every cause.
func Apply(ctx context.Context, client RuleAdder, plan Plan, opts ...Option) (Report, error) {
	settings := newSettings(opts...)
	m := settings.ensureMetrics()
	var err error
	if m != nil {
		defer func(t0 time.Time) {
			m.Usage.UsedAll(t0, "Apply")(err)
		}(time.Now())
	}

	report := Report{
		Session: plan.Session,
		RSE:     plan.RSE,
		DryRun:  settings.dryRun,
		Entries: make([]ReportEntry, 0, len(plan.ToCreate)),
		Skipped: len(plan.AlreadyPresent),
	}

	for _, did := range plan.ToCreate {
		if settings.dryRun {
			settings.l.Info("dry-run: would create rule",
				zap.String("did", did.String()),
				zap.String("rse", plan.RSE),
				zap.String("session", plan.Session.ID),
			)
			report.Entries = append(report.Entries, ReportEntry{DID: did, Status: StatusPlanned})
			continue
		}

		ids, aerr := client.AddReplicationRule(ctx, rucio.RuleRequest{
			DIDs:          model.DIDs{did},
			RSEExpression: plan.RSE,
			Copies:        1,
			Asynchronous:  true,
			Comment:       plan.Session.Comment(),
		})
		if m != nil {
			m.Volumetry.Rules.UsedAll(time.Now(), "AddReplicationRule")(aerr)
		}
		if aerr != nil {
			settings.l.Error("rule creation failed",
				zap.String("did", did.String()),
				zap.String("rse", plan.RSE),
				zap.Error(aerr),
			)
			report.Entries = append(report.Entries, ReportEntry{
				DID: did, Status: StatusFailed, Error: aerr.Error(),
			})
			err = multierr.Append(err, fmt.Errorf("creating rule for %s: %w", did, aerr))
			continue
		}
		settings.l.Info("rule created",
			zap.String("did", did.String()),
			zap.String("rse", plan.RSE),
			zap.Strings("rule_ids", ids),
		)
		report.Entries = append(report.Entries, ReportEntry{DID: did, RuleIDs: ids, Status: StatusCreated})
	}
	return report, err
}
