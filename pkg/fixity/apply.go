package fixity

import (
	"context"
	"fmt"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Applier knows how to read and write the checksum metadata of a file
// DID. Implementations go either through the service REST API or
// directly to the backing database.
type Applier interface {
	GetMeta(ctx context.Context, did model.DID) (model.Meta, error)
	SetMeta(ctx context.Context, did model.DID, meta model.Meta) error
}

// Apply outcomes per correction record
const (
	StatusUpdated        = "updated"
	StatusPlanned        = "planned"
	StatusAlreadyUpdated = "already updated"
	StatusMismatch       = "mismatch"
	StatusFailed         = "failed"
)

// ApplyEntry records the outcome for one correction
type ApplyEntry struct {
	DID    model.DID `json:"did" yaml:"did"`
	Status string    `json:"status" yaml:"status"`
	Error  string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// ApplyReport is the outcome of applying a corrections file
type ApplyReport struct {
	DryRun  bool         `json:"dry_run" yaml:"dry_run"`
	Entries []ApplyEntry `json:"entries" yaml:"entries"`
}

// Count returns the number of entries with the given status
func (r ApplyReport) Count(status string) int {
	n := 0
	for _, entry := range r.Entries {
		if entry.Status == status {
			n++
		}
	}
	return n
}

// Apply walks a corrections file and updates the metadata of each
// record through the applier.
//
// A record is applied only when the currently registered triple equals
// the record's old values: records already carrying the new values are
// skipped as already updated, anything else is flagged as a mismatch
// and left alone. After a write, the metadata is read back and
// verified.
//
// In dry-run mode the verification reads happen but nothing is written.
func Apply(ctx context.Context, applier Applier, corrections model.Corrections, opts ...Option) (ApplyReport, error) {
	settings := newSettings(opts...)
	report := ApplyReport{
		DryRun:  settings.dryRun,
		Entries: make([]ApplyEntry, 0, len(corrections)),
	}
	settings.l.Info("applying corrections",
		zap.Int("records", len(corrections)),
		zap.Bool("dry_run", settings.dryRun),
	)

	var err error
	for _, c := range corrections {
		did := c.DID()
		if verr := c.Validate(); verr != nil {
			report.Entries = append(report.Entries, ApplyEntry{DID: did, Status: StatusFailed, Error: verr.Error()})
			err = multierr.Append(err, verr)
			continue
		}

		current, gerr := applier.GetMeta(ctx, did)
		if gerr != nil {
			report.Entries = append(report.Entries, ApplyEntry{DID: did, Status: StatusFailed, Error: gerr.Error()})
			err = multierr.Append(err, fmt.Errorf("reading metadata for %s: %w", did, gerr))
			continue
		}

		switch {
		case current.Equal(c.New()):
			settings.l.Info("already updated, skipping", zap.String("did", did.String()))
			report.Entries = append(report.Entries, ApplyEntry{DID: did, Status: StatusAlreadyUpdated})
			continue
		case !current.Equal(c.Old):
			settings.l.Warn("metadata doesn't match provided old metadata, skipping",
				zap.String("did", did.String()),
				zap.Strings("diff", current.DiffFields(c.Old)),
			)
			report.Entries = append(report.Entries, ApplyEntry{DID: did, Status: StatusMismatch})
			continue
		}

		if settings.dryRun {
			settings.l.Info("dry-run: would update metadata", zap.String("did", did.String()))
			report.Entries = append(report.Entries, ApplyEntry{DID: did, Status: StatusPlanned})
			continue
		}

		if serr := applier.SetMeta(ctx, did, c.New()); serr != nil {
			report.Entries = append(report.Entries, ApplyEntry{DID: did, Status: StatusFailed, Error: serr.Error()})
			err = multierr.Append(err, fmt.Errorf("updating %s: %w", did, serr))
			continue
		}

		updated, gerr := applier.GetMeta(ctx, did)
		if gerr != nil || !updated.Equal(c.New()) {
			verifyErr := fmt.Errorf("post-update verification failed for %s", did)
			if gerr != nil {
				verifyErr = fmt.Errorf("post-update verification failed for %s: %w", did, gerr)
			}
			report.Entries = append(report.Entries, ApplyEntry{DID: did, Status: StatusFailed, Error: verifyErr.Error()})
			err = multierr.Append(err, verifyErr)
			continue
		}
		settings.l.Info("metadata updated", zap.String("did", did.String()))
		report.Entries = append(report.Entries, ApplyEntry{DID: did, Status: StatusUpdated})
	}
	return report, err
}
