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

// DIDToucher is the part of the service client needed to re-trigger
// subscription evaluation on datasets
type DIDToucher interface {
	ListDIDs(ctx context.Context, scope, namePattern, didType string) ([]string, error)
	SetMetadata(ctx context.Context, did model.DID, key string, value interface{}) error
}

// Touch marks the datasets matching a wildcard name pattern as new, so
// the service re-evaluates its subscriptions against them. It returns
// the number of datasets touched (or matched, in dry-run mode).
func Touch(ctx context.Context, client DIDToucher, scope, namePattern string, opts ...Option) (int, error) {
	settings := newSettings(opts...)
	m := settings.ensureMetrics()
	var err error
	if m != nil {
		defer func(t0 time.Time) {
			m.Usage.UsedAll(t0, "Touch")(err)
		}(time.Now())
	}

	names, err := client.ListDIDs(ctx, scope, namePattern, rucio.DIDTypeDataset)
	if err != nil {
		return 0, fmt.Errorf("searching datasets %s:%s: %w", scope, namePattern, err)
	}

	touched := 0
	for _, name := range names {
		did := model.DID{Scope: scope, Name: name}
		settings.l.Info("touching dataset", zap.String("did", did.String()))
		if settings.dryRun {
			touched++
			continue
		}
		if terr := client.SetMetadata(ctx, did, "is_new", true); terr != nil {
			err = multierr.Append(err, fmt.Errorf("touching %s: %w", did, terr))
			continue
		}
		touched++
	}
	return touched, err
}
