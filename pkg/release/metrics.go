package release

import (
	"github.com/lsst-dm/curation-tools/pkg/metrics"
)

// M describes metrics for the release package
type M struct {
	Volumetry struct {
		Rules   metrics.UsageMetrics `group:"rules" description:"rule creations and deletions issued by release operations"`
		Queries metrics.UsageMetrics `group:"queries" description:"rule list queries issued by release operations"`
	} `group:"volumetry" description:"volumetry measurements for release operations"`

	Usage metrics.UsageMetrics `group:"telemetry" description:"usage stats for the release package"`
}

func (s *Settings) ensureMetrics() *M {
	if !s.withMetrics {
		return nil
	}
	return metrics.EnsureMetrics("release", &M{}).(*M)
}
