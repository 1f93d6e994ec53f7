package cmd

import (
	"time"

	"github.com/lsst-dm/curation-tools/pkg/metrics"
	"github.com/lsst-dm/curation-tools/pkg/metrics/exporters/influxdb"
)

type metricsFlags struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"` // pointer because we want to distinguish unset from false
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	m       *M
}

func (m metricsFlags) IsEnabled() bool {
	return m.Enabled != nil && *m.Enabled
}

// M describes metrics for the cmd package
type M struct {
	Usage metrics.UsageMetrics `group:"telemetry" description:"usage stats for the curation CLI"`

	// more metrics here
}

// initMetrics resolves the metrics toggle from flags and config, then
// initializes the collector when enabled.
func initMetrics() {
	if rootCmd.PersistentFlags().Changed("metrics") {
		enabled := curationFlags.root.metricsEnabled
		curationFlags.root.metrics.Enabled = &enabled
	} else if config != nil && config.Metrics.Enabled != nil {
		curationFlags.root.metrics.Enabled = config.Metrics.Enabled
	}
	if !curationFlags.root.metrics.IsEnabled() {
		return
	}

	opts := make([]metrics.Option, 0, 1)
	if curationFlags.root.metrics.URL != "" {
		sink, err := influxdb.NewStore(
			influxdb.WithAddr(curationFlags.root.metrics.URL),
			influxdb.WithDatabase("curation"),
			influxdb.WithNameAsTag("metrics"),
		)
		if err != nil {
			wrapFatalln("invalid metrics collector endpoint", err)
			return
		}
		opts = append(opts, metrics.WithExporter(influxdb.NewExporter(influxdb.WithStore(sink))))
	} else {
		opts = append(opts, metrics.WithExporter(metrics.DefaultExporter()))
	}
	metrics.Init(opts...)
	curationFlags.root.metrics.m = metrics.EnsureMetrics("cmd", &M{}).(*M)
}

// cliUsage records a usage metric in the CLI context in a single go.
// This is intended to be used in some defer statement.
//
// Metrics are flushed as soon as the command is done.
func cliUsage(t0 time.Time, command string, err error) {
	if curationFlags.root.metrics.IsEnabled() {
		curationFlags.root.metrics.m.Usage.UsedAll(t0, command)(err)
		metrics.Flush()
	}
}
