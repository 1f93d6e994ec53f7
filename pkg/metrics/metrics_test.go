package metrics

import (
	"sync"
	"testing"
	"time"

	"go.opencensus.io/stats/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testExporter struct {
	mu   sync.Mutex
	data []*view.Data
}

func (e *testExporter) ExportView(d *view.Data) {
	e.mu.Lock()
	e.data = append(e.data, d)
	e.mu.Unlock()
}

type testMetrics struct {
	Usage UsageMetrics `group:"telemetry" description:"usage stats for tests"`
}

func TestEnsureMetrics(t *testing.T) {
	Init(WithExporter(&testExporter{}), WithBasePath("test"))

	m := EnsureMetrics("collector", &testMetrics{}).(*testMetrics)
	require.NotNil(t, m.Usage.Count)
	require.NotNil(t, m.Usage.Failures)
	require.NotNil(t, m.Usage.Timing)
	assert.Equal(t, "test/collector/telemetry/usageCount", m.Usage.Count.Name())

	// re-registration returns the first collector
	again := EnsureMetrics("collector", &testMetrics{}).(*testMetrics)
	assert.Same(t, m, again)
}

func TestUsageMetricsRecording(t *testing.T) {
	Init(WithExporter(&testExporter{}))
	m := EnsureMetrics("recording", &testMetrics{}).(*testMetrics)

	assert.NotPanics(t, func() {
		m.Usage.Inc("op")
		m.Usage.Used(time.Now().Add(-time.Millisecond), "op")
		m.Usage.UsedAll(time.Now(), "op")(nil)
		m.Usage.UsedAll(time.Now(), "op")(assert.AnError)
		Flush()
	})
}

func TestScanStructPanics(t *testing.T) {
	assert.Panics(t, func() {
		scanStruct("bogus", func(*view.View) {}, testMetrics{})
	})
}
