// Package metrics collects usage and IO metrics from the curation
// tools, using opencensus measures exported to an influxdb backend.
//
// Metrics collectors are plain structs with measure fields annotated
// by `metric` tags, registered lazily with EnsureMetrics.
package metrics

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/metrics/exporters/influxdb"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// global settings for metrics
	mp       *settings
	initOnce sync.Once
)

type settings struct {
	basePath  string
	contexter func() context.Context
	exporter  view.Exporter
	d         time.Duration

	allViews []*view.View

	modules   map[string]interface{}
	exclusive sync.Mutex
}

func defaultSettings() *settings {
	return &settings{
		modules:   make(map[string]interface{}),
		contexter: context.Background,
	}
}

// DefaultExporter returns a metrics exporter for an influxdb backend,
// with db "curation" and time series "metrics"
func DefaultExporter(opts ...influxdb.Option) view.Exporter {
	sink, _ := influxdb.NewStore(
		influxdb.WithDatabase("curation"),
		influxdb.WithNameAsTag("metrics"),
	)
	return influxdb.NewExporter(
		append([]influxdb.Option{
			influxdb.WithStore(sink),
			influxdb.WithTags(map[string]string{"service": "curation"}),
		}, opts...)...,
	)
}

func newSettings(opts ...Option) *settings {
	s := defaultSettings()
	for _, apply := range opts {
		apply(s)
	}
	if s.exporter == nil {
		s.exporter = DefaultExporter()
	}
	view.RegisterExporter(s.exporter)
	if s.d >= time.Second {
		view.SetReportingPeriod(s.d)
	}
	return s
}

// Init global settings for metrics collection, such as global tags and
// exporter setup. Init may be called multiple times: only the first
// call matters.
func Init(opts ...Option) {
	initOnce.Do(func() {
		mp = newSettings(opts...)
	})
}

func ensureInit() *settings {
	Init()
	return mp
}

// EnsureMetrics allows for lazy registration of metrics collectors.
//
// It may safely be called several times for the same location: only
// the first registration is retained and returned.
func EnsureMetrics(location string, m interface{}) interface{} {
	s := ensureInit()
	s.exclusive.Lock()
	defer s.exclusive.Unlock()

	location = path.Join(s.basePath, location)
	if existing, ok := s.modules[location]; ok {
		return existing
	}
	scanStruct(location, s.addMetric, m)
	s.modules[location] = m
	return m
}

func (s *settings) addMetric(v *view.View) {
	s.allViews = append(s.allViews, v)
	_ = view.Register(v)
}

// Flush collects all remaining data for registered views and exports them
func Flush() {
	s := ensureInit()
	for _, v := range s.allViews {
		rows, err := view.RetrieveData(v.Name)
		if err != nil || len(rows) == 0 {
			continue
		}
		data := &view.Data{
			View:  v,
			Start: time.Now(),
			End:   time.Now(),
			Rows:  rows,
		}
		s.exporter.ExportView(data)
	}
}

// Inc increments a counter-like metric
func Inc(counter *stats.Int64Measure, tags ...map[string]string) {
	s := ensureInit()
	_ = stats.RecordWithTags(s.contexter(), mergeTags(tags), counter.M(1))
}

// Int64 records a value for a measurement
func Int64(measure *stats.Int64Measure, value int64, tags ...map[string]string) {
	s := ensureInit()
	_ = stats.RecordWithTags(s.contexter(), mergeTags(tags), measure.M(value))
}

// Float64 records a value for a measurement
func Float64(measure *stats.Float64Measure, value float64, tags ...map[string]string) {
	s := ensureInit()
	_ = stats.RecordWithTags(s.contexter(), mergeTags(tags), measure.M(value))
}

// Since feeds a millisecs timing measurement from some start time
func Since(start time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	Duration(start, time.Now(), measure, tags...)
}

// Duration feeds a millisecs timing measurement from some start to end timings
func Duration(start, end time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	s := ensureInit()
	ms := float64(end.Sub(start).Nanoseconds()) / 1e6
	_ = stats.RecordWithTags(s.contexter(), mergeTags(tags), measure.M(ms))
}

func mergeTags(extras []map[string]string) []tag.Mutator {
	mutators := make([]tag.Mutator, 0, 10)
	for _, extra := range extras {
		for k, v := range extra {
			mutators = append(mutators, tag.Upsert(tag.MustNewKey(k), v))
		}
	}
	return mutators
}
