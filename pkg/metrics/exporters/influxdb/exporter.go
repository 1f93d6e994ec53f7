package influxdb

import (
	"context"
	"fmt"

	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var _ view.Exporter = &Exporter{}

// Exporter is an opencensus exporter for influxdb
type Exporter struct {
	store        Store
	errorHandler func(error)
	customTags   map[string]string
}

// NewExporter creates a new influxdb exporter
func NewExporter(opts ...Option) *Exporter {
	sink, _ := NewStore()
	e := &Exporter{
		errorHandler: func(_ error) {},
		store:        sink,
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

const (
	descriptionTag = "description"
	unitTag        = "unit"
	aggregationTag = "aggregation"

	valueField = "value"
	minField   = "min"
	maxField   = "max"
	meanField  = "mean"
	countField = "count"
)

// ExportView sends collected metrics to the backend sink
func (e *Exporter) ExportView(viewData *view.Data) {
	points := make([]MetricPoint, 0, len(viewData.Rows))
	for _, row := range viewData.Rows {
		fields := make(map[string]interface{}, 4)
		tags := make(map[string]string, len(e.customTags)+len(row.Tags)+3)

		if viewData.View.Description != "" {
			tags[descriptionTag] = viewData.View.Description
		}
		tags[unitTag] = viewData.View.Measure.Unit()

		switch d := row.Data.(type) {
		case *view.CountData:
			fields[valueField] = float64(d.Value)
			tags[aggregationTag] = "count"
		case *view.SumData:
			fields[valueField] = d.Value
			tags[aggregationTag] = "sum"
		case *view.LastValueData:
			fields[valueField] = d.Value
			tags[aggregationTag] = "last"
		case *view.DistributionData:
			fields[minField] = d.Min
			fields[maxField] = d.Max
			fields[meanField] = d.Mean
			fields[countField] = d.Count
			tags[aggregationTag] = "distribution"
		default:
			e.errorHandler(fmt.Errorf("unknown AggregationData type: %T", row.Data))
			return
		}

		mergeInto(tags, e.customTags)
		mergeInto(tags, convertTags(row.Tags))

		points = append(points, MetricPoint{
			Measurement: viewData.View.Name,
			Tags:        tags,
			Fields:      fields,
			Timestamp:   viewData.End,
		})
	}

	if err := e.store.WriteBatch(context.Background(), points); err != nil {
		e.errorHandler(err)
	}
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func convertTags(tags []tag.Tag) map[string]string {
	res := make(map[string]string, len(tags))
	for _, t := range tags {
		res[t.Key.Name()] = t.Value
	}
	return res
}
