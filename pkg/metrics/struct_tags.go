package metrics

import (
	"fmt"
	"path"
	"reflect"
	"strings"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// scanStruct walks a metrics collector struct, allocates its measure
// fields and registers one view per measure.
//
// Recognized field tags:
//   - metric: the measure name (required on measure fields)
//   - unit: the measure unit (default: count)
//   - description: the measure description
//   - tags: comma separated view grouping tags
//   - group: on nested structs, a path segment for nested measures
//
// scanStruct panics when m is not a pointer to a struct: collectors
// are package-level definitions and a bad one is a programming error.
func scanStruct(location string, register func(*view.View), m interface{}) {
	v := reflect.ValueOf(m)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("metrics collector must be a pointer to a struct, got %T", m))
	}
	scanValue(location, register, v.Elem())
}

func scanValue(location string, register func(*view.View), v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := v.Field(i)

		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "go.opencensus.io/stats" {
			group := field.Tag.Get("group")
			scanValue(path.Join(location, group), register, fv)
			continue
		}

		name := field.Tag.Get("metric")
		if name == "" {
			continue
		}
		fullName := path.Join(location, name)
		unit := field.Tag.Get("unit")
		if unit == "" {
			unit = "count"
		}
		description := field.Tag.Get("description")

		var measure stats.Measure
		switch field.Type {
		case reflect.TypeOf(&stats.Int64Measure{}):
			m := stats.Int64(fullName, description, unit)
			fv.Set(reflect.ValueOf(m))
			measure = m
		case reflect.TypeOf(&stats.Float64Measure{}):
			m := stats.Float64(fullName, description, unit)
			fv.Set(reflect.ValueOf(m))
			measure = m
		default:
			continue
		}

		register(&view.View{
			Name:        fullName,
			Description: description,
			Measure:     measure,
			Aggregation: aggregationFor(unit),
			TagKeys:     tagKeys(field.Tag.Get("tags")),
		})
	}
}

func aggregationFor(unit string) *view.Aggregation {
	switch unit {
	case "milliseconds", "bytespersec":
		return view.Distribution(1, 10, 100, 1000, 10000, 60000)
	case "bytes":
		return view.Sum()
	default:
		return view.Count()
	}
}

func tagKeys(spec string) []tag.Key {
	if spec == "" {
		return nil
	}
	parts := strings.Split(spec, ",")
	keys := make([]tag.Key, 0, len(parts))
	for _, part := range parts {
		keys = append(keys, tag.MustNewKey(strings.TrimSpace(part)))
	}
	return keys
}
