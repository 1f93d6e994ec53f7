package release

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lsst-dm/curation-tools/pkg/model"
)

// ExtractOption configures the CSV extraction
type ExtractOption func(*extractSettings)

type extractSettings struct {
	containerColumn string
	countColumn     string
	scope           string
	prefix          string
}

// WithContainerColumn sets the CSV column holding container names
func WithContainerColumn(name string) ExtractOption {
	return func(s *extractSettings) {
		if name != "" {
			s.containerColumn = name
		}
	}
}

// WithCountColumn sets the CSV column holding dataset counts
func WithCountColumn(name string) ExtractOption {
	return func(s *extractSettings) {
		if name != "" {
			s.countColumn = name
		}
	}
}

// WithScope sets the scope qualifying extracted container keys
func WithScope(scope string) ExtractOption {
	return func(s *extractSettings) {
		s.scope = scope
	}
}

// WithContainerPrefix sets a prefix prepended to container names
// (e.g. "Container/")
func WithContainerPrefix(prefix string) ExtractOption {
	return func(s *extractSettings) {
		s.prefix = prefix
	}
}

// ExtractManifest parses the container-selections CSV export from the
// release planning spreadsheet and produces a release manifest.
func ExtractManifest(r io.Reader, opts ...ExtractOption) (model.ReleaseManifest, error) {
	settings := extractSettings{
		containerColumn: "Container",
		countColumn:     "N datasets",
	}
	for _, apply := range opts {
		apply(&settings)
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	containerIdx, countIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case settings.containerColumn:
			containerIdx = i
		case settings.countColumn:
			countIdx = i
		}
	}
	if containerIdx < 0 {
		return nil, fmt.Errorf("CSV has no column %q", settings.containerColumn)
	}
	if countIdx < 0 {
		return nil, fmt.Errorf("CSV has no column %q", settings.countColumn)
	}

	manifest := make(model.ReleaseManifest)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}
		name := strings.TrimSpace(record[containerIdx])
		if name == "" {
			continue
		}
		count, err := strconv.ParseInt(strings.TrimSpace(record[countIdx]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid count on CSV line %d: %w", line, err)
		}

		key := settings.prefix + name
		if settings.scope != "" {
			key = settings.scope + ":" + key
		}
		manifest[key] = model.Count(count)
	}
	if len(manifest) == 0 {
		return nil, fmt.Errorf("no containers extracted from CSV")
	}
	return manifest, nil
}
