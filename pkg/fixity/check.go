package fixity

import (
	"fmt"

	"github.com/lsst-dm/curation-tools/pkg/model"
)

// CheckReport partitions correction records into those already
// matching the registered metadata and those needing an update
type CheckReport struct {
	Match  int                 `json:"match" yaml:"match"`
	Update int                 `json:"update" yaml:"update"`
	Diffs  map[string][]string `json:"diffs,omitempty" yaml:"diffs,omitempty"`
}

func (r CheckReport) String() string {
	return fmt.Sprintf("Match: %d, Update: %d", r.Match, r.Update)
}

// Check compares each correction's new values against the old ones and
// reports which records would actually change metadata.
func Check(corrections model.Corrections) CheckReport {
	report := CheckReport{
		Diffs: make(map[string][]string),
	}
	for _, c := range corrections {
		fields := c.Old.DiffFields(c.New())
		if len(fields) == 0 {
			report.Match++
			continue
		}
		report.Update++
		report.Diffs[c.DID().String()] = fields
	}
	return report
}
