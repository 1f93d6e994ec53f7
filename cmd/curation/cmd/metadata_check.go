package cmd

import (
	"sort"
	"strings"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/fixity"
	"github.com/spf13/cobra"
)

var metadataCheck = &cobra.Command{
	Use:   "check",
	Short: "Check which corrections would change metadata",
	Long: `Reads a corrections file and reports which records already match the
registered metadata and which ones would actually change it, with the fields
that differ.`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "metadata check", err)
		}(time.Now())

		corrections := loadCorrections(curationFlags.metadata.correctionsFile)
		report := fixity.Check(corrections)

		names := make([]string, 0, len(report.Diffs))
		for name := range report.Diffs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			infoLogger.Printf("%s: %s differ", name, strings.Join(report.Diffs[name], ", "))
		}
		infoLogger.Println(report.String())
	},
}

func init() {
	requireFlags(metadataCheck,
		addCorrectionsFileFlag(metadataCheck),
	)
	metadataCmd.AddCommand(metadataCheck)
}
