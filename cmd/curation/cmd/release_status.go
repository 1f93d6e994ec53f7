package cmd

import (
	"context"
	"sort"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/release"
	"github.com/spf13/cobra"
)

var releaseStatus = &cobra.Command{
	Use:   "status",
	Short: "Tally the replication rule states of a release",
	Long: `Tallies the states of the replication rules associated with each DID in the
given file, and prints a per-DID and overall summary.

With --boost, stuck rules are re-submitted for evaluation.`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "release status", err)
		}(time.Now())

		ctx := context.Background()
		logger := cliLogger()
		client := newClient(logger)
		dids := loadDIDs(curationFlags.release.didsFile)

		report, err := release.Status(ctx, client, dids,
			release.WithLogger(logger),
			release.WithBoost(curationFlags.release.boost),
			release.WithMetrics(curationFlags.root.metrics.IsEnabled()),
		)
		if err != nil {
			wrapFatalln("could not check all rule states", err)
			return
		}

		names := make([]string, 0, len(report.PerDID))
		for name := range report.PerDID {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			infoLogger.Printf("%s: %s", name, report.PerDID[name].String())
		}
		infoLogger.Printf("Total: %s", report.Summary.String())
		if curationFlags.release.boost {
			infoLogger.Printf("Boosted: %d", report.Boosted)
		}
	},
}

func init() {
	requireFlags(releaseStatus,
		addDIDsFileFlag(releaseStatus, &curationFlags.release.didsFile),
	)
	addBoostFlag(releaseStatus)
	releaseCmd.AddCommand(releaseStatus)
}
