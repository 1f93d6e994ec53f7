package cmd

import (
	"context"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/release"
	"github.com/spf13/cobra"
)

var releaseRevoke = &cobra.Command{
	Use:   "revoke {rse}",
	Short: "Revoke the replication rules of disabled containers",
	Long: `Deletes the rules held at the given storage element by the containers
flagged out of the data access center configuration.

With --purge, the replicas locked by the deleted rules are removed as well.
With --dry-run, rules are looked up and printed but nothing is deleted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "release revoke", err)
		}(time.Now())

		rse := args[0]
		ctx := context.Background()
		logger := cliLogger()
		client := newClient(logger)
		idac := loadIDAC(curationFlags.release.idacFile)

		report, err := release.Revoke(ctx, client, idac, rse,
			release.WithLogger(logger),
			release.WithDryRun(curationFlags.core.dryRun),
			release.WithPurge(curationFlags.release.purge),
			release.WithMetrics(curationFlags.root.metrics.IsEnabled()),
		)
		if err != nil {
			wrapFatalln("could not revoke all replication rules", err)
			return
		}
		if curationFlags.core.dryRun {
			infoLogger.Printf("dry-run: %d rules would be deleted", report.Count(release.StatusPlanned))
			return
		}
		infoLogger.Printf("Deleted: %d, Failed: %d",
			report.Count(release.StatusDeleted), report.Count(release.StatusFailed))
	},
}

func init() {
	requireFlags(releaseRevoke,
		addIDACFileFlag(releaseRevoke),
	)
	addDryRunFlag(releaseRevoke)
	addPurgeFlag(releaseRevoke)
	releaseCmd.AddCommand(releaseRevoke)
}
