package cmd

import (
	"context"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/release"
	"github.com/spf13/cobra"
)

var releaseCreate = &cobra.Command{
	Use:   "create {rse}",
	Short: "Create the replication rules distributing a release",
	Long: `Creates one replication rule per enabled container at the given storage
element, so the service starts transferring the release to the data access center.

Containers already holding a rule at the storage element are skipped. Rules are
created with a single copy and asynchronous evaluation, and commented with a
session identifier so that one batch of rules can be traced back to one run.

With --dry-run, the plan is computed and printed but no rule is created.`,
	Example: `% curation release create IN2P3_DISK --did-file dp1-dids.json --idac-file in2p3.json
Rules to create: 120, Rules skipped: 3, Total: 123
Created: 120, Failed: 0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "release create", err)
		}(time.Now())

		rse := args[0]
		ctx := context.Background()
		logger := cliLogger()
		client := newClient(logger)

		// make sure we operate as the expected account before planning
		info, err := client.Whoami(ctx)
		if err != nil {
			wrapFatalln("could not authenticate against the service", err)
			return
		}
		infoLogger.Printf("operating as %s", info.Account)

		manifest := loadManifest(curationFlags.release.didFile)
		idac := loadIDAC(curationFlags.release.idacFile)

		opts := []release.Option{
			release.WithLogger(logger),
			release.WithDryRun(curationFlags.core.dryRun),
			release.WithMetrics(curationFlags.root.metrics.IsEnabled()),
			release.ConcurrentList(curationFlags.core.concurrencyFactor),
			release.BatchSize(curationFlags.core.batchSize),
		}
		plan, err := release.NewPlan(ctx, client, manifest, idac, rse, opts...)
		if err != nil {
			wrapFatalln("could not plan the release", err)
			return
		}
		infoLogger.Println(plan.String())

		report, err := release.Apply(ctx, client, plan, opts...)
		if err != nil {
			wrapFatalln("could not create all replication rules", err)
			return
		}
		if curationFlags.core.dryRun {
			infoLogger.Printf("dry-run: planned %d rules for session %s",
				report.Count(release.StatusPlanned), report.Session.ID)
			return
		}
		infoLogger.Printf("Created: %d, Failed: %d",
			report.Count(release.StatusCreated), report.Count(release.StatusFailed))
	},
}

func init() {
	requireFlags(releaseCreate,
		addDIDFileFlag(releaseCreate),
		addIDACFileFlag(releaseCreate),
	)
	addDryRunFlag(releaseCreate)
	addConcurrencyFactorFlag(releaseCreate)
	addBatchSizeFlag(releaseCreate)
	releaseCmd.AddCommand(releaseCreate)
}
