package cmd

import (
	"context"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/register"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register {scope} {rse}",
	Short: "Register a file tree as replicas and datasets",
	Long: `Scans a file tree, checksums every file and registers it as a replica at the
given storage element, attached to the dataset its path classifies into.

The tree is read from an S3 bucket (--bucket) or a local directory (--path).
Replica creation and dataset attachment are batched, and entries the service
already knows about are skipped, so an interrupted run can simply be restarted.

Large trees can be split across several jobs with --jobs/--job; dataset closing
is then left to a final run without slicing.`,
	Example: `% curation register lsst_dp1 SLAC_RAW_DISK --bucket rubin-dp1 --prefix runs/DP1 --jobs 4 --job 0`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "register", err)
		}(time.Now())

		scope, rse := args[0], args[1]
		logger := cliLogger()
		client := newClient(logger)
		store := newStore(curationFlags.registration.bucket, curationFlags.registration.path)

		report, err := register.Register(context.Background(), client, store, scope, rse,
			register.WithLogger(logger),
			register.WithDryRun(curationFlags.core.dryRun),
			register.WithPrefix(curationFlags.registration.prefix),
			register.WithBufferSize(int(curationFlags.registration.readBuffer)),
			register.WithJobSlice(curationFlags.registration.jobs, curationFlags.registration.job),
			register.ConcurrentFiles(curationFlags.core.concurrencyFactor),
			register.BatchSize(curationFlags.core.batchSize),
		)
		if err != nil {
			wrapFatalln("could not register the whole file tree", err)
			return
		}
		infoLogger.Println(report.String())
	},
}

func init() {
	addBucketFlag(registerCmd, &curationFlags.registration.bucket)
	addPathFlag(registerCmd, &curationFlags.registration.path)
	addPrefixFlag(registerCmd)
	addReadBufferFlag(registerCmd)
	addJobsFlags(registerCmd)
	addDryRunFlag(registerCmd)
	addConcurrencyFactorFlag(registerCmd)
	addBatchSizeFlag(registerCmd)
	rootCmd.AddCommand(registerCmd)
}
