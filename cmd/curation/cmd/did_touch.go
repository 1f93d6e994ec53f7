package cmd

import (
	"context"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/release"
	"github.com/spf13/cobra"
)

var didTouch = &cobra.Command{
	Use:   "touch {scope}",
	Short: "Mark datasets as new so subscriptions re-evaluate them",
	Long: `Searches the scope for datasets matching the --name pattern and flags each
one as new, so the service re-evaluates its subscriptions against them.

With --dry-run, matching datasets are listed but not flagged.`,
	Example: `% curation did touch lsst_dp1 --name "Dataset/Image/*"
touched 42 datasets`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "did touch", err)
		}(time.Now())

		scope := args[0]
		logger := cliLogger()
		client := newClient(logger)

		touched, err := release.Touch(context.Background(), client, scope, curationFlags.did.name,
			release.WithLogger(logger),
			release.WithDryRun(curationFlags.core.dryRun),
			release.WithMetrics(curationFlags.root.metrics.IsEnabled()),
		)
		if err != nil {
			wrapFatalln("could not touch all datasets", err)
			return
		}
		if curationFlags.core.dryRun {
			infoLogger.Printf("dry-run: %d datasets would be touched", touched)
			return
		}
		infoLogger.Printf("touched %d datasets", touched)
	},
}

func init() {
	requireFlags(didTouch,
		addNameFlag(didTouch),
	)
	addDryRunFlag(didTouch)
	didCmd.AddCommand(didTouch)
}
