package cmd

import (
	"context"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/fixity"
	"github.com/spf13/cobra"
)

var metadataApply = &cobra.Command{
	Use:   "apply",
	Short: "Apply checksum corrections to the service",
	Long: `Reads a corrections file and updates the metadata of each record.

A record is applied only when the registered metadata still equals the old
values it carries: records already updated are skipped, anything else is
flagged as a mismatch and left alone. Every write is read back and verified.

Updates go through the service REST API by default. With --dsn, they are
applied directly to the service database instead, which is the practical path
for large correction batches.

With --dry-run, records are verified but nothing is written.`,
	Example: `% curation metadata apply --corrections-file corrections.json --dry-run
% curation metadata apply --corrections-file corrections.json --dsn postgres://rucio@dbhost/rucio`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "metadata apply", err)
		}(time.Now())

		ctx := context.Background()
		logger := cliLogger()
		corrections := loadCorrections(curationFlags.metadata.correctionsFile)

		var applier fixity.Applier
		if curationFlags.metadata.dsn != "" {
			pg, perr := fixity.NewPGApplier(ctx, curationFlags.metadata.dsn)
			if perr != nil {
				wrapFatalln("could not connect to the service database", perr)
				return
			}
			defer pg.Close()
			applier = pg
		} else {
			applier = fixity.NewRESTApplier(newClient(logger))
		}

		report, err := fixity.Apply(ctx, applier, corrections,
			fixity.WithLogger(logger),
			fixity.WithDryRun(curationFlags.core.dryRun),
		)
		if err != nil {
			wrapFatalln("could not apply every correction", err)
			return
		}
		if curationFlags.core.dryRun {
			infoLogger.Printf("dry-run: %d records would be updated, %d already updated, %d mismatched",
				report.Count(fixity.StatusPlanned),
				report.Count(fixity.StatusAlreadyUpdated),
				report.Count(fixity.StatusMismatch))
			return
		}
		infoLogger.Printf("Updated: %d, Already updated: %d, Mismatched: %d, Failed: %d",
			report.Count(fixity.StatusUpdated),
			report.Count(fixity.StatusAlreadyUpdated),
			report.Count(fixity.StatusMismatch),
			report.Count(fixity.StatusFailed))
	},
}

func init() {
	requireFlags(metadataApply,
		addCorrectionsFileFlag(metadataApply),
	)
	addDSNFlag(metadataApply)
	addDryRunFlag(metadataApply)
	metadataCmd.AddCommand(metadataApply)
}
