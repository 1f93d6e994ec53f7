package cmd

import (
	"context"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/fixity"
	"github.com/spf13/cobra"
)

var metadataGather = &cobra.Command{
	Use:   "gather",
	Short: "Gather checksum corrections from replicas",
	Long: `Checksums the replica of each DID in the given file and writes a corrections
file: for every DID, the recomputed adler32, md5 and size, together with the
values currently registered with the service.

Replicas are read from an S3 bucket (--bucket) or a local directory (--path),
keyed by the DID name.`,
	Example: `% curation metadata gather --dids-file bad-files.json --path /sdf/data/rubin --output corrections.json`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "metadata gather", err)
		}(time.Now())

		logger := cliLogger()
		client := newClient(logger)
		store := newStore(curationFlags.metadata.bucket, curationFlags.metadata.path)
		dids := loadDIDs(curationFlags.metadata.didsFile)

		corrections, err := fixity.Gather(context.Background(), client, store, dids,
			fixity.WithLogger(logger),
			fixity.WithBufferSize(int(curationFlags.registration.readBuffer)),
		)
		if err != nil {
			wrapFatalln("could not gather corrections for every DID", err)
			return
		}

		w := outputWriter(curationFlags.metadata.output)
		defer closeOutput(w)
		if err = corrections.Marshal(w); err != nil {
			wrapFatalln("could not write the corrections file", err)
			return
		}
		infoLogger.Printf("%d corrections gathered", len(corrections))
	},
}

func init() {
	requireFlags(metadataGather,
		addDIDsFileFlag(metadataGather, &curationFlags.metadata.didsFile),
	)
	addBucketFlag(metadataGather, &curationFlags.metadata.bucket)
	addPathFlag(metadataGather, &curationFlags.metadata.path)
	addOutputFlag(metadataGather, &curationFlags.metadata.output)
	addReadBufferFlag(metadataGather)
	metadataCmd.AddCommand(metadataGather)
}
