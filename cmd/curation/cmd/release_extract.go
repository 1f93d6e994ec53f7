package cmd

import (
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/lsst-dm/curation-tools/pkg/release"
	"github.com/spf13/cobra"
)

var releaseExtract = &cobra.Command{
	Use:   "extract",
	Short: "Extract a release manifest from a release summary CSV",
	Long: `Reads the release summary CSV published with a release and writes the
corresponding release manifest: a JSON document mapping each container to its
dataset count.

The container and count columns default to "Container" and "N datasets" and can
be overridden when the summary uses different headers.`,
	Example: `% curation release extract --csv dp1-summary.csv --scope lsst_dp1 --output dp1-dids.json`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "release extract", err)
		}(time.Now())

		f, err := os.Open(curationFlags.release.csv)
		if err != nil {
			wrapFatalln("could not open the release summary "+curationFlags.release.csv, err)
			return
		}
		defer func() { _ = f.Close() }()

		manifest, err := release.ExtractManifest(f,
			release.WithContainerColumn(curationFlags.release.containerColumn),
			release.WithCountColumn(curationFlags.release.countColumn),
			release.WithScope(curationFlags.release.scope),
			release.WithContainerPrefix(curationFlags.release.containerPrefix),
		)
		if err != nil {
			wrapFatalln("could not extract the release manifest", err)
			return
		}

		w := outputWriter(curationFlags.release.output)
		defer closeOutput(w)
		enc := jsoniter.NewEncoder(w)
		enc.SetIndent("", "    ")
		if err = enc.Encode(manifest); err != nil {
			wrapFatalln("could not write the release manifest", err)
			return
		}
		infoLogger.Printf("%d containers extracted", len(manifest))
	},
}

func init() {
	requireFlags(releaseExtract,
		addCSVFlag(releaseExtract),
	)
	addOutputFlag(releaseExtract, &curationFlags.release.output)
	addScopeFlag(releaseExtract)
	addContainerColumnFlag(releaseExtract)
	addCountColumnFlag(releaseExtract)
	addContainerPrefixFlag(releaseExtract)
	releaseCmd.AddCommand(releaseExtract)
}
