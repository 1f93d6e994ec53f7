package cmd

import (
	"github.com/spf13/cobra"
)

// releaseCmd represents the release related commands
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Commands to distribute a data release",
	Long: `Commands to distribute a data release to an independent data access center.

A release is described by two documents: the release manifest, listing the
container DIDs of the release with their dataset counts, and the data access
center configuration, naming the storage element and flagging the containers
the center subscribes to.`,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}
