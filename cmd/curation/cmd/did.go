package cmd

import (
	"github.com/spf13/cobra"
)

// didCmd represents the DID related commands
var didCmd = &cobra.Command{
	Use:   "did",
	Short: "Commands to manage data identifiers",
	Long:  `Commands to manage the data identifiers registered with the service.`,
}

func init() {
	rootCmd.AddCommand(didCmd)
}
