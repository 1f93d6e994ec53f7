package cmd

import (
	"github.com/spf13/cobra"
)

// metadataCmd represents the checksum metadata related commands
var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Commands to fix checksum metadata",
	Long: `Commands to gather, check and apply checksum corrections on registered files.

Files occasionally get registered with wrong or missing checksums. The workflow
is: "metadata gather" recomputes checksums from the replicas and writes a
corrections file, "metadata check" reports which records would actually change,
and "metadata apply" updates the service, verifying old values before and new
values after each write.`,
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}
