package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Prints the identity of the authenticated account",
	Long: `Authenticates against the data management service and prints back
the identity of the account in use. Handy to check credentials before a run.`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		defer func(t0 time.Time) {
			cliUsage(t0, "whoami", err)
		}(time.Now())

		client := newClient(cliLogger())
		info, err := client.Whoami(context.Background())
		if err != nil {
			wrapFatalln("could not resolve the account identity", err)
			return
		}
		infoLogger.Printf("Account: %s", info.Account)
		if info.AccountType != "" {
			infoLogger.Printf("Type: %s", info.AccountType)
		}
		if info.Email != "" {
			infoLogger.Printf("Email: %s", info.Email)
		}
		if info.Status != "" {
			infoLogger.Printf("Status: %s", info.Status)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
