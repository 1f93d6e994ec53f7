package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envConfigLocation = "CURATION_CONFIG"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "curation",
	Short: "Tools to curate data releases",
	Long: `Curation drives the data management service when publishing a data release.

It plans and creates the replication rules which distribute a release to the
independent data access centers, registers file trees as replicas and datasets,
and gathers, checks and applies checksum corrections on registered files.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		initMetrics()
	}

	addLogLevelFlag(rootCmd)
	addAccountFlag(rootCmd)
	addURLFlag(rootCmd)
	addTimeoutFlag(rootCmd)
	addRetriesFlag(rootCmd)
	addMetricsFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if os.Getenv(envConfigLocation) != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv(envConfigLocation))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.curation")
		viper.AddConfigPath("/etc/curation")
		viper.SetConfigName("curation")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setCurationParams(&curationFlags)
}
