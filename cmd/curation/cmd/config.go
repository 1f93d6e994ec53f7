package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// AuthConfig describes how the CLI authenticates against the service.
type AuthConfig struct {
	Type     string `json:"type,omitempty" yaml:"type,omitempty"` // userpass or token
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
}

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Account string        `json:"account,omitempty" yaml:"account,omitempty"`
	URL     string        `json:"url,omitempty" yaml:"url,omitempty"`
	Auth    AuthConfig    `json:"auth,omitempty" yaml:"auth,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Metrics metricsFlags  `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// setCurationParams fills in flag values left unset from the config
// file: explicit flags win over the file.
func (c *CLIConfig) setCurationParams(flags *flagsT) {
	if flags.root.account == "" {
		flags.root.account = c.Account
	}
	if flags.root.url == "" {
		flags.root.url = c.URL
	}
	if flags.root.timeout == 0 {
		flags.root.timeout = c.Timeout
	}
	if flags.root.metrics.URL == "" {
		flags.root.metrics.URL = c.Metrics.URL
	}
}

// MarshalConfig returns the config as a yaml document
func (c *CLIConfig) MarshalConfig() ([]byte, error) {
	return yaml.Marshal(c)
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the local config",
	Long: `Commands to manage the curation CLI config.

Configuration for curation is the common set of flags that are needed for most
commands and do not change across runs, analogous to "git config ...".`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
