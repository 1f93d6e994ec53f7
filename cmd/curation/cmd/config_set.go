package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func configFileLocation(expand bool) string {
	if location := os.Getenv(envConfigLocation); location != "" {
		return location
	}
	home := "$HOME"
	if expand {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			wrapFatalln("could not resolve the user home directory", err)
		}
	}
	return filepath.Join(home, ".curation", "curation.yaml")
}

func (c *CLIConfig) setKey(key, value string) error {
	switch key {
	case "account":
		c.Account = value
	case "url":
		c.URL = value
	case "timeout":
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		c.Timeout = timeout
	case "auth.type":
		c.Auth.Type = value
	case "auth.user":
		c.Auth.User = value
	case "auth.password":
		c.Auth.Password = value
	case "auth.token":
		c.Auth.Token = value
	case "metrics.enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid metrics.enabled %q: %w", value, err)
		}
		c.Metrics.Enabled = &enabled
	case "metrics.url":
		c.Metrics.URL = value
	default:
		return fmt.Errorf("unknown config key: %q", key)
	}
	return nil
}

var configSet = &cobra.Command{
	Aliases: []string{"create"},
	Use:     "set [key=value ...]",
	Short:   "Create or update the local config file",
	Long: `Creates or updates the local config file holding the flags that do not change
across runs, like the service URL or the account to operate as.

By default, this configuration file is placed in ` + configFileLocation(false) + `.

Use the ` + envConfigLocation + ` environment variable to change this default target.
`,
	Example: `# Set the service endpoint and account
% curation config set url=https://rucio.example.org:443 account=release_mgr
config file created in /home/fred/.curation/curation.yaml

# Switch to token authentication
% curation config set auth.type=token auth.token=eyJhb...

# Generate config in some non-default location
% ` + envConfigLocation + `=~/.config/curation/config.yaml curation config set url=https://rucio.example.org`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		localConfig := *config
		for _, arg := range args {
			key, value, found := strings.Cut(arg, "=")
			if !found {
				wrapFatalln(fmt.Sprintf("expected key=value, got %q", arg), nil)
				return
			}
			if err := localConfig.setKey(key, value); err != nil {
				wrapFatalln("invalid config setting", err)
				return
			}
		}

		file := configFileLocation(true)
		if ext := filepath.Ext(file); ext != ".yaml" {
			infoLogger.Printf("warning: the generated config file will contain a yaml document, but the file extension is %q", ext)
		}
		o, err := localConfig.MarshalConfig()
		if err != nil {
			wrapFatalln("could not serialize config to yaml", err)
			return
		}

		err = os.MkdirAll(filepath.Dir(file), 0700)
		if err != nil {
			wrapFatalln("could not create directory to hold config "+filepath.Dir(file), err)
			return
		}

		err = os.WriteFile(file, o, 0600)
		if err != nil {
			wrapFatalln("error writing config file "+file, err)
			return
		}

		infoLogger.Printf("config file created in %s", file)
	},
}

func init() {
	configCmd.AddCommand(configSet)
}
