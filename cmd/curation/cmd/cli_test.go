package cmd

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetKey(t *testing.T) {
	var c CLIConfig
	require.NoError(t, c.setKey("account", "release_mgr"))
	require.NoError(t, c.setKey("url", "https://rucio.example.org:443"))
	require.NoError(t, c.setKey("timeout", "30s"))
	require.NoError(t, c.setKey("auth.type", "userpass"))
	require.NoError(t, c.setKey("auth.user", "fred"))
	require.NoError(t, c.setKey("auth.password", "secret"))
	require.NoError(t, c.setKey("metrics.enabled", "true"))
	require.NoError(t, c.setKey("metrics.url", "http://influx.example.org:8086"))

	assert.Equal(t, "release_mgr", c.Account)
	assert.Equal(t, "https://rucio.example.org:443", c.URL)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, "userpass", c.Auth.Type)
	assert.Equal(t, "fred", c.Auth.User)
	require.NotNil(t, c.Metrics.Enabled)
	assert.True(t, *c.Metrics.Enabled)

	require.Error(t, c.setKey("no-such-key", "x"))
	require.Error(t, c.setKey("timeout", "not-a-duration"))
	require.Error(t, c.setKey("metrics.enabled", "maybe"))
}

func TestSetCurationParams(t *testing.T) {
	c := CLIConfig{
		Account: "from_config",
		URL:     "https://config.example.org",
		Timeout: time.Minute,
	}

	var flags flagsT
	c.setCurationParams(&flags)
	assert.Equal(t, "from_config", flags.root.account)
	assert.Equal(t, "https://config.example.org", flags.root.url)
	assert.Equal(t, time.Minute, flags.root.timeout)

	// explicit flags win over the file
	flags.root.account = "from_flag"
	flags.root.timeout = time.Second
	c.setCurationParams(&flags)
	assert.Equal(t, "from_flag", flags.root.account)
	assert.Equal(t, time.Second, flags.root.timeout)
}

func TestConfigFileLocation(t *testing.T) {
	t.Setenv(envConfigLocation, "/tmp/curation-test/config.yaml")
	assert.Equal(t, "/tmp/curation-test/config.yaml", configFileLocation(true))
}

func TestCommandTree(t *testing.T) {
	expected := map[string]bool{
		"release":  false,
		"did":      false,
		"register": false,
		"metadata": false,
		"whoami":   false,
		"config":   false,
		"version":  false,
		"usage":    false,
	}
	for _, sub := range rootCmd.Commands() {
		if _, ok := expected[sub.Name()]; ok {
			expected[sub.Name()] = true
		}
	}
	for name, found := range expected {
		assert.Truef(t, found, "expected subcommand %q", name)
	}
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envConfigLocation, filepath.Join(dir, "no-such-config.yaml"))

	csvFile := filepath.Join(dir, "summary.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte(
		"Container,Comment,N datasets\n"+
			"raw_visit,ok,1234\n"+
			"deepCoadd,ok,567\n",
	), 0600))
	out := filepath.Join(dir, "manifest.json")

	rootCmd.SetArgs([]string{
		"release", "extract",
		"--csv", csvFile,
		"--output", out,
		"--scope", "lsst_dp1",
	})
	require.NoError(t, rootCmd.Execute())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	manifest, err := model.UnmarshalManifest(f)
	require.NoError(t, err)
	assert.EqualValues(t, 1234, manifest["lsst_dp1:raw_visit"])
	assert.EqualValues(t, 567, manifest["lsst_dp1:deepCoadd"])
}

func TestRegisterRetries(t *testing.T) {
	logFatalln = func(v ...interface{}) { t.Fatal(v...) }
	logFatalf = func(format string, args ...interface{}) { t.Fatalf(format, args...) }
	defer func() {
		logFatalln = log.Fatalln
		logFatalf = log.Fatalf
	}()

	dir := t.TempDir()
	tree := filepath.Join(dir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(tree, "runs", "deepCoadd_image"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "runs", "deepCoadd_image", "patch1.fits"),
		[]byte("pixels"), 0600))

	var replicaPosts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/replicas/" && r.Method == http.MethodPost:
			// first attempt fails, the replay succeeds
			if atomic.AddInt32(&replicaPosts, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet:
			// replica listings and dataset contents are empty
		default:
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	cfg := filepath.Join(dir, "curation.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("auth:\n  type: token\n  token: test-token\n"), 0600))
	t.Setenv(envConfigLocation, cfg)

	rootCmd.SetArgs([]string{
		"register", "lsst_dp1", "IN2P3_DISK",
		"--path", tree,
		"--url", server.URL,
		"--loglevel", "none",
		"--retries", "1",
	})
	require.NoError(t, rootCmd.Execute())
	assert.EqualValues(t, 2, atomic.LoadInt32(&replicaPosts))
}

func TestVersionCommand(t *testing.T) {
	var captured string
	logStdOut = func(format string, args ...interface{}) (int, error) {
		captured = fmt.Sprintf(format, args...)
		return len(captured), nil
	}
	defer func() { logStdOut = fmt.Printf }()

	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, captured, "Version: dev")
}
