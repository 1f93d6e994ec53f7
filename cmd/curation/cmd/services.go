package cmd

import (
	"io"
	"os"

	"github.com/lsst-dm/curation-tools/pkg/dlogger"
	"github.com/lsst-dm/curation-tools/pkg/model"
	"github.com/lsst-dm/curation-tools/pkg/rucio"
	"github.com/lsst-dm/curation-tools/pkg/storage"
	"github.com/lsst-dm/curation-tools/pkg/storage/localfs"
	"github.com/lsst-dm/curation-tools/pkg/storage/sthree"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// cliLogger builds the logger shared by all commands from --loglevel
func cliLogger() *zap.Logger {
	logger, err := dlogger.GetLogger(curationFlags.root.logLevel)
	if err != nil {
		wrapFatalln("invalid log level "+curationFlags.root.logLevel, err)
		return nil
	}
	return logger
}

// defaultRetries is the number of replays of a transient service
// failure before a bulk operation gives up on its batch
const defaultRetries = 10

// newClient builds the service client from flags and config
func newClient(logger *zap.Logger) *rucio.Client {
	if curationFlags.root.url == "" {
		wrapFatalln("no service URL: use --url or set url in the config file", nil)
		return nil
	}

	opts := []rucio.Option{
		rucio.WithLogger(logger),
		rucio.WithUserAgent("curation/" + NewVersionInfo().Version),
		rucio.WithRetry(curationFlags.root.retries),
	}
	if curationFlags.root.account != "" {
		opts = append(opts, rucio.WithAccount(curationFlags.root.account))
	}
	if curationFlags.root.timeout > 0 {
		opts = append(opts, rucio.WithTimeout(curationFlags.root.timeout))
	}
	switch config.Auth.Type {
	case "token":
		opts = append(opts, rucio.WithToken(config.Auth.Token))
	default:
		opts = append(opts, rucio.WithUserPass(config.Auth.User, config.Auth.Password))
	}

	client, err := rucio.New(curationFlags.root.url, opts...)
	if err != nil {
		wrapFatalln("could not build a service client", err)
		return nil
	}
	return client
}

// newStore builds the file tree store from --bucket or --path
func newStore(bucket, path string) storage.Store {
	switch {
	case bucket != "" && path != "":
		wrapFatalln("--bucket and --path are mutually exclusive", nil)
		return nil
	case bucket != "":
		return sthree.New(sthree.Bucket(bucket))
	case path != "":
		return localfs.New(afero.NewBasePathFs(afero.NewOsFs(), path))
	default:
		wrapFatalln("a file tree is required: use --bucket or --path", nil)
		return nil
	}
}

func loadManifest(path string) model.ReleaseManifest {
	f, err := os.Open(path)
	if err != nil {
		wrapFatalln("could not open the release manifest "+path, err)
		return nil
	}
	defer func() { _ = f.Close() }()
	manifest, err := model.UnmarshalManifest(f)
	if err != nil {
		wrapFatalln("could not parse the release manifest "+path, err)
		return nil
	}
	return manifest
}

func loadIDAC(path string) model.IDACConfig {
	f, err := os.Open(path)
	if err != nil {
		wrapFatalln("could not open the data access center config "+path, err)
		return model.IDACConfig{}
	}
	defer func() { _ = f.Close() }()
	idac, err := model.UnmarshalIDACConfig(f)
	if err != nil {
		wrapFatalln("could not parse the data access center config "+path, err)
		return model.IDACConfig{}
	}
	return idac
}

func loadDIDs(path string) model.DIDs {
	f, err := os.Open(path)
	if err != nil {
		wrapFatalln("could not open the DIDs file "+path, err)
		return nil
	}
	defer func() { _ = f.Close() }()
	dids, err := model.UnmarshalDIDs(f)
	if err != nil {
		wrapFatalln("could not parse the DIDs file "+path, err)
		return nil
	}
	return dids
}

func loadCorrections(path string) model.Corrections {
	f, err := os.Open(path)
	if err != nil {
		wrapFatalln("could not open the corrections file "+path, err)
		return nil
	}
	defer func() { _ = f.Close() }()
	corrections, err := model.UnmarshalCorrections(f)
	if err != nil {
		wrapFatalln("could not parse the corrections file "+path, err)
		return nil
	}
	return corrections
}

// outputWriter opens the output file, or stdout when no path is given
func outputWriter(path string) io.WriteCloser {
	if path == "" {
		return os.Stdout
	}
	f, err := os.Create(path)
	if err != nil {
		wrapFatalln("could not create the output file "+path, err)
		return nil
	}
	return f
}

func closeOutput(w io.WriteCloser) {
	if w == os.Stdout {
		return
	}
	_ = w.Close()
}
