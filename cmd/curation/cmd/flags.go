package cmd

import (
	"time"

	"github.com/docker/go-units"
	"github.com/go-openapi/runtime/flagext"
	"github.com/spf13/cobra"
)

type flagsT struct {
	release struct {
		didFile         string
		idacFile        string
		didsFile        string
		csv             string
		output          string
		scope           string
		containerColumn string
		countColumn     string
		containerPrefix string
		purge           bool
		boost           bool
	}
	did struct {
		name string
	}
	registration struct {
		bucket     string
		path       string
		prefix     string
		readBuffer flagext.ByteSize
		jobs       int
		job        int
	}
	metadata struct {
		correctionsFile string
		didsFile        string
		output          string
		dsn             string
		bucket          string
		path            string
	}
	core struct {
		concurrencyFactor int
		batchSize         int
		dryRun            bool
	}
	root struct {
		logLevel       string
		account        string
		url            string
		timeout        time.Duration
		retries        int
		metricsEnabled bool
		metrics        metricsFlags
	}
	doc struct {
		docTarget string
	}
}

var curationFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&curationFlags.root.logLevel, logLevel, "info",
		"The logging level. One of: none, debug, info, warn, error")
	return logLevel
}

func addAccountFlag(cmd *cobra.Command) string {
	account := "account"
	cmd.PersistentFlags().StringVar(&curationFlags.root.account, account, "",
		"The service account to operate as")
	return account
}

func addURLFlag(cmd *cobra.Command) string {
	urlFlag := "url"
	cmd.PersistentFlags().StringVar(&curationFlags.root.url, urlFlag, "",
		"The base URL of the data management service")
	return urlFlag
}

func addTimeoutFlag(cmd *cobra.Command) string {
	timeout := "timeout"
	cmd.PersistentFlags().DurationVar(&curationFlags.root.timeout, timeout, 0,
		"Timeout on individual service calls")
	return timeout
}

func addRetriesFlag(cmd *cobra.Command) string {
	retries := "retries"
	cmd.PersistentFlags().IntVar(&curationFlags.root.retries, retries, defaultRetries,
		"Maximum number of replays of a service call upon transient failures")
	return retries
}

func addMetricsFlags(cmd *cobra.Command) string {
	metricsFlag := "metrics"
	cmd.PersistentFlags().BoolVar(&curationFlags.root.metricsEnabled, metricsFlag, false,
		"Toggle telemetry and metrics collection")
	cmd.PersistentFlags().StringVar(&curationFlags.root.metrics.URL, "metrics-url", "",
		"Fully qualified URL of an influxdb metrics collector endpoint")
	return metricsFlag
}

func addDIDFileFlag(cmd *cobra.Command) string {
	didFile := "did-file"
	cmd.Flags().StringVar(&curationFlags.release.didFile, didFile, "",
		"Path to the release manifest, a JSON file mapping containers to their dataset counts")
	return didFile
}

func addIDACFileFlag(cmd *cobra.Command) string {
	idacFile := "idac-file"
	cmd.Flags().StringVar(&curationFlags.release.idacFile, idacFile, "",
		"Path to the data access center configuration, a JSON file naming the RSE and the enabled containers")
	return idacFile
}

func addDIDsFileFlag(cmd *cobra.Command, target *string) string {
	didsFile := "dids-file"
	cmd.Flags().StringVar(target, didsFile, "",
		"Path to a JSON file with the list of DIDs to inspect")
	return didsFile
}

func addCSVFlag(cmd *cobra.Command) string {
	csv := "csv"
	cmd.Flags().StringVar(&curationFlags.release.csv, csv, "",
		"Path to the release summary CSV")
	return csv
}

func addOutputFlag(cmd *cobra.Command, target *string) string {
	output := "output"
	cmd.Flags().StringVar(target, output, "",
		"Path to the output file. Defaults to stdout")
	return output
}

func addScopeFlag(cmd *cobra.Command) string {
	scope := "scope"
	cmd.Flags().StringVar(&curationFlags.release.scope, scope, "",
		"The scope qualifying the extracted containers")
	return scope
}

func addContainerColumnFlag(cmd *cobra.Command) string {
	containerColumn := "container-column"
	cmd.Flags().StringVar(&curationFlags.release.containerColumn, containerColumn, "",
		`The CSV column holding container names (default "Container")`)
	return containerColumn
}

func addCountColumnFlag(cmd *cobra.Command) string {
	countColumn := "count-column"
	cmd.Flags().StringVar(&curationFlags.release.countColumn, countColumn, "",
		`The CSV column holding dataset counts (default "N datasets")`)
	return countColumn
}

func addContainerPrefixFlag(cmd *cobra.Command) string {
	containerPrefix := "container-prefix"
	cmd.Flags().StringVar(&curationFlags.release.containerPrefix, containerPrefix, "",
		"A prefix prepended to every extracted container name")
	return containerPrefix
}

func addDryRunFlag(cmd *cobra.Command) string {
	dryRun := "dry-run"
	cmd.Flags().BoolVar(&curationFlags.core.dryRun, dryRun, false,
		"Log intended actions without any mutating service call")
	return dryRun
}

func addPurgeFlag(cmd *cobra.Command) string {
	purge := "purge"
	cmd.Flags().BoolVar(&curationFlags.release.purge, purge, false,
		"Also delete the replicas locked by revoked rules")
	return purge
}

func addBoostFlag(cmd *cobra.Command) string {
	boost := "boost"
	cmd.Flags().BoolVar(&curationFlags.release.boost, boost, false,
		"Re-boost the evaluation of stuck rules")
	return boost
}

func addConcurrencyFactorFlag(cmd *cobra.Command) string {
	concurrencyFactor := "concurrency-factor"
	cmd.Flags().IntVar(&curationFlags.core.concurrencyFactor, concurrencyFactor, 0,
		"Heuristic on the amount of concurrency used by the operation. Turn this value down to use less memory, defaults to 2 x #cpus")
	return concurrencyFactor
}

func addBatchSizeFlag(cmd *cobra.Command) string {
	batchSize := "batch-size"
	cmd.Flags().IntVar(&curationFlags.core.batchSize, batchSize, 0,
		"Chunking window for bulk service calls (default 500)")
	return batchSize
}

func addNameFlag(cmd *cobra.Command) string {
	name := "name"
	cmd.Flags().StringVar(&curationFlags.did.name, name, "",
		"A name pattern selecting datasets, with the usual shell wildcard *")
	return name
}

func addBucketFlag(cmd *cobra.Command, target *string) string {
	bucket := "bucket"
	cmd.Flags().StringVar(target, bucket, "",
		"Name of the S3 bucket holding the file tree")
	return bucket
}

func addPathFlag(cmd *cobra.Command, target *string) string {
	path := "path"
	cmd.Flags().StringVar(target, path, "",
		"Path to a local directory holding the file tree")
	return path
}

func addPrefixFlag(cmd *cobra.Command) string {
	prefix := "prefix"
	cmd.Flags().StringVar(&curationFlags.registration.prefix, prefix, "",
		"Restrict the scan to keys under this prefix")
	return prefix
}

func addReadBufferFlag(cmd *cobra.Command) string {
	readBuffer := "read-buffer"
	curationFlags.registration.readBuffer = flagext.ByteSize(10 * units.MiB)
	cmd.Flags().Var(&curationFlags.registration.readBuffer, readBuffer,
		"Read buffer used when checksumming files (e.g. 10MB)")
	return readBuffer
}

func addJobsFlags(cmd *cobra.Command) string {
	jobs := "jobs"
	cmd.Flags().IntVar(&curationFlags.registration.jobs, jobs, 0,
		"Split the scan across this many registration jobs")
	cmd.Flags().IntVar(&curationFlags.registration.job, "job", 0,
		"Zero-based index of this registration job")
	return jobs
}

func addCorrectionsFileFlag(cmd *cobra.Command) string {
	correctionsFile := "corrections-file"
	cmd.Flags().StringVar(&curationFlags.metadata.correctionsFile, correctionsFile, "",
		"Path to a JSON corrections file as produced by 'metadata gather'")
	return correctionsFile
}

func addDSNFlag(cmd *cobra.Command) string {
	dsn := "dsn"
	cmd.Flags().StringVar(&curationFlags.metadata.dsn, dsn, "",
		"Postgres connection string of the service database. When set, corrections bypass the REST API")
	return dsn
}

func addTargetFlag(cmd *cobra.Command) string {
	targetDir := "target-dir"
	cmd.Flags().StringVar(&curationFlags.doc.docTarget, targetDir, ".",
		"The target directory where to generate the markdown documentation")
	return targetDir
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			logFatalln(err)
		}
	}
}
