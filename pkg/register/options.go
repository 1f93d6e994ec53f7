package register

import (
	"runtime"

	"github.com/docker/go-units"
	"go.uber.org/zap"
)

// Option sets options for the registration run
type Option func(*Settings)

// Settings defines various settings for the registration run
type Settings struct {
	concurrentFiles int
	batchSize       int
	bufferSize      int
	prefix          string
	jobs            int
	job             int
	dryRun          bool
	archiveKey      string
	archiveValue    string
	doneChannel     chan struct{}
	l               *zap.Logger
}

const (
	defaultBatchSize  = 500
	defaultBufferSize = 10 * units.MiB

	defaultArchiveKey   = "arcBackup"
	defaultArchiveValue = "SLAC_RAW_DISK_BKUP:need"
)

var defaultFileConcurrency = 2 * runtime.NumCPU()

// ConcurrentFiles sets the max level of concurrency used to checksum
// files. It defaults to 2 x #cpus.
func ConcurrentFiles(concurrentFiles int) Option {
	return func(s *Settings) {
		if concurrentFiles == 0 {
			s.concurrentFiles = defaultFileConcurrency
			return
		}
		s.concurrentFiles = concurrentFiles
	}
}

// BatchSize sets the chunking window for bulk service calls.
// It defaults to defaultBatchSize.
func BatchSize(batchSize int) Option {
	return func(s *Settings) {
		if batchSize == 0 {
			s.batchSize = defaultBatchSize
			return
		}
		s.batchSize = batchSize
	}
}

// WithBufferSize sets the read buffer used when checksumming objects.
// It defaults to 10 MiB.
func WithBufferSize(size int) Option {
	return func(s *Settings) {
		if size > 0 {
			s.bufferSize = size
		}
	}
}

// WithPrefix restricts the scan to store keys under a prefix
func WithPrefix(prefix string) Option {
	return func(s *Settings) {
		s.prefix = prefix
	}
}

// WithJobSlice keeps only the keys with index%jobs == job, so several
// registration jobs may split one tree. Dataset closing is left to a
// final unsliced run.
func WithJobSlice(jobs, job int) Option {
	return func(s *Settings) {
		if jobs > 1 {
			s.jobs = jobs
			s.job = job
		}
	}
}

// WithDryRun scans and classifies without checksumming files or
// calling the service
func WithDryRun(enabled bool) Option {
	return func(s *Settings) {
		s.dryRun = enabled
	}
}

// WithArchiveMetadata overrides the metadata key and value stamped on
// datasets when they are closed
func WithArchiveMetadata(key, value string) Option {
	return func(s *Settings) {
		if key != "" {
			s.archiveKey = key
			s.archiveValue = value
		}
	}
}

// WithDoneChan sets a signaling channel controlled by the caller to
// interrupt ongoing goroutines
func WithDoneChan(done chan struct{}) Option {
	return func(s *Settings) {
		s.doneChannel = done
	}
}

// WithLogger sets a logger for the operation. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.l = l
		}
	}
}

func defaultSettings() Settings {
	return Settings{
		concurrentFiles: defaultFileConcurrency,
		batchSize:       defaultBatchSize,
		bufferSize:      defaultBufferSize,
		archiveKey:      defaultArchiveKey,
		archiveValue:    defaultArchiveValue,
		l:               zap.NewNop(),
	}
}

func newSettings(opts ...Option) Settings {
	s := defaultSettings()
	for _, apply := range opts {
		apply(&s)
	}
	return s
}
