package release

import (
	"runtime"

	"go.uber.org/zap"
)

// Option sets options for release operations
type Option func(*Settings)

// Settings defines various settings for release operations
type Settings struct {
	concurrentList int
	batchSize      int
	doneChannel    chan struct{}
	l              *zap.Logger
	dryRun         bool
	purge          bool
	boost          bool
	withMetrics    bool
}

const (
	defaultBatchSize = 500
)

var (
	defaultListConcurrency = 2 * runtime.NumCPU()
)

// ConcurrentList sets the max level of concurrency used to query rules.
// It defaults to 2 x #cpus.
func ConcurrentList(concurrentList int) Option {
	return func(s *Settings) {
		if concurrentList == 0 {
			s.concurrentList = defaultListConcurrency
			return
		}
		s.concurrentList = concurrentList
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

// WithDryRun plans and logs intended actions without any mutating
// service call
func WithDryRun(enabled bool) Option {
	return func(s *Settings) {
		s.dryRun = enabled
	}
}

// WithPurge deletes the replicas locked by revoked rules
func WithPurge(enabled bool) Option {
	return func(s *Settings) {
		s.purge = enabled
	}
}

// WithBoost re-boosts stuck rules found while checking rule status
func WithBoost(enabled bool) Option {
	return func(s *Settings) {
		s.boost = enabled
	}
}

// WithMetrics toggles metrics collection on release operations
func WithMetrics(enabled bool) Option {
	return func(s *Settings) {
		s.withMetrics = enabled
	}
}

func defaultSettings() Settings {
	return Settings{
		concurrentList: defaultListConcurrency,
		batchSize:      defaultBatchSize,
		l:              zap.NewNop(),
	}
}

func newSettings(opts ...Option) Settings {
	s := defaultSettings()
	for _, apply := range opts {
		apply(&s)
	}
	return s
}
