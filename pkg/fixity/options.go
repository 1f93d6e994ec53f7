package fixity

import (
	"github.com/docker/go-units"
	"go.uber.org/zap"
)

const defaultBufferSize = 10 * units.MiB

// Option sets options for fixity operations
type Option func(*Settings)

// Settings defines various settings for fixity operations
type Settings struct {
	bufferSize int
	dryRun     bool
	l          *zap.Logger
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

// WithDryRun verifies without writing any metadata update
func WithDryRun(enabled bool) Option {
	return func(s *Settings) {
		s.dryRun = enabled
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

func newSettings(opts ...Option) Settings {
	s := Settings{
		bufferSize: defaultBufferSize,
		l:          zap.NewNop(),
	}
	for _, apply := range opts {
		apply(&s)
	}
	return s
}
