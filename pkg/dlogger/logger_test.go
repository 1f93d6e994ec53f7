package dlogger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger(t *testing.T) {
	for _, level := range []string{LogLevelInfo, LogLevelDebug, "warn", "error"} {
		l, err := GetLogger(level)
		require.NoError(t, err)
		require.NotNil(t, l)
	}

	l, err := GetLogger(LogLevelNone)
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = GetLogger("shouting")
	assert.Error(t, err)
}

func TestMustGetLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = MustGetLogger(LogLevelInfo, WithConsole())
	})
	assert.Panics(t, func() {
		_ = MustGetLogger("shouting")
	})
}
