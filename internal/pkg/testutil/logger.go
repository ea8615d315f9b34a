package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/childmindresearch/cloai-service/internal/pkg/config"
	"github.com/childmindresearch/cloai-service/internal/pkg/logger"
)

// SetupTestLogger sets up a logger for testing purposes.
func SetupTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
	}

	err := logger.InitLogger(settings)
	require.NoError(t, err)

	log, err := logger.GetLogger()
	require.NoError(t, err)

	return log
}

// noopLogger discards everything. Useful where log output would clutter test runs.
type noopLogger struct{}

// NewNoopLogger creates a logger that discards all output.
func NewNoopLogger() logger.Logger {
	return &noopLogger{}
}

func (l *noopLogger) Info(args ...interface{})  {}
func (l *noopLogger) Warn(args ...interface{})  {}
func (l *noopLogger) Error(args ...interface{}) {}
func (l *noopLogger) Fatal(args ...interface{}) {}
func (l *noopLogger) Panic(args ...interface{}) {}
