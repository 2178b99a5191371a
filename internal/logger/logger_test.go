package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmwwxz/website-scanner/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  config.LoggerConfig
		wantErr bool
	}{
		{
			name: "valid json config",
			config: config.LoggerConfig{
				Level:  "debug",
				Format: "json",
			},
			wantErr: false,
		},
		{
			name: "valid console config",
			config: config.LoggerConfig{
				Level:  "info",
				Format: "console",
			},
			wantErr: false,
		},
		{
			name: "invalid level",
			config: config.LoggerConfig{
				Level:  "shouting",
				Format: "json",
			},
			wantErr: true,
		},
		{
			name:    "empty config uses defaults",
			config:  config.LoggerConfig{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, logger)
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	// The embedded sugared logger carries the plain and structured variants
	logger.Info("test info message")
	logger.Infow("test structured info", "key", "value", "number", 42)

	logger.Debug("test debug message")
	logger.Debugw("test structured debug", "key", "value")

	logger.Warn("test warn message")
	logger.Warnw("test structured warn", "key", "value")

	logger.Error("test error message")
	logger.Errorw("test structured error", "key", "value")
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	require.NotNil(t, logger)

	// Discards everything without panicking
	logger.Infow("dropped", "key", "value")
	logger.Errorw("dropped too", "key", "value")
}

func TestWithContext(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	// Without a recording span the logger is returned unchanged
	ctx := context.Background()
	assert.Same(t, logger, logger.WithContext(ctx))

	// With a span the derived logger carries trace fields
	spanCtx, span := logger.StartSpan(ctx, "test.operation")
	defer span.End()

	contextLogger := logger.WithContext(spanCtx)
	assert.NotNil(t, contextLogger)
	contextLogger.Info("test with context")
}

func TestStartSpan(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	ctx := context.Background()
	newCtx, span := logger.StartSpan(ctx, "test.operation")

	assert.NotNil(t, newCtx)
	assert.NotNil(t, span)

	span.End()
}

func TestWithFields(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	fieldLogger := logger.WithFields("component", "test", "version", "1.0")
	assert.NotNil(t, fieldLogger)
	fieldLogger.Info("test from field logger")
}

func TestWithComponent(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	componentLogger := logger.WithComponent("engine")
	assert.NotNil(t, componentLogger)
	componentLogger.Info("test from component logger")
}

func TestWithTarget(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	targetLogger := logger.WithTarget("example.com")
	assert.NotNil(t, targetLogger)
	targetLogger.Info("test from target logger")
}

func TestWithScanID(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	scanLogger := logger.WithScanID("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
	assert.NotNil(t, scanLogger)
	scanLogger.Info("test from scan logger")
}

func TestLogDuration(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	start := time.Now().Add(-50 * time.Millisecond)
	logger.LogDuration(context.Background(), "port.probe", start, "host", "example.com")
}

func TestLogError(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	logger.LogError(context.Background(), errors.New("connection refused"), "port.probe")

	// nil errors are ignored entirely
	logger.LogError(context.Background(), nil, "port.probe")
}

func TestLogHTTPRequest(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	ctx := context.Background()
	logger.LogHTTPRequest(ctx, "GET", "https://example.com/admin", 200, 120*time.Millisecond)
	logger.LogHTTPRequest(ctx, "GET", "https://example.com/backup", 503, 80*time.Millisecond)
}

func TestFromContext(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	// A bare context still yields a usable logger
	fallback := FromContext(context.Background())
	assert.NotNil(t, fallback)
}

func TestSync(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	// Sync can return an error on stdout/stderr in some environments; it must
	// not panic
	err = logger.Sync()
	t.Logf("Sync result: %v", err)
}

func TestLoggerConcurrency(t *testing.T) {
	logger, err := New(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			logger.Infow("concurrent log", "goroutine", id)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
