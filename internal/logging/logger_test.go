package logging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		config LoggingConfig
		valid  bool
	}{
		{
			name:   "valid json config",
			config: LoggingConfig{Level: "info", Format: "json"},
			valid:  true,
		},
		{
			name:   "valid console config",
			config: LoggingConfig{Level: "debug", Format: "console"},
			valid:  true,
		},
		{
			name:   "invalid level",
			config: LoggingConfig{Level: "invalid", Format: "json"},
			valid:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config)
			if tt.valid {
				require.NoError(t, err)
				assert.NotNil(t, logger)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoggerAddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.Info(ctx, "traced message", zap.String("key", "value"))
	logger.Info(context.Background(), "plain message")

	entries := logs.All()
	require.Len(t, entries, 2)

	traced := entries[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", traced["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", traced["span_id"])
	assert.Equal(t, true, traced["sampled"])
	assert.Equal(t, "value", traced["key"])

	plain := entries[1].ContextMap()
	assert.NotContains(t, plain, "trace_id")
}

func TestLoggerWithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewFromZap(zap.New(core))

	child := logger.Named("seeder").With(zap.String("component", "test"))
	child.Info(context.Background(), "child logger message")
	child.Debug(context.Background(), "filtered by level")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "seeder", entries[0].LoggerName)
	assert.Equal(t, "test", entries[0].ContextMap()["component"])
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Error(context.Background(), "discarded")
	assert.NotNil(t, logger.Zap())
	assert.NotNil(t, NewFromZap(nil).Zap())
}

func TestExtractTraceFields(t *testing.T) {
	assert.Nil(t, extractTraceFields(context.Background()))
}

func TestGetWriteSyncer(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"stdout", "stdout"},
		{"stderr", "stderr"},
		{"file", filepath.Join(t.TempDir(), "test.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, getWriteSyncer(tt.path))
		})
	}
}
