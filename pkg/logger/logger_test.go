package logger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"employeehub/pkg/logger"
)

func TestNewLogger(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "invalid", ""}

	for _, env := range []logger.Environment{logger.Development, logger.Production} {
		for _, level := range levels {
			t.Run(string(env)+"/level="+level, func(t *testing.T) {
				log, err := logger.NewLogger(env, level)
				require.NoError(t, err)
				require.NotNil(t, log)
			})
		}
	}
}

func TestLoggerMethods(t *testing.T) {
	log, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	t.Run("With returns a new instance", func(t *testing.T) {
		derived := log.With(zap.String("key", "value"), zap.Int("count", 1))
		assert.NotNil(t, derived)
		assert.NotSame(t, log, derived)
	})

	t.Run("logging does not panic with and without request id", func(t *testing.T) {
		plain := context.Background()
		withID := logger.NewRequestIDContext(plain, "req-1")

		assert.NotPanics(t, func() {
			for _, ctx := range []context.Context{plain, withID} {
				log.Debug(ctx, "debug", zap.String("k", "v"))
				log.Info(ctx, "info")
				log.Warn(ctx, "warn")
				log.Error(ctx, "error")
			}
			_ = log.Sync()
		})
	})

	t.Run("WithRequestID", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "req-2")
		assert.NotSame(t, log, log.WithRequestID(ctx))
		assert.Same(t, log, log.WithRequestID(context.Background()))
	})
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		testLogger, err := logger.NewLogger(logger.Development, "debug")
		require.NoError(t, err)

		type otherKey struct{}
		ctx := logger.NewContext(context.Background(), testLogger)
		ctx = context.WithValue(ctx, otherKey{}, "value")

		got, err := logger.FromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, testLogger, got)
	})

	t.Run("missing logger", func(t *testing.T) {
		got, err := logger.FromContext(context.Background())
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, logger.ErrLoggerNotFound)
	})
}

func TestLog(t *testing.T) {
	logger.SetGlobalLogger(nil)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	contextLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	globalLogger, err := logger.NewLogger(logger.Production, "error")
	require.NoError(t, err)

	t.Run("fallback when nothing is configured", func(t *testing.T) {
		assert.NotNil(t, logger.Log(context.Background()))
	})

	t.Run("global when context has none", func(t *testing.T) {
		logger.SetGlobalLogger(globalLogger)
		assert.Same(t, globalLogger, logger.Log(context.Background()))
	})

	t.Run("context logger wins", func(t *testing.T) {
		logger.SetGlobalLogger(globalLogger)
		ctx := logger.NewContext(context.Background(), contextLogger)
		assert.Same(t, contextLogger, logger.Log(ctx))
	})
}

func TestInitGlobalLoggerWithLevel(t *testing.T) {
	logger.SetGlobalLogger(nil)
	t.Cleanup(func() { logger.SetGlobalLogger(nil) })

	require.NoError(t, logger.InitGlobalLoggerWithLevel(logger.Development, "debug"))
	first := logger.Log(context.Background())

	require.NoError(t, logger.InitGlobalLogger(logger.Production))
	second := logger.Log(context.Background())

	assert.Same(t, first, second, "second init must keep the existing global logger")
}

func TestRequestID(t *testing.T) {
	t.Run("generated ids are unique uuid v4", func(t *testing.T) {
		id1 := logger.GenerateRequestID()
		id2 := logger.GenerateRequestID()
		assert.NotEqual(t, id1, id2)

		parsed, err := uuid.Parse(id1)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
	})

	t.Run("explicit id is stored", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "abc")
		id, ok := logger.GetRequestID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "abc", id)
	})

	t.Run("empty id is generated", func(t *testing.T) {
		ctx := logger.NewRequestIDContext(context.Background(), "")
		id, ok := logger.GetRequestID(ctx)
		assert.True(t, ok)
		assert.NotEmpty(t, id)
	})

	t.Run("absent id", func(t *testing.T) {
		id, ok := logger.GetRequestID(context.Background())
		assert.False(t, ok)
		assert.Empty(t, id)
	})
}
