package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewFromZap(zap.New(core)), logs
}

func TestZapLogger_Fields(t *testing.T) {
	log, logs := newObserved()

	log.Warn("cart write failed",
		String("key", "cart"),
		Int("qty", 2),
		Bool("remote", true),
		Duration("took", time.Second),
		Error(errors.New("disk gone")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "cart write failed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "cart", fields["key"])
	assert.Equal(t, int64(2), fields["qty"])
	assert.Equal(t, true, fields["remote"])
	assert.Equal(t, time.Second, fields["took"])
	assert.Equal(t, "disk gone", fields["error"])
}

func TestZapLogger_WithContext(t *testing.T) {
	log, logs := newObserved()

	ctx := IntoContext(context.Background(), String("request_id", "r1"))
	ctx = IntoContext(ctx, String("context_id", "tab-a"))
	log.WithContext(ctx).Info("order placed")
	log.WithContext(context.Background()).Info("plain")

	require.Equal(t, 2, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "r1", fields["request_id"])
	assert.Equal(t, "tab-a", fields["context_id"])
	assert.Empty(t, logs.All()[1].Context)
}

func TestZapLogger_WithFieldsDoesNotLeak(t *testing.T) {
	log, logs := newObserved()

	child := log.WithFields(String("component", "checkout"))
	child.Info("child")
	log.Info("parent")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "checkout", logs.All()[0].ContextMap()["component"])
	assert.NotContains(t, logs.All()[1].ContextMap(), "component")
}

func TestNewZapLogger_Environments(t *testing.T) {
	for _, env := range []string{"production", "local"} {
		t.Run(env, func(t *testing.T) {
			log, err := NewZapLogger(env)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestFromContext_Nil(t *testing.T) {
	assert.Nil(t, FromContext(nil))
}
