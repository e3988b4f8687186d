package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}

func TestGormLogAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := GormLogAdapter{ZapLogger: zap.New(core)}

	adapter.Printf("slow query %dms", 250)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "slow query 250ms", logs.All()[0].Message)
}
