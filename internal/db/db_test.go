package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_SQLite(t *testing.T) {
	gormDB, err := Open(context.Background(), "sqlite", "file::memory:", zap.NewNop())
	require.NoError(t, err)

	var one int
	require.NoError(t, gormDB.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
	assert.NoError(t, Close(gormDB))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn", zap.NewNop())
	assert.ErrorContains(t, err, "unsupported backend driver")
}
