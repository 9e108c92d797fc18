package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_EnvironmentDefaultLevel(t *testing.T) {
	logger, err := New(Config{Environment: "development"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(Config{Environment: "production"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_CustomLevel(t *testing.T) {
	logger, err := New(Config{Environment: "local", Level: "error"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_RejectsInvalidLevel(t *testing.T) {
	_, err := New(Config{Environment: "production", Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid level")
}
