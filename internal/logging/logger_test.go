package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDevelopment(t *testing.T) {
	t.Parallel()

	logger, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.True(t, logger.Core().Enabled(-1), "dev logger should enable debug")
}

func TestNewProduction(t *testing.T) {
	t.Parallel()

	logger, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.False(t, logger.Core().Enabled(-1), "prod logger should not enable debug")
}
