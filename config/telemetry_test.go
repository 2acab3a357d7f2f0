package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payflow/config"
)

func TestInitTracerDisabledIsNoOp(t *testing.T) {
	cleanup, err := config.InitTracer(&config.TelemetryConfig{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, cleanup)
	assert.NotPanics(t, cleanup)
}
