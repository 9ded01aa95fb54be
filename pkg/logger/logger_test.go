package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("debug"))
	assert.NotNil(t, InfoLogger)
	assert.NotPanics(t, func() { Info("hello %s", "world") })

	assert.Error(t, Init("loud"))
}

func TestSetServiceName(t *testing.T) {
	old := SetServiceName("stock_watch")
	defer SetServiceName(old)

	assert.Equal(t, "stock_watch", SetServiceName("stock_watch"))
}

func TestNotInitialized(t *testing.T) {
	InfoLogger = nil
	defer UseNop()
	assert.Panics(t, func() { Error("boom") })
}
