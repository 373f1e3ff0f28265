package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("quote priced")
	logger.Warn("catalog fallback")
	require.NoError(t, logger.Sync())

	assert.NotContains(t, buf.String(), "quote priced")
	assert.Contains(t, buf.String(), `"msg":"catalog fallback"`)
	assert.Contains(t, buf.String(), `"timestamp"`)
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "chatty", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
