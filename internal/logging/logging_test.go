package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mailassist.log")

	logger, closeFn, err := setup(path, false, nil)
	require.NoError(t, err)
	logger.Info("request finished", "chars", 42)
	logger.Debug("hidden")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "request finished")
	assert.Contains(t, string(data), "chars=42")
	assert.NotContains(t, string(data), "hidden")
}

func TestSetup_VerboseAlsoWritesConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailassist.log")
	var console bytes.Buffer

	logger, closeFn, err := setup(path, true, &console)
	require.NoError(t, err)
	logger.With("component", "daemon").Debug("event received")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "component=daemon")
	assert.Contains(t, console.String(), "event received")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
