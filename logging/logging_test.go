package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_multichoice/config"
)

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	log, err := New(config.LogSettings{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	log.Info("ps|id:1|old:open|s:passed")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ps|id:1|old:open|s:passed")
}

func TestNewRejectsBadSettings(t *testing.T) {
	_, err := New(config.LogSettings{Level: "loud"})
	assert.Error(t, err)

	_, err = New(config.LogSettings{Level: "info", Format: "xml"})
	assert.Error(t, err)
}
