package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "movements.log")

	log, err := New(Options{Level: "info", File: path})
	assert.NoError(t, err)

	log.Debug("hidden")
	log.Info("visible")
	_ = log.Sync() // stderr may refuse fsync

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"visible"`)
	assert.False(t, strings.Contains(string(data), "hidden"))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNamedNil(t *testing.T) {
	log := Named(nil, "batch")
	assert.NotZero(t, log)
	log.Info("discarded")
}
