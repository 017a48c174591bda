package iologger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gntree/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "debug", Destination: "file"}

	err := Init(dir, cfg)
	require.NoError(t, err)
	slog.Debug("tree built", "nodes", 5)

	bs, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"msg":"tree built"`)
}

func TestInitMissingDir(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := filepath.Join(t.TempDir(), "nope")
	cfg := config.LogConfig{Format: "text", Level: "info", Destination: "file"}

	err := Init(dir, cfg)
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		msg, lvl string
		res      slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown", "verbose", slog.LevelInfo},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, parseLevel(v.lvl), v.msg)
	}
}
