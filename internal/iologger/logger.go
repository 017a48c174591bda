// Package iologger sets up the process-wide slog logger.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gntree/pkg/config"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "gntree.log"

// Init replaces the default slog logger according to cfg. With the "file"
// destination the log is truncated at the start of every run.
func Init(logDir string, cfg config.LogConfig) error {
	w, err := logWriter(logDir, cfg.Destination)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.Format == "text" || cfg.Format == "tint" {
		h = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(h))
	return nil
}

func logWriter(logDir, dest string) (io.Writer, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil
	case "file":
		path := filepath.Join(logDir, LogFile)
		f, err := os.Create(path)
		if err != nil {
			return nil, CreateLogFileError(path, err)
		}
		return f, nil
	}
	return os.Stderr, nil
}

// parseLevel falls back to Info for unknown names.
func parseLevel(level string) slog.Level {
	var res slog.Level
	if err := res.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo
	}
	return res
}
