package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// OpenLog opens the append-only log file and returns an slog handler writing
// to it, and to stderr as well when echo is set. The returned closer releases
// the file.
func OpenLog(path string, echo bool, level slog.Level) (slog.Handler, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	var w io.Writer = f
	if echo {
		w = io.MultiWriter(f, os.Stderr)
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), f, nil
}
