package main

import (
	"fmt"
	"log/slog"
	"os"
)

// debugLogFile receives JSON records when fly runs with --debug. The TUI
// owns the terminal, so debug output has to go to a file.
const debugLogFile = "tello-rc.log"

func openDebugLog(path string) (*slog.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, func() { f.Close() }, nil
}
