package utils

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// NewRunLogger opens (or creates) the shared run log and returns a logger
// that appends JSON records to it while mirroring warnings and errors to
// stderr as text. The caller owns closing the returned file.
func NewRunLogger(logFilePath string) (*slog.Logger, *os.File, error) {
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slogmulti.Fanout(
		slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}),
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}),
	))

	return logger, logFile, nil
}
