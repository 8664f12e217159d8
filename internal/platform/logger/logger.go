package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output so the platform's log
// pipeline can index request_id and team_id fields.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
