package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger writing to stdout. It runs before the
// database connection exists; once the DB is up, main swaps the default for
// a MultiHandler that also persists ERROR records to system_logs.
func Setup() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}
