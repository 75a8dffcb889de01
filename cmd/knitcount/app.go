package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/knitcount/internal/config"
	"github.com/rpggio/knitcount/internal/sqlite"
	"github.com/rpggio/knitcount/internal/tracker"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *sqlite.DB
	tracker *tracker.Service

	closers []func() error
}

// open prepares logging and the database. Logs go to logWriter unless a
// log file is configured.
func (a *app) open(logWriter io.Writer) error {
	if a.cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(a.cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, file.Close)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(a.cfg.Log.Level),
	}))

	if err := ensureDBDir(a.cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(a.cfg.DB.Path)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, db.Close)
	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	a.db = db

	a.tracker = tracker.NewService(db.Stores(), db, a.logger.With("component", "tracker"),
		tracker.WithDemoCounters(a.cfg.Tracker.DemoCounters))
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
