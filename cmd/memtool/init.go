package main

import (
	"log/slog"
	"os"
	"strings"

	"memtable-golang/leveldb/db"
)

// initConfig loads memtable options; a missing file yields the defaults.
func initConfig(path string) (*db.Options, error) {
	if path == "" {
		return db.DefaultOptions(), nil
	}
	return db.LoadOptions(path)
}

// initLogger installs the global slog logger, JSON or text.
func initLogger(level string, json bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
