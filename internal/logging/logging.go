// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the process-wide structured logger.
//
// The TUI owns the terminal, so log output goes to a rotating file under
// ~/.palaver/logs unless a writer is supplied. Until Init is called every
// call is discarded.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged.
type Options struct {
	// File is the log path. Empty means DefaultFile().
	File string
	// Level is one of debug, info, warn, error.
	Level string
	// Verbose forces debug level.
	Verbose bool

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Writer overrides File when set.
	Writer io.Writer
}

var (
	mu      sync.RWMutex
	logger  = discard()
	closers []io.Closer
)

// DefaultFile returns ~/.palaver/logs/palaver.log.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".palaver", "logs", "palaver.log"), nil
}

// Init replaces the global logger. Calling Init again closes the previous
// log file.
func Init(opts Options) error {
	w := opts.Writer
	var closer io.Closer
	if w == nil {
		path := opts.File
		if path == "" {
			p, err := DefaultFile()
			if err != nil {
				return err
			}
			path = p
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w, closer = lj, lj
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "palaver",
		Level:           ParseLevel(opts.Level, opts.Verbose),
	})

	mu.Lock()
	old := closers
	logger = l
	closers = nil
	if closer != nil {
		closers = append(closers, closer)
	}
	mu.Unlock()

	for _, c := range old {
		c.Close()
	}
	return nil
}

// ParseLevel maps a level name to a log.Level. Unknown names are info.
func ParseLevel(name string, verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Close flushes and closes the log file, then discards further output.
func Close() error {
	mu.Lock()
	old := closers
	closers = nil
	logger = discard()
	mu.Unlock()

	var first error
	for _, c := range old {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// L returns the current logger.
func L() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With returns a child logger carrying the given key/value pairs.
func With(keyvals ...interface{}) *log.Logger {
	return L().With(keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) { L().Debug(msg, keyvals...) }

// Info logs an info message
func Info(msg string, keyvals ...interface{}) { L().Info(msg, keyvals...) }

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) { L().Warn(msg, keyvals...) }

// Error logs an error message
func Error(msg string, keyvals ...interface{}) { L().Error(msg, keyvals...) }

func discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
