// Package config handles application configuration and setup
package config

import (
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings that writes to stderr.
func CreateLogger(debug, quiet bool) *log.Logger {
	return CreateLoggerWithWriter(os.Stderr, debug, quiet)
}

// CreateLoggerWithWriter creates a logger with appropriate settings that writes to w.
func CreateLoggerWithWriter(w io.Writer, debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = w
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
