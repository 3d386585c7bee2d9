// Package logging builds the structured logger shared by every crewboard component.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level.
// format is "text" (default) or "json"; an unknown level falls back to info.
func New(level, format string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "crewboard",
	})

	if format == "json" {
		logger.SetFormatter(log.JSONFormatter)
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// Discard returns a logger that drops everything, for tests and quiet commands
func Discard() *log.Logger {
	return log.New(io.Discard)
}
