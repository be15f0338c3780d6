// Package logx builds the console logger shared by all commands.
package logx

import (
	"os"

	"github.com/charmbracelet/log"
)

// New returns a stderr logger. Verbose enables debug-level output, including
// every external command line before it runs.
func New(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
