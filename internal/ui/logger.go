package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/Chain-Defenders/forge-defender/internal/config"
)

// Logger writes colored diagnostics to stderr. Debugf output only appears
// when verbose logging is enabled in the config.
type Logger struct {
	config *config.Config
}

// NewLogger creates a Logger bound to the config's verbose toggle.
func NewLogger(cfg *config.Config) *Logger {
	return &Logger{config: cfg}
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.WhiteString(format, args...))
}

// Warnf logs a non-fatal problem (skipped files, unresolved report keys).
func (l *Logger) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString(format, args...))
}

// Errorf logs a failure that aborts the current operation.
func (l *Logger) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.RedString(format, args...))
}

// Debugf logs verbose detail (command lines, raw runner stderr).
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.config == nil || !l.config.Verbose {
		return
	}
	fmt.Fprintln(os.Stderr, color.CyanString(format, args...))
}
