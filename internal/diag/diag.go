// Package diag provides package-level leveled diagnostics. The zoom
// controller reports clamped commands and acquisition problems through it
// without ever returning errors across the tick boundary.
package diag

import (
	"io"
	"log"
	"os"
)

// Severity levels. Messages at or below the configured level are emitted.
const (
	LevelOff = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

var (
	level  = LevelWarn
	logger = log.New(os.Stderr, "[camzoom] ", log.LstdFlags)
)

// SetLevel selects the maximum severity to emit. Call once at startup,
// before any goroutines log.
func SetLevel(l int) { level = l }

// Level returns the configured severity.
func Level() int { return level }

// SetOutput redirects diagnostics, primarily for tests.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

func Errorf(format string, args ...any) {
	if level >= LevelError {
		logger.Printf("[ERROR] "+format, args...)
	}
}

func Warnf(format string, args ...any) {
	if level >= LevelWarn {
		logger.Printf("[WARN] "+format, args...)
	}
}

func Infof(format string, args ...any) {
	if level >= LevelInfo {
		logger.Printf("[INFO] "+format, args...)
	}
}

func Debugf(format string, args ...any) {
	if level >= LevelDebug {
		logger.Printf("[DEBUG] "+format, args...)
	}
}
