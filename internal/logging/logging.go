package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var (
	quiet  = false
	logger = log.New(os.Stderr, "", log.LstdFlags)
)

// Quiet routes all log output to a file in dir (or discards it when the file
// cannot be created). The TUI owns the terminal, so nothing may print to it.
func Quiet(dir string) {
	quiet = true
	if dir == "" {
		logger.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "localchat.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return
	}
	logger.SetOutput(f)
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	logger.Printf(format, v...)
}

// Errorf logs a formatted error message
func Errorf(format string, v ...any) {
	logger.Printf("ERROR "+format, v...)
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	logger.Printf("WARN "+format, v...)
}

// Debugf logs a formatted debug message, suppressed in quiet mode
func Debugf(format string, v ...any) {
	if !quiet {
		logger.Printf("DEBUG "+format, v...)
	}
}
