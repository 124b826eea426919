// Package logutil wires the standard logger to an optional rotating log
// file. Console output stays on stderr either way.
package logutil

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures file logging. An empty Path keeps stderr-only logging.
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

// Setup points the default logger at stderr plus, when a path is given, a
// size-rotated log file.
func Setup(opts Options) {
	if opts.Path == "" {
		return
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 5
	}
	rotated := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotated))
}
