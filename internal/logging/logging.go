// internal/logging/logging.go
// Package logging configures the process-wide logrus logger.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Setup sets the level and output of the standard logrus logger. Diagnostics
// go to stderr so stdout carries only command output.
func Setup(level string, w io.Writer) error {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return nil
}

// Hold buffers everything written through the standard logger until the
// returned release func is called. release restores the previous output
// and writes the buffered entries to it. Used while a full-screen view
// owns the terminal.
func Hold() (release func()) {
	logger := log.StandardLogger()
	orig := logger.Out
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	var once sync.Once
	return func() {
		once.Do(func() {
			logger.SetOutput(orig)
			if buf.Len() > 0 {
				_, _ = orig.Write(buf.Bytes())
			}
		})
	}
}
