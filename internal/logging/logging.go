// Package logging configures the process-wide logrus logger. The TUI owns
// the terminal, so logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup points logrus at path (created with its parent directory) at the
// given level. The returned closer releases the file.
func Setup(level, path string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	configure(logrus.StandardLogger(), f, lvl)
	return f, nil
}

// Discard silences logging, for one-shot commands that print to stdout.
func Discard() {
	configure(logrus.StandardLogger(), io.Discard, logrus.PanicLevel)
}

func configure(l *logrus.Logger, out io.Writer, lvl logrus.Level) {
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}
