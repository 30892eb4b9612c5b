// Package logging builds the notification sink injected into the driver
// and policies. Verbosity is configured here once instead of through
// global process state, so a noisy run can be quieted without touching
// any package-level logger.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a leveled logger writing to w. level accepts the standard
// logrus names ("debug", "info", "warn", ...); empty defaults to info.
func New(w io.Writer, level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	if level == "" {
		level = "info"
	}
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lv)
	return log, nil
}

// Silent returns a logger that discards everything. Used by tests and the
// live view, where step notifications would corrupt the TUI frame.
func Silent() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
