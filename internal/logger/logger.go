package logger

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init installs the default logger writing to w and returns it.
// Debug enables per-instruction tracing from the interpreter.
func Init(w io.Writer, debug, noColor bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: false,
		TimeFormat:      time.RFC3339,
		Prefix:          "INTVM",
	})

	l.SetLevel(log.WarnLevel)
	if debug {
		l.SetLevel(log.DebugLevel)
	}

	l.SetColorProfile(termenv.ANSI256)
	if noColor {
		l.SetColorProfile(termenv.Ascii)
	}

	log.SetDefault(l)
	return l
}
