package main

import (
	"io"

	"github.com/rs/zerolog"

	md2mail "github.com/alnah/go-md2mail"
)

// newLogger returns a human-readable logger on w.
// --quiet keeps errors only; --verbose adds debug timing.
func newLogger(w io.Writer, quiet, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(out).Level(level)
}

// logWarnings reports image advisories as structured warn events.
func logWarnings(log zerolog.Logger, warnings []md2mail.Warning) {
	for _, w := range warnings {
		ev := log.Warn().Str("kind", string(w.Kind))
		if w.Src != "" {
			ev = ev.Str("src", w.Src)
		}
		ev.Msg(w.Message)
	}
}
