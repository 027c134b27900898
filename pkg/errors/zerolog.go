package errors

import (
	"io"

	"github.com/rs/zerolog"
)

// UseZerolog routes warnings to the given zerolog logger. Warning types
// implementing zerolog.LogObjectMarshaler are embedded as structured fields.
func UseZerolog(logger zerolog.Logger) {
	SetZerologWarnFunc(func(w error) {
		ev := logger.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}

// NewZerologWriter builds a zerolog logger writing JSON lines to w, with
// timestamps, ready to hand to UseZerolog.
func NewZerologWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
