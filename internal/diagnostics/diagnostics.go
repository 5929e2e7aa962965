// Package diagnostics renders scan, parse, resolve, and runtime errors
// to a writer in the exact shapes the driver contract requires,
// optionally colorizing the "Error" portion when writing to a
// terminal.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sink wraps an io.Writer and renders diagnostics to it. Every
// pipeline stage (scanner, parser, resolver, interpreter) already
// writes its own "[line N] Error...: message" text directly to the
// writer it was constructed with; Sink is what the driver hands them
// so that output can be colorized in one place without touching the
// pipeline packages themselves.
type Sink struct {
	w        io.Writer
	colorize bool
	errorTag *color.Color
}

// NewSink returns a Sink writing to w. When colorize is false, Sink.Write
// is a pass-through: no ANSI codes are ever emitted, so stripping
// color from the output (or never enabling it) changes nothing about
// the required text.
func NewSink(w io.Writer, colorize bool) *Sink {
	return &Sink{
		w:        w,
		colorize: colorize,
		errorTag: color.New(color.FgRed, color.Bold),
	}
}

// Write implements io.Writer, so a Sink can be passed anywhere the
// pipeline packages expect a plain error writer. When colorize is
// off, the bytes pass through unchanged.
func (s *Sink) Write(p []byte) (int, error) {
	if !s.colorize {
		return s.w.Write(p)
	}
	return s.w.Write(colorizeErrorTag(p, s.errorTag))
}

// colorizeErrorTag wraps every occurrence of the literal word "Error"
// in color, leaving every other byte untouched. It operates on raw
// diagnostic lines rather than parsing them, since every stage emits
// the tag the same way.
func colorizeErrorTag(p []byte, tag *color.Color) []byte {
	const needle = "Error"
	out := make([]byte, 0, len(p)+16)
	for i := 0; i < len(p); {
		if i+len(needle) <= len(p) && string(p[i:i+len(needle)]) == needle {
			out = append(out, []byte(tag.Sprint(needle))...)
			i += len(needle)
			continue
		}
		out = append(out, p[i])
		i++
	}
	return out
}

// Reportf writes a pre-formatted diagnostic line verbatim, honoring
// the same colorization as Write. It exists for driver-level messages
// (config/cache failures) that don't originate from the pipeline
// packages but should look consistent with their output.
func (s *Sink) Reportf(format string, args ...interface{}) {
	fmt.Fprintf(s, format, args...)
}
