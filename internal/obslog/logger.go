// Package obslog wraps zerolog for this tool's structured diagnostic trace
// (the -v/--verbose flag). It intentionally never carries the two
// contractual stdout lines the spec requires verbatim ("atlas is
// unchanged: ...", "packing failed, could not fit bitmap: ..."); those are
// written directly with fmt.Fprintln so a log encoder never reformats them.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a small structured-logging façade over zerolog.
type Logger struct {
	logger zerolog.Logger
}

// New creates a Logger writing to output (os.Stderr if nil). verbose raises
// the level from Info to Debug.
func New(output io.Writer, verbose bool) *Logger {
	if output == nil {
		output = os.Stderr
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	l := zerolog.New(output).Level(level).With().Timestamp().Str("component", "atlaspacker").Logger()
	return &Logger{logger: l}
}

// With returns a child Logger with an additional string field, used to
// scope trace lines to the component currently running (e.g. "packer").
func (l *Logger) With(key, value string) *Logger {
	return &Logger{logger: l.logger.With().Str(key, value).Logger()}
}

func (l *Logger) Debug(msg string) { l.logger.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.logger.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.logger.Warn().Msg(msg) }
func (l *Logger) Error(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

// PackingPage logs one page's result, mirroring the original tool's verbose
// "finished packing: <name> (<w> x <h>)" trace line.
func (l *Logger) PackingPage(name string, width, height, numSprites int) {
	l.logger.Debug().
		Str("page", name).
		Int("width", width).
		Int("height", height).
		Int("sprites", numSprites).
		Msg("finished packing page")
}
