package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls how the global logger is built
type Options struct {
	Environment string
	Output      io.Writer
}

// Init replaces the global zerolog logger. Production emits JSON at info level,
// everything else gets a human readable console writer at debug level.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	if opts.Environment == "production" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		return
	}

	console := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(console).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
}

// With returns a child logger tagged with a component name
func With(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
