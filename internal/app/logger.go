package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/config"
)

const serviceName = "tracker-api"

var globalLogger zerolog.Logger

// InitDefaultLogger sets up a JSON logger used until the config is read.
func InitDefaultLogger() {
	zerolog.TimestampFieldName = "timestamp"
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	globalLogger = newLogger(os.Stdout)
	globalLogger.Info().Msg("initialized default logger")
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Int("pid", os.Getpid()).
		Logger()
}

// loggerOutput picks the level and writer for env. A non-empty level
// overrides the env default.
func loggerOutput(env, level string, stdout io.Writer) (zerolog.Level, io.Writer, error) {
	var (
		lvl zerolog.Level
		w   = stdout
	)
	switch env {
	case config.EnvProd:
		lvl = zerolog.InfoLevel
	case config.EnvDev:
		lvl = zerolog.DebugLevel
	case config.EnvLocal:
		lvl = zerolog.TraceLevel
		w = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.DateTime}
	default:
		return zerolog.NoLevel, nil, fmt.Errorf("unknown env: %s", env)
	}

	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.NoLevel, nil, err
		}
		lvl = parsed
	}
	return lvl, w, nil
}

func MustInitApplicationLogger() {
	cfg := config.Global()

	lvl, w, err := loggerOutput(cfg.Env, cfg.Log.Level, os.Stdout)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("env", cfg.Env).
			Msg("failed to configure logger")
		panic(err)
	}

	zerolog.SetGlobalLevel(lvl)
	globalLogger = globalLogger.Output(w)
	globalLogger.Info().
		Str("level", lvl.String()).
		Msg("initialized application logger")
}
