package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/storage/postgres"
)

var globalPostgresPool *pgxpool.Pool

// queryLogger forwards pgx trace events to logger.
func queryLogger(logger zerolog.Logger) tracelog.LoggerFunc {
	return func(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var event *zerolog.Event
		switch level {
		case tracelog.LogLevelTrace:
			event = logger.Trace()
		case tracelog.LogLevelDebug:
			event = logger.Debug()
		case tracelog.LogLevelInfo:
			event = logger.Info()
		case tracelog.LogLevelWarn:
			event = logger.Warn()
		default:
			event = logger.Error()
		}
		event.Fields(data).Msg(msg)
	}
}

func newPoolConfig(cfg config.PostgresConfig, logger zerolog.Logger) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	poolCfg.MaxConns = cfg.MaxConns

	traceLevel, err := tracelog.LogLevelFromString(cfg.TraceLevel)
	if err != nil {
		return nil, err
	}
	if traceLevel != tracelog.LogLevelNone {
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(logger.With().Str("component", "pgx").Logger()),
			LogLevel: traceLevel,
		}
	}
	return poolCfg, nil
}

func MustConnectPostgres() {
	cfg := config.Global().Postgres

	poolCfg, err := newPoolConfig(cfg, globalLogger)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to configure postgres pool")
		panic(err)
	}

	globalPostgresPool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create postgres pool")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	if err = globalPostgresPool.Ping(ctx); err != nil {
		globalLogger.Error().
			Err(err).
			Str("host", cfg.Host).
			Msg("failed to ping postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int32("max_conns", cfg.MaxConns).
		Str("trace_level", cfg.TraceLevel).
		Msg("connected to postgres")
}

// MustMigratePostgres applies the embedded schema unless POSTGRES_MIGRATE
// is false.
func MustMigratePostgres() {
	if !config.Global().Postgres.Migrate {
		globalLogger.Info().Msg("skipped postgres migration")
		return
	}

	if err := postgres.Migrate(context.Background(), globalLogger, globalPostgresPool); err != nil {
		panic(err)
	}
}

func DisconnectPostgres() {
	globalPostgresPool.Close()
	globalLogger.Info().Msg("closed postgres pool")
}
