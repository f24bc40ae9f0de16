package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("unknown env: %s", cfg.Env)
	}

	if cfg.Log.Level != "" {
		_, err = zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	_, err = tracelog.LogLevelFromString(cfg.Postgres.TraceLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_TRACE_LEVEL: %w", err)
	}

	return cfg, nil
}

// ConnURL builds a libpq-style connection URL understood by pgx.
func (c PostgresConfig) ConnURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}
