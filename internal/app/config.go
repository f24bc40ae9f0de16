package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-task-tracker/internal/config"
)

// weakSigningKeyLen is the length below which a JWT signing key is
// reported as weak.
const weakSigningKeyLen = 32

// MustReadEnv loads .env (if present) and the process environment into the
// global config.
func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read config from env")
		panic(err)
	}

	if len(cfg.JWT.SigningKey) < weakSigningKeyLen {
		globalLogger.Warn().
			Int("length", len(cfg.JWT.SigningKey)).
			Msg("jwt signing key is shorter than recommended")
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTP.Port).
		Dur("access_token_ttl", cfg.JWT.AccessTokenTTL).
		Bool("tasks_create_requires_membership", cfg.Tasks.CreateRequiresMembership).
		Msg("read config from env")

	config.SetGlobal(cfg)
}
