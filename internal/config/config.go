package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	Log      LogConfig
	HTTP     HTTPConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Tasks    TasksConfig
}

type LogConfig struct {
	// Level overrides the level implied by Env when set.
	Level string `env:"LOG_LEVEL"`
}

type HTTPConfig struct {
	Host              string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `env:"HTTP_PORT" env-default:"8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	MaxConns       int32         `env:"POSTGRES_MAX_CONNS" env-default:"10"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
	Migrate        bool          `env:"POSTGRES_MIGRATE" env-default:"true"`

	// TraceLevel is the pgx tracelog level for executed queries.
	TraceLevel string `env:"POSTGRES_TRACE_LEVEL" env-default:"none"`
}

type JWTConfig struct {
	Issuer          string        `env:"JWT_ISSUER" env-default:"task-tracker"`
	SigningKey      string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TOKEN_TTL" env-default:"720h"`
}

type TasksConfig struct {
	// CreateRequiresMembership enforces the member rule on task creation,
	// which is otherwise open to any authenticated user.
	CreateRequiresMembership bool `env:"TASKS_CREATE_REQUIRES_MEMBERSHIP" env-default:"false"`
}
