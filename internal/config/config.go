package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	Store StoreConfig
	Redis RedisConfig
	Auth  AuthConfig
}

type AppConfig struct {
	Env             string        `env:"APP_ENV" env-default:"local"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
}

type HTTPConfig struct {
	Port       int    `env:"HTTP_PORT" env-default:"3000"`
	CORSOrigin string `env:"CORS_ORIGIN" env-default:"http://localhost:3001"`
}

type StoreConfig struct {
	Driver         string        `env:"STORE_DRIVER" env-default:"sqlite"`
	SQLitePath     string        `env:"SQLITE_PATH" env-default:"tasks.db"`
	Debug          bool          `env:"DB_DEBUG" env-default:"false"`
	PostgresURL    string        `env:"DATABASE_URL"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

// RedisConfig configures the stats cache. An empty Addr disables it.
type RedisConfig struct {
	Addr   string        `env:"REDIS_ADDR"`
	Prefix string        `env:"STATS_CACHE_PREFIX" env-default:"stats:"`
	TTL    time.Duration `env:"STATS_CACHE_TTL" env-default:"1m"`
}

type AuthConfig struct {
	JWTSecret      string        `env:"JWT_SECRET" env-required:"true"`
	JWTIssuer      string        `env:"JWT_ISSUER" env-default:"task-tracker"`
	TokenTTL       time.Duration `env:"JWT_TOKEN_TTL" env-default:"1h"`
	CookieName     string        `env:"AUTH_COOKIE_NAME" env-default:"AUTH_TOKEN"`
	PasswordHasher string        `env:"PASSWORD_HASHER" env-default:"bcrypt"`
}

// Read loads the configuration from the environment (and a .env file, when
// present) and validates it.
func Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values cleanenv cannot check by itself.
func (c *Config) Validate() error {
	switch c.App.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.App.Env)
	}

	switch c.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}

	switch c.Auth.PasswordHasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		return fmt.Errorf("unknown password hasher: %s", c.Auth.PasswordHasher)
	}
	return nil
}

// SecureCookies reports whether auth cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.App.Env == EnvProd
}
