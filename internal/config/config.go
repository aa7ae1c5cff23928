package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Upstream  UpstreamConfig
	Directory DirectoryConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// UpstreamConfig holds base URLs and timeouts for external collaborators.
// Base URLs are never hard-coded in the client packages.
type UpstreamConfig struct {
	IdentityBaseURL      string
	FileServiceBaseURL   string
	CallTimeoutSeconds   int
	UploadTimeoutSeconds int
}

// DirectoryConfig bounds the name-resolution cache.
type DirectoryConfig struct {
	MaxEntries int
	TTLSeconds int
	UseRedis   bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Upstream: UpstreamConfig{
			IdentityBaseURL:      getEnv("IDENTITY_SERVICE_URL", "http://localhost:8001"),
			FileServiceBaseURL:   getEnv("FILE_SERVICE_URL", "http://localhost:8002"),
			CallTimeoutSeconds:   getEnvAsInt("UPSTREAM_CALL_TIMEOUT_SECONDS", 5),
			UploadTimeoutSeconds: getEnvAsInt("UPSTREAM_UPLOAD_TIMEOUT_SECONDS", 30),
		},
		Directory: DirectoryConfig{
			MaxEntries: getEnvAsInt("DIRECTORY_CACHE_MAX_ENTRIES", 4096),
			TTLSeconds: getEnvAsInt("DIRECTORY_CACHE_TTL_SECONDS", 3600),
			UseRedis:   getEnvAsBool("DIRECTORY_CACHE_USE_REDIS", true),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CallTimeout returns the per-call upstream timeout.
func (u UpstreamConfig) CallTimeout() time.Duration {
	if u.CallTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(u.CallTimeoutSeconds) * time.Second
}

// UploadTimeout returns the blob upload timeout.
func (u UpstreamConfig) UploadTimeout() time.Duration {
	if u.UploadTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(u.UploadTimeoutSeconds) * time.Second
}

// TTL returns the directory cache expiry.
func (d DirectoryConfig) TTL() time.Duration {
	if d.TTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(d.TTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
