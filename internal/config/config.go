package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage kinds accepted by SESSION_STORAGE.
const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// DefaultTokenKey is the durable key holding the session token.
const DefaultTokenKey = "auth_token"

// Config aggregates runtime configuration for the web client.
type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Session  SessionConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CSRFTokenMinutes      int
	SecureCookies         bool
}

// BackendConfig points at the FoodDash REST API.
type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig selects where the session token is persisted.
type SessionConfig struct {
	Storage  string
	FilePath string
	TokenKey string
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

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	storage := strings.ToLower(getEnv("SESSION_STORAGE", StorageFile))
	switch storage {
	case StorageFile, StorageRedis, StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("invalid SESSION_STORAGE: %q", storage)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "fooddash"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "5173"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CSRFTokenMinutes:      getEnvAsInt("CSRF_TOKEN_MINUTES", 120),
			SecureCookies:         getEnvAsBool("COOKIE_SECURE", false),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://127.0.0.1:3000"), "/"),
			TimeoutSeconds: getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 10),
		},
		Session: SessionConfig{
			Storage:  storage,
			FilePath: getEnv("SESSION_FILE_PATH", ".fooddash/session.json"),
			TokenKey: getEnv("SESSION_TOKEN_KEY", DefaultTokenKey),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
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

// CSRFTokenTTL returns how long an issued form token stays valid.
func (a AppConfig) CSRFTokenTTL() time.Duration {
	return time.Duration(a.CSRFTokenMinutes) * time.Minute
}

// Timeout returns the per-call timeout for backend requests.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
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
