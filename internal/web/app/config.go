package app

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Token store drivers selectable with TOKEN_STORE.
const (
	TokenStoreMemory = "memory"
	TokenStoreSQLite = "sqlite"
	TokenStoreRedis  = "redis"
)

type Config struct {
	APIBaseURL string        // Marketplace API base URL (default: http://localhost:8080/api/v1)
	APITimeout time.Duration // Per-request API timeout (default: 10s)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 3000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	SessionIdleTTL       time.Duration // Idle browser sessions are dropped after this (default: 24h)
	SessionSweepInterval time.Duration // How often idle sessions are swept (default: 10m)
	SessionCookieSecure  bool          // Mark the session cookie Secure (default: true outside dev)

	TokenStore        string // Token store driver: memory, sqlite, redis (default: memory)
	TokenDatabaseFile string // SQLite file for the sqlite driver (default: petsit.db)
	RedisAddr         string // Redis address for the redis driver (default: localhost:6379)
	RedisUsername     string // Optional
	RedisPassword     string // Optional
	RedisDB           int    // Redis database number (default: 0)
	TokenSealKey      string // Optional: key material sealing persisted tokens
	TokenSealKeyPath  string // Optional: file holding the seal key, wins over TokenSealKey

	RoutesFile string // Optional: route table overriding the built-in one
	AssetsDir  string // Optional: directory served under /assets/
}

// LoadConfig reads the environment, after loading .env when one exists.
// The returned error only reports a malformed .env file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	env := getEnvOrDefault("ENV", "dev")

	cfg := Config{
		APIBaseURL: getEnvOrDefault("PETSIT_API_BASE_URL", "http://localhost:8080/api/v1"),
		APITimeout: getEnvDurationOrDefault("PETSIT_API_TIMEOUT", 10*time.Second),

		Env:                 env,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		SessionIdleTTL:       getEnvDurationOrDefault("SESSION_IDLE_TTL", 24*time.Hour),
		SessionSweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		SessionCookieSecure:  getEnvBoolOrDefault("SESSION_COOKIE_SECURE", env != "dev"),

		TokenStore:        strings.ToLower(getEnvOrDefault("TOKEN_STORE", TokenStoreMemory)),
		TokenDatabaseFile: getEnvOrDefault("TOKEN_DATABASE_FILE", "petsit.db"),
		RedisAddr:         getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisUsername:     os.Getenv("REDIS_USERNAME"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvIntOrDefault("REDIS_DB", 0),
		TokenSealKey:      os.Getenv("TOKEN_SEAL_KEY"),
		TokenSealKeyPath:  os.Getenv("TOKEN_SEAL_KEY_PATH"),

		RoutesFile: os.Getenv("ROUTES_FILE"),
		AssetsDir:  os.Getenv("ASSETS_DIR"),
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
