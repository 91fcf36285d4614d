package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/ticketcheater/pkg/jwtx"
)

type Config struct {
	AccessSigningKey  string        // Required outside dev: HMAC key for access tokens (>= 32 bytes)
	RefreshSigningKey string        // Required outside dev: HMAC key for refresh tokens, distinct from the access key
	AccessTokenTTL    time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL   time.Duration // Optional: refresh token lifetime (default: 14d)

	RedisAddr     string        // Optional: redis address (default: localhost:6379)
	RedisPassword string        // Optional: redis password
	RedisDB       int           // Optional: redis logical database (default: 0)
	CacheTimeout  time.Duration // Optional: per operation redis timeout (default: 2s)
	UserCacheTTL  time.Duration // Optional: lifetime of cached user records (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./ticketcheater.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	AdminUsername string // Optional: admin account created on startup when missing (default: admin)
	AdminPassword string // Optional: admin password; generated and logged once when empty

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the environment, after loading .env when one exists in
// the working directory. Variables already set in the environment win.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		AccessSigningKey:  os.Getenv("ACCESS_SIGNING_KEY"),
		RefreshSigningKey: os.Getenv("REFRESH_SIGNING_KEY"),
		AccessTokenTTL:    getEnvMillisOrDefault("ACCESS_TOKEN_TTL_MS", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:   getEnvMillisOrDefault("REFRESH_TOKEN_TTL_MS", jwtx.DefaultRefreshTokenTTL),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
		CacheTimeout:  getEnvDurationOrDefault("CACHE_TIMEOUT", 2*time.Second),
		UserCacheTTL:  getEnvDurationOrDefault("USER_CACHE_TTL", 24*time.Hour),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "ticketcheater.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),

		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
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

// getEnvMillisOrDefault reads a whole number of milliseconds.
func getEnvMillisOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
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

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
