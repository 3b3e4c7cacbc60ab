package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
// PublicBaseURL, when set, is used to build public object URLs instead of presigned ones.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// RedisConfig holds the settings of the Redis instance backing the document cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	JWTSecret string
}

// LoaderConfig tunes document loading: the per-attempt timeout, the inner retry
// schedule, the outer reload loop and cache freshness.
type LoaderConfig struct {
	FetchTimeout   time.Duration
	MaxAttempts    int
	RetryStep      time.Duration
	ReloadDelay    time.Duration
	MaxReloads     int
	CacheFreshness time.Duration
}

// RateLimitConfig configures the per-client limiter applied to mutating routes.
type RateLimitConfig struct {
	PerSecond float64
	Burst     int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Timezone  string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Loader    LoaderConfig
	RateLimit RateLimitConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "documents"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Key:      getEnv("REDIS_CACHE_KEY", "cached_documents"),
			TTL:      getEnvDuration("REDIS_CACHE_TTL", 24*time.Hour),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Loader: LoaderConfig{
			FetchTimeout:   getEnvDuration("LOADER_FETCH_TIMEOUT", 15*time.Second),
			MaxAttempts:    getEnvInt("LOADER_MAX_ATTEMPTS", 3),
			RetryStep:      getEnvDuration("LOADER_RETRY_STEP", time.Second),
			ReloadDelay:    getEnvDuration("LOADER_RELOAD_DELAY", 5*time.Second),
			MaxReloads:     getEnvInt("LOADER_MAX_RELOADS", 3),
			CacheFreshness: getEnvDuration("LOADER_CACHE_FRESHNESS", 30*time.Minute),
		},
		RateLimit: RateLimitConfig{
			PerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 2),
			Burst:     getEnvInt("RATE_LIMIT_BURST", 5),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
