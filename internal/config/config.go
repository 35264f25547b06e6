package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "dev-secret"

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// RedisConfig points the redis session store at a server.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinIOConfig configures the object store used for client documents.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CalendlyConfig holds the calendar provider credentials.
type CalendlyConfig struct {
	APIToken string
	BaseURL  string
}

// AdminSeed describes an administrator account created at startup when all fields are set.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether every seed field is present.
func (a AdminSeed) Enabled() bool {
	return a.Username != "" && a.Email != "" && a.Password != ""
}

// Config aggregates application-wide configuration values.
type Config struct {
	Env                  string
	LogLevel             string
	DatabaseURL          string
	JWTSecret            string
	Port                 string
	TokenTTL             time.Duration
	SessionTTL           time.Duration
	SessionStore         string
	SessionPruneSchedule string
	CookieSecure         bool
	Redis                RedisConfig
	FileStore            string
	UploadDir            string
	MinIO                MinIOConfig
	Calendly             CalendlyConfig
	RateLimitSubmit      RateLimitConfig
	Admin                AdminSeed
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            getEnv("JWT_SECRET", defaultJWTSecret),
		Port:                 getEnv("PORT", "8080"),
		TokenTTL:             parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		SessionTTL:           parseDuration(getEnv("SESSION_TTL", "168h"), 7*24*time.Hour),
		SessionStore:         strings.ToLower(getEnv("SESSION_STORE", "auto")),
		SessionPruneSchedule: getEnv("SESSION_PRUNE_SCHEDULE", "@daily"),
		CookieSecure:         parseBool(getEnv("COOKIE_SECURE", "false")),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       parseInt(getEnv("REDIS_DB", "0")),
		},
		FileStore: strings.ToLower(getEnv("FILE_STORE", "disk")),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "client-documents"),
			UseSSL:    parseBool(getEnv("MINIO_USE_SSL", "false")),
		},
		Calendly: CalendlyConfig{
			APIToken: os.Getenv("CALENDLY_API_TOKEN"),
			BaseURL:  strings.TrimRight(getEnv("CALENDLY_BASE_URL", "https://api.calendly.com"), "/"),
		},
		Admin: AdminSeed{
			Username: os.Getenv("ADMIN_USERNAME"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SUBMIT", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SUBMIT value: %w", err)
	}
	cfg.RateLimitSubmit = rl

	switch cfg.SessionStore {
	case "auto", "postgres", "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE value: %q", cfg.SessionStore)
	}
	switch cfg.FileStore {
	case "disk", "minio":
	default:
		return nil, fmt.Errorf("invalid FILE_STORE value: %q", cfg.FileStore)
	}
	if cfg.SessionStore == "postgres" && cfg.DatabaseURL == "" {
		return nil, errors.New("SESSION_STORE=postgres requires DATABASE_URL")
	}
	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return nil, errors.New("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(input string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && b
}

func parseInt(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0
	}
	return n
}
