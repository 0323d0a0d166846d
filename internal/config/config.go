package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port string

	// DatabaseURL is empty when the in-memory store should be used.
	DatabaseURL string

	JWTSecret      string
	JWTExpiryHours int64

	SheetsAPIURL    string
	SheetsTimeout   time.Duration
	SyncInterval    time.Duration
	SyncMaxAttempts int

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ReportCacheTTL time.Duration

	RabbitMQURL string

	PricingFile       string
	Timezone          string
	SeedAdminPassword string

	CorsAllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "3000"),
		DatabaseURL:        databaseURL(),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpiryHours:     getEnvInt64("JWT_EXPIRY_HOURS", 24),
		SheetsAPIURL:       getEnv("SHEETS_API_URL", ""),
		SheetsTimeout:      getEnvDuration("SHEETS_TIMEOUT", 15*time.Second),
		SyncInterval:       getEnvDuration("SYNC_INTERVAL", time.Minute),
		SyncMaxAttempts:    int(getEnvInt64("SYNC_MAX_ATTEMPTS", 10)),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            int(getEnvInt64("REDIS_DB", 0)),
		ReportCacheTTL:     getEnvDuration("REPORT_CACHE_TTL", 30*time.Second),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		PricingFile:        getEnv("PRICING_FILE", ""),
		Timezone:           getEnv("TIMEZONE", "Asia/Ho_Chi_Minh"),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	if cfg.JWTExpiryHours <= 0 {
		cfg.JWTExpiryHours = 24
	}
	if cfg.SyncMaxAttempts <= 0 {
		cfg.SyncMaxAttempts = 10
	}
	return cfg
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects configurations that must not run in production.
func (c Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when APP_ENV=production")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the business time zone, falling back to UTC+7.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from DB_* variables.
func databaseURL() string {
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	host := getEnv("DB_HOST", "")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host,
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", ""),
		getEnv("DB_NAME", "babyboss"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_SSLMODE", "disable"),
		getEnv("TIMEZONE", "Asia/Ho_Chi_Minh"),
	)
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
