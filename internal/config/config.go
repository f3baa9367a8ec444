package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Pagination PaginationConfig
}

type ServerConfig struct {
	Port             string
	GinMode          string
	AllowedOrigins   []string
	AllowCredentials string
	RateLimitRPS     string
	RateLimitBurst   string
}

type LogConfig struct {
	Level string
}

type PostgresConfig struct {
	DatabaseURL    string
	Host           string
	Port           string
	User           string
	Password       string
	Database       string
	SSLMode        string
	StorageTimeout string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       string
}

type AuthConfig struct {
	AccessSecret   string
	AccessTTL      string
	RefreshSecret  string
	RefreshTTL     string
	Issuer         string
	CredentialBack string
	AllowSignup    string
	CookieSecure   string
	CookieSameSite string
	CookieDomain   string
	CookiePath     string
}

type PaginationConfig struct {
	DefaultSize string
	MaxSize     string
}

// Load reads the process environment. A .env file in the working directory is
// merged first when present; real environment variables take precedence.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Port:             getenv("PORT", "8000"),
			GinMode:          getenv("GIN_MODE", "release"),
			AllowedOrigins:   splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
			AllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "true"),
			RateLimitRPS:     getenv("AUTH_RATE_LIMIT_RPS", "5"),
			RateLimitBurst:   getenv("AUTH_RATE_LIMIT_BURST", "10"),
		},
		Log: LogConfig{
			Level: getenv("LOG_LEVEL", "info"),
		},
		Postgres: PostgresConfig{
			DatabaseURL:    os.Getenv("DATABASE_URL"),
			Host:           getenv("PGHOST", "localhost"),
			Port:           getenv("PGPORT", "5432"),
			User:           os.Getenv("PGUSER"),
			Password:       os.Getenv("PGPASSWORD"),
			Database:       os.Getenv("PGDATABASE"),
			SSLMode:        getenv("PGSSLMODE", "disable"),
			StorageTimeout: getenv("STORAGE_TIMEOUT", "5s"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenv("REDIS_DB", "0"),
		},
		Auth: AuthConfig{
			AccessSecret:   os.Getenv("ACCESS_TOKEN_SECRET"),
			AccessTTL:      getenv("ACCESS_TOKEN_TTL", "15m"),
			RefreshSecret:  os.Getenv("REFRESH_TOKEN_SECRET"),
			RefreshTTL:     getenv("REFRESH_TOKEN_TTL", "240h"),
			Issuer:         getenv("JWT_ISSUER", "vidtube"),
			CredentialBack: getenv("CREDENTIAL_STORE", "postgres"),
			AllowSignup:    getenv("ALLOW_SIGNUP", "true"),
			CookieSecure:   os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite: os.Getenv("AUTH_COOKIE_SAMESITE"),
			CookieDomain:   os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookiePath:     os.Getenv("AUTH_COOKIE_PATH"),
		},
		Pagination: PaginationConfig{
			DefaultSize: getenv("PAGE_SIZE_DEFAULT", "10"),
			MaxSize:     getenv("PAGE_SIZE_MAX", "50"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
