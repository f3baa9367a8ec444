package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timeout is the per-call deadline for storage operations.
func (c PostgresConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(c.StorageTimeout))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid STORAGE_TIMEOUT %q", c.StorageTimeout)
	}
	return d, nil
}

func (c RedisConfig) DBIndex() (int, error) {
	db, err := strconv.Atoi(strings.TrimSpace(c.DB))
	if err != nil || db < 0 {
		return 0, fmt.Errorf("invalid REDIS_DB %q", c.DB)
	}
	return db, nil
}

func (c ServerConfig) RateLimit() (float64, int, error) {
	rps, err := strconv.ParseFloat(strings.TrimSpace(c.RateLimitRPS), 64)
	if err != nil || rps <= 0 {
		return 0, 0, fmt.Errorf("invalid AUTH_RATE_LIMIT_RPS %q", c.RateLimitRPS)
	}
	burst, err := strconv.Atoi(strings.TrimSpace(c.RateLimitBurst))
	if err != nil || burst <= 0 {
		return 0, 0, fmt.Errorf("invalid AUTH_RATE_LIMIT_BURST %q", c.RateLimitBurst)
	}
	return rps, burst, nil
}

func (c ServerConfig) CredentialsAllowed() (bool, error) {
	allowed, err := strconv.ParseBool(strings.TrimSpace(c.AllowCredentials))
	if err != nil {
		return false, fmt.Errorf("invalid CORS_ALLOW_CREDENTIALS %q", c.AllowCredentials)
	}
	return allowed, nil
}

// Sizes returns the default and maximum page size. The default never exceeds
// the maximum.
func (c PaginationConfig) Sizes() (int, int, error) {
	def, err := strconv.Atoi(strings.TrimSpace(c.DefaultSize))
	if err != nil || def < 1 {
		return 0, 0, fmt.Errorf("invalid PAGE_SIZE_DEFAULT %q", c.DefaultSize)
	}
	maxSize, err := strconv.Atoi(strings.TrimSpace(c.MaxSize))
	if err != nil || maxSize < 1 {
		return 0, 0, fmt.Errorf("invalid PAGE_SIZE_MAX %q", c.MaxSize)
	}
	if def > maxSize {
		def = maxSize
	}
	return def, maxSize, nil
}
