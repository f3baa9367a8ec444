package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("CREDENTIAL_STORE", "")
	t.Setenv("PAGE_SIZE_MAX", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := Load()

	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, "15m", cfg.Auth.AccessTTL)
	require.Equal(t, "postgres", cfg.Auth.CredentialBack)
	require.Equal(t, "50", cfg.Pagination.MaxSize)
	require.Nil(t, cfg.Server.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("CREDENTIAL_STORE", "redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test ")

	cfg := Load()

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "access", cfg.Auth.AccessSecret)
	require.Equal(t, "refresh", cfg.Auth.RefreshSecret)
	require.Equal(t, "redis", cfg.Auth.CredentialBack)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestParsedValues(t *testing.T) {
	timeout, err := PostgresConfig{StorageTimeout: "750ms"}.Timeout()
	require.NoError(t, err)
	require.Equal(t, 750*time.Millisecond, timeout)

	_, err = PostgresConfig{StorageTimeout: "0s"}.Timeout()
	require.Error(t, err)

	rps, burst, err := ServerConfig{RateLimitRPS: "2.5", RateLimitBurst: "4"}.RateLimit()
	require.NoError(t, err)
	require.Equal(t, 2.5, rps)
	require.Equal(t, 4, burst)

	_, _, err = ServerConfig{RateLimitRPS: "fast", RateLimitBurst: "4"}.RateLimit()
	require.Error(t, err)

	allowed, err := ServerConfig{AllowCredentials: "true"}.CredentialsAllowed()
	require.NoError(t, err)
	require.True(t, allowed)

	db, err := RedisConfig{DB: "3"}.DBIndex()
	require.NoError(t, err)
	require.Equal(t, 3, db)

	def, max, err := PaginationConfig{DefaultSize: "80", MaxSize: "50"}.Sizes()
	require.NoError(t, err)
	require.Equal(t, 50, def)
	require.Equal(t, 50, max)

	_, _, err = PaginationConfig{DefaultSize: "0", MaxSize: "50"}.Sizes()
	require.Error(t, err)
}
