package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_API_URL", "http://auth")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LOGIN_TIMEOUT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("LISTEN_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Config{
		AuthAPIURL:   "http://auth",
		LoginTimeout: 15 * time.Second,
		WorkerCount:  1,
		ListenAddr:   ":8080",
	}, cfg)
	require.False(t, cfg.UseRedis())
}

func TestLoadAll(t *testing.T) {
	t.Setenv("AUTH_API_URL", "http://auth")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOGIN_TIMEOUT", "3s")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []byte("s3cret"), cfg.JWTSecret)
	require.Equal(t, 3*time.Second, cfg.LoginTimeout)
	require.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, "pw", cfg.RedisPassword)
	require.Equal(t, 4, cfg.WorkerCount)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.True(t, cfg.UseRedis())
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("AUTH_API_URL", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("AUTH_API_URL", "http://auth")
	t.Setenv("LOGIN_TIMEOUT", "soon")
	_, err = Load()
	require.Error(t, err)
	t.Setenv("LOGIN_TIMEOUT", "-1s")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("LOGIN_TIMEOUT", "")
	t.Setenv("REDIS_DB", "bad")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("REDIS_DB", "")
	t.Setenv("WORKER_COUNT", "0")
	_, err = Load()
	require.Error(t, err)
	t.Setenv("WORKER_COUNT", "x")
	_, err = Load()
	require.Error(t, err)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("LOGIN_FLOW_TEST_KEY", "")
	require.Equal(t, "d", GetEnvOrDefault("LOGIN_FLOW_TEST_KEY", "d"))
	t.Setenv("LOGIN_FLOW_TEST_KEY", "v")
	require.Equal(t, "v", GetEnvOrDefault("LOGIN_FLOW_TEST_KEY", "v"))
}
