package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"login-flow/internal/cache"
	"login-flow/internal/worker"
)

func restoreGlobals() {
	newRedisClient = cache.NewRedisClient
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	newWorkerPool = worker.NewPool
	newRegistry = prometheus.NewRegistry
	exitFunc = func(code int) {}
}

func setEnv(t *testing.T, redisAddr string) {
	t.Setenv("AUTH_API_URL", "http://auth.local")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LOGIN_TIMEOUT", "")
	t.Setenv("REDIS_ADDR", redisAddr)
	t.Setenv("REDIS_DB", "1")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("LISTEN_ADDR", ":9999")
}

func missingToken(context.Context, string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func TestRunSuccess(t *testing.T) {
	t.Cleanup(restoreGlobals)
	called := make(map[string]bool)
	newRedisClient = func(addr, pwd string, db int) (cache.Cache, error) {
		called["redis"] = true
		require.Equal(t, "127", addr)
		require.Equal(t, "pw", pwd)
		require.Equal(t, 1, db)
		return &cache.FakeCache{
			GetFn: func(ctx context.Context, key string) *redis.StringCmd {
				called["restore"] = true
				return missingToken(ctx, key)
			},
			CloseFn: func() error { called["redisClose"] = true; return nil },
		}, nil
	}
	newWorkerPool = func(n int) worker.Pool {
		require.Equal(t, 2, n)
		called["pool"] = true
		return worker.NewPool(n)
	}
	startServer = func(e *echo.Echo, addr string) error {
		called["start"] = true
		require.Equal(t, ":9999", addr)

		req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"phase":"idle"`)

		req = httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Login Flow API")
		return nil
	}

	setEnv(t, "127")
	require.NoError(t, run())
	require.True(t, called["redis"])
	require.True(t, called["restore"])
	require.True(t, called["pool"])
	require.True(t, called["start"])
	require.True(t, called["redisClose"])
}

func TestRunWithoutRedis(t *testing.T) {
	t.Cleanup(restoreGlobals)
	newRedisClient = func(string, string, int) (cache.Cache, error) {
		t.Fatal("redis should not be used")
		return nil, nil
	}
	startServer = func(*echo.Echo, string) error { return nil }
	setEnv(t, "")
	require.NoError(t, run())
}

func TestRunErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)
	setEnv(t, "addr")

	t.Setenv("AUTH_API_URL", "")
	require.Error(t, run())
	t.Setenv("AUTH_API_URL", "http://auth.local")

	t.Setenv("REDIS_DB", "bad")
	require.Error(t, run())
	t.Setenv("REDIS_DB", "0")

	newRedisClient = func(string, string, int) (cache.Cache, error) { return nil, errors.New("redis") }
	require.Error(t, run())

	// 還原失敗只記錄，不中止
	newRedisClient = func(string, string, int) (cache.Cache, error) {
		return &cache.FakeCache{GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("down"))
		}}, nil
	}
	startServer = func(*echo.Echo, string) error { return errors.New("start") }
	require.Error(t, run())
}

func TestMainFunction(t *testing.T) {
	t.Cleanup(restoreGlobals)
	startServer = func(*echo.Echo, string) error { return nil }
	setEnv(t, "")
	main()
}

func TestMainExit(t *testing.T) {
	t.Cleanup(restoreGlobals)
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	t.Setenv("AUTH_API_URL", "")
	main()
	require.Equal(t, 1, exitCode)
}
