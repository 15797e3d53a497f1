// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultLoginTimeout = 15 * time.Second
	defaultListenAddr   = ":8080"
)

// Config 兩個執行檔共用的環境設定
type Config struct {
	AuthAPIURL   string
	JWTSecret    []byte
	LoginTimeout time.Duration

	// RedisAddr 為空時記住我的 token 只保存在記憶體
	RedisAddr     string
	RedisDB       int
	RedisPassword string

	WorkerCount int
	ListenAddr  string
}

// UseRedis 是否設定了 Redis
func (c Config) UseRedis() bool { return c.RedisAddr != "" }

// GetEnvOrDefault 取得環境變數，不存在時回傳預設值
func GetEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// Load 從環境變數讀取設定
func Load() (Config, error) {
	cfg := Config{
		AuthAPIURL:    os.Getenv("AUTH_API_URL"),
		LoginTimeout:  defaultLoginTimeout,
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		WorkerCount:   1,
		ListenAddr:    GetEnvOrDefault("LISTEN_ADDR", defaultListenAddr),
	}
	if cfg.AuthAPIURL == "" {
		return Config{}, fmt.Errorf("環境變數 AUTH_API_URL 未設定")
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		cfg.JWTSecret = []byte(s)
	}

	if v := os.Getenv("LOGIN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("無效的 LOGIN_TIMEOUT: %q", v)
		}
		cfg.LoginTimeout = d
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		idx, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("無效的 REDIS_DB: %v", err)
		}
		cfg.RedisDB = idx
	}

	if v := os.Getenv("WORKER_COUNT"); v != "" {
		c, err := strconv.Atoi(v)
		if err != nil || c <= 0 {
			return Config{}, fmt.Errorf("無效的 WORKER_COUNT: %q", v)
		}
		cfg.WorkerCount = c
	}
	return cfg, nil
}
