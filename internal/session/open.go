package session

import (
	"fmt"
	"log/slog"

	"login-flow/internal/cache"
	"login-flow/internal/config"
)

// RedisDialer 建立 Redis 連線，通常是 cache.NewRedisClient
type RedisDialer func(addr, password string, db int) (cache.Cache, error)

// Open 依設定建立 HTTPService；設定 REDIS_ADDR 時「記住我」的令牌存進 Redis
// 回傳的 closeFn 負責關閉 Redis 連線
func Open(cfg config.Config, logger *slog.Logger, dial RedisDialer) (svc *HTTPService, closeFn func() error, err error) {
	opts := []HTTPOption{
		WithSecret(cfg.JWTSecret),
		WithLogger(logger),
	}
	closeFn = func() error { return nil }
	if cfg.UseRedis() {
		rdb, err := dial(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connect: %w", err)
		}
		opts = append(opts, WithTokenStore(NewCacheStore(rdb), ""))
		closeFn = rdb.Close
	}
	return NewHTTPService(cfg.AuthAPIURL, opts...), closeFn, nil
}
