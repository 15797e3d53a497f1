package session

import (
	"context"
	"errors"
	"time"

	"login-flow/internal/cache"

	"github.com/redis/go-redis/v9"
)

// TokenStore 保存「記住我」的令牌，跨程序重啟仍可還原
type TokenStore interface {
	Save(ctx context.Context, key, token string, ttl time.Duration) error
	Load(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// CacheStore 以 cache.Cache（Redis）實作 TokenStore
type CacheStore struct {
	cache cache.Cache
}

// NewCacheStore 建立 CacheStore
func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

// Save 寫入令牌，ttl <= 0 表示不過期
func (s *CacheStore) Save(ctx context.Context, key, token string, ttl time.Duration) error {
	return s.cache.Set(ctx, key, token, ttl).Err()
}

// Load 讀取令牌，不存在時回傳空字串
func (s *CacheStore) Load(ctx context.Context, key string) (string, error) {
	tok, err := s.cache.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return tok, err
}

// Delete 刪除令牌，不存在也不算錯誤
func (s *CacheStore) Delete(ctx context.Context, key string) error {
	return s.cache.Del(ctx, key).Err()
}
