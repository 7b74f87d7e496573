package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedTokenPrefix = "token:revoked:"

// TokenRepository 在 Redis 中记录已注销令牌的 JTI, 过期时间与令牌一致
type TokenRepository struct {
	Redis *redis.Client
}

func NewTokenRepository(rdb *redis.Client) *TokenRepository {
	return &TokenRepository{Redis: rdb}
}

func (r *TokenRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.Redis.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err()
}

func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.Redis.Exists(ctx, revokedTokenPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
