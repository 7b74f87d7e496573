package memory

import (
	"context"
	"time"
)

type TokenRepository struct {
	db *DB
}

func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	now := time.Now()
	for k, exp := range r.db.revoked {
		if now.After(exp) {
			delete(r.db.revoked, k)
		}
	}
	r.db.revoked[jti] = now.Add(ttl)
	return nil
}

func (r *TokenRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	exp, ok := r.db.revoked[jti]
	return ok && time.Now().Before(exp), nil
}
