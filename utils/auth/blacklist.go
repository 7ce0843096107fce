package auth

import (
	"context"
	"time"

	"github.com/sahilchouksey/online-courses-api/model"
	"github.com/sahilchouksey/online-courses-api/utils/cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const revokedKeyPrefix = "jwt:revoked:"

// BlacklistService handles JWT token revocation. Revocations are stored in the
// database and mirrored in Redis when a cache is available.
type BlacklistService struct {
	db    *gorm.DB
	cache *cache.RedisCache
	now   func() time.Time
}

// NewBlacklistService creates a new blacklist service. redisCache may be nil.
func NewBlacklistService(db *gorm.DB, redisCache *cache.RedisCache) *BlacklistService {
	return &BlacklistService{db: db, cache: redisCache, now: time.Now}
}

// RevokeToken adds a token to the blacklist until expiresAt
func (s *BlacklistService) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time, reason string) error {
	entry := model.JWTTokenBlacklist{
		JTI:       jti,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return err
	}

	if s.cache != nil {
		if ttl := expiresAt.Sub(s.now()); ttl > 0 {
			// the database row is authoritative, a cache miss only costs a query
			_ = s.cache.Set(ctx, revokedKeyPrefix+jti, reason, ttl)
		}
	}
	return nil
}

// IsTokenRevoked checks if a token is in the blacklist
func (s *BlacklistService) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if s.cache != nil {
		if found, err := s.cache.Exists(ctx, revokedKeyPrefix+jti); err == nil && found {
			return true, nil
		}
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.JWTTokenBlacklist{}).
		Where("jti = ? AND expires_at > ?", jti, s.now()).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// CleanupExpiredTokens removes expired entries from the blacklist
func (s *BlacklistService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", s.now()).
		Delete(&model.JWTTokenBlacklist{})
	return result.RowsAffected, result.Error
}
