package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"talentrank/candidate-ranker/internal/models"
)

// ErrCacheMiss distinguishes "no usable entry" from a tier failure. Callers
// fall through to the in-process tier in both cases but only the latter is
// worth logging.
var ErrCacheMiss = errors.New("cache entry not found")

// ErrCacheUnavailable is returned when the durable tier has no working
// database handle at all.
var ErrCacheUnavailable = errors.New("durable cache tier unavailable")

type CacheRepository interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	DeleteExpired() (int64, error)
}

type cacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository wraps a gorm handle as a KV cache store. A nil handle is
// allowed and makes every operation report ErrCacheUnavailable, which keeps
// the tiered cache code free of startup-failure special cases.
func NewCacheRepository(db *gorm.DB) CacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) Get(key string) ([]byte, error) {
	if r.db == nil {
		return nil, ErrCacheUnavailable
	}

	var entry models.CacheEntry
	if err := r.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if time.Now().After(entry.ExpiresAt) {
		// Best effort: a failed delete just leaves the row for DeleteExpired.
		r.db.Where("key = ?", key).Delete(&models.CacheEntry{})
		return nil, ErrCacheMiss
	}

	return entry.Value, nil
}

func (r *cacheRepository) Set(key string, value []byte, ttl time.Duration) error {
	if r.db == nil {
		return ErrCacheUnavailable
	}

	entry := models.CacheEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
		UpdatedAt: time.Now(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

func (r *cacheRepository) DeleteExpired() (int64, error) {
	if r.db == nil {
		return 0, ErrCacheUnavailable
	}

	result := r.db.Where("expires_at < ?", time.Now()).Delete(&models.CacheEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired cache entries: %w", result.Error)
	}

	return result.RowsAffected, nil
}
