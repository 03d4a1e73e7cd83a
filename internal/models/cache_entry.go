package models

import "time"

// CacheEntry is a row in the durable cache tier. Values are stored as raw
// JSON so the table stays schema-free for whatever callers put in it.
type CacheEntry struct {
	Key       string    `gorm:"type:text;primary_key" json:"key"`
	Value     []byte    `gorm:"type:jsonb;not null" json:"value"`
	ExpiresAt time.Time `gorm:"type:timestamp;not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}
