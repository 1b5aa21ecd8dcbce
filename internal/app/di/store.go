// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"nexus_backend/internal/platform/kvstore"
)

// storePrefix はRedis利用時にコレクションキーへ付与される名前空間です。
const storePrefix = "nexus"

// NewStore creates a kvstore.Store implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the relational database.
func NewStore(rdb *redis.Client, db *gorm.DB) kvstore.Store {
	if rdb != nil {
		return kvstore.NewRedisStore(rdb, storePrefix)
	}
	return kvstore.NewGormStore(db)
}
