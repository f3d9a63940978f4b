package common

import (
	"github.com/cpenseur/CSIT314-Null/internal/config"
)

// NewCache builds the cache backend named by the configuration:
// "redis" for the shared store, anything else for in-memory.
func NewCache(cfg *config.Config) (CacheInterface, error) {
	if cfg.Cache.Backend == "redis" {
		return NewRedisCacheService(cfg.Redis)
	}
	return NewCacheService(cfg.Cache.TTLMinutes*60, cfg.Cache.CleanupMinutes*60), nil
}
