package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a namespace and a host or URL
func CacheKey(namespace, s string) string {
	hash := sha256.Sum256([]byte(s))
	return "vitalstats:" + namespace + ":v1:" + hex.EncodeToString(hash[:])
}
