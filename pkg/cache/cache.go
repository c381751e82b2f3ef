package cache

import "time"

// Cache defines the interface for read-side caching. Implementations treat
// a missing key as ("", nil), not an error.
type Cache interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error
}
