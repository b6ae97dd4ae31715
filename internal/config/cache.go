package config

import "time"

// CacheConfig controls the Redis response cache applied to the list
// endpoints. When Enabled is false or no Redis client could be
// connected, caching is skipped entirely. Lists are re-fetched after
// every mutation anyway, so a short TTL keeps staleness bounded.
type CacheConfig struct {
	Enabled      bool   `env:"CACHE_ENABLED, default=false"`
	TTLSeconds   int    `env:"CACHE_TTL_SEC, default=30"`
	Prefix       string `env:"CACHE_PREFIX,  default=useradmin"`
	MaxBodyBytes int    `env:"CACHE_MAX_BODY_BYTES, default=1048576"`
}

// TTL returns the configured entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
