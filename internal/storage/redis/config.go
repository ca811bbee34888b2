package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings for different entity types. Match TTL is refreshed on
	// every update, so only abandoned matches expire.
	PlayerTTL time.Duration
	MatchTTL  time.Duration

	// MaxUpdateRetries bounds optimistic retries when a watched match
	// changes underneath an update
	MaxUpdateRetries int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:              "redis://localhost:6379",
		PoolSize:         10,
		MinIdleConns:     2,
		PlayerTTL:        24 * time.Hour,
		MatchTTL:         6 * time.Hour,
		MaxUpdateRetries: 10,
	}
}
