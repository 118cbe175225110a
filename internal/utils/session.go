package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding for cached payloads
	"time"          // TTLs

	"github.com/redis/go-redis/v9" // Redis client
)

// revokedPrefix namespaces denylisted token IDs in Redis
const revokedPrefix = "session:revoked:"

// RevokeToken denylists a token ID until its natural expiry. After the TTL
// runs out the token is expired anyway, so the key can disappear.
func RevokeToken(ctx context.Context, rdb *redis.Client, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token already expired, nothing to revoke
	}
	return rdb.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err() // Mark the token revoked
}

// IsTokenRevoked reports whether a token ID has been denylisted
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, tokenID string) (bool, error) {
	_, err := rdb.Get(ctx, revokedPrefix+tokenID).Result() // Look up the denylist key
	if err == redis.Nil {
		return false, nil // Key absent, token still live
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, nil // Key present, token revoked
}

// GetCachedJSON retrieves a cached value from Redis and unmarshals it into
// dest. Only non-ledger data (the admin user directory) is ever cached;
// ledger reads always go to storage.
func GetCachedJSON(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCachedJSON caches a value in Redis with a TTL
func SetCachedJSON(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}
