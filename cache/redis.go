package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store for sharing a translation cache across
// processes. Expiry uses native Redis TTLs; the max-entry bound is left to
// the server's eviction policy (maxmemory-policy allkeys-lru behaves like the
// in-memory store).
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string

	mu      sync.Mutex
	enabled bool

	hits   atomic.Int64
	misses atomic.Int64
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string        // connection URL (e.g. "redis://localhost:6379")
	TTL       time.Duration // entry lifetime (0 = DefaultTTL)
	KeyPrefix string        // prefix for all keys (default: "lingotray:")
}

// NewRedisStore creates a Redis store and verifies connectivity.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewRedisStoreFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "lingotray:"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, keyPrefix: keyPrefix, enabled: true}
}

// Lookup fetches and refreshes the entry for (text, model). Connection
// errors are reported as misses.
func (s *RedisStore) Lookup(text, model string) (*Entry, bool) {
	if !s.Enabled() {
		return nil, false
	}

	ctx := context.Background()
	fullKey := s.keyPrefix + Key(text, model)

	val, err := s.client.Get(ctx, fullKey).Result()
	if err != nil {
		s.misses.Add(1)
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		s.misses.Add(1)
		return nil, false
	}

	// Recency refreshes push the native expiry forward, so age is checked
	// against CreatedAt: an entry older than the TTL is a miss even if Redis
	// still holds it.
	if time.Since(entry.CreatedAt) > s.ttl {
		_ = s.client.Del(ctx, fullKey).Err()
		s.misses.Add(1)
		return nil, false
	}

	// Refresh recency by extending the TTL.
	_ = s.client.Expire(ctx, fullKey, s.ttl).Err()
	s.hits.Add(1)
	return &entry, true
}

// Insert writes or overwrites the entry for (text, model).
func (s *RedisStore) Insert(text, model, translatedText string) error {
	if !s.Enabled() {
		return nil
	}

	key := Key(text, model)
	entry := Entry{
		Key:            key,
		SourcePreview:  SafePreview(text),
		TranslatedText: translatedText,
		Model:          model,
		CreatedAt:      time.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(context.Background(), s.keyPrefix+key, data, s.ttl).Err()
}

// Clear removes all entries under the store's key prefix.
func (s *RedisStore) Clear() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// SetEnabled toggles the store without touching stored entries.
func (s *RedisStore) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled reports whether the store is active.
func (s *RedisStore) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Len counts entries under the store's key prefix.
func (s *RedisStore) Len() int {
	ctx := context.Background()
	count := 0
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count
}

// Stats returns hit/miss counters and the current entry count.
func (s *RedisStore) Stats() Stats {
	return Stats{Entries: s.Len(), Hits: s.hits.Load(), Misses: s.misses.Load()}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	return s.client.Ping(context.Background()).Err()
}

// Verify RedisStore implements Store
var _ Store = (*RedisStore)(nil)
