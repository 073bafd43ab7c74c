package frame

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps encoded frames in Redis so executors running in separate
// processes can hand frames to each other.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr   string
	DB     int
	Prefix string
	// TTL bounds how long a stored frame lives. Zero keeps frames forever.
	TTL time.Duration
}

// NewRedisStore connects a store to the server described by opts.
func NewRedisStore(opts RedisOptions) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: opts.Addr,
		DB:   opts.DB,
	})
	return NewRedisStoreWithClient(client, opts.Prefix, opts.TTL)
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "frames"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}
	return nil
}

// Fetch loads and decodes the frame stored under ref.
func (s *RedisStore) Fetch(ctx context.Context, ref string) (*Frame, error) {
	if ref == "" {
		return nil, nil
	}
	data, err := s.client.Get(ctx, ref).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch frame %s: %w", ref, err)
	}
	return Unmarshal(data)
}

// Put encodes f and stores it under a new reference.
func (s *RedisStore) Put(ctx context.Context, f *Frame, owner string) (string, error) {
	if f == nil {
		return "", nil
	}
	data, err := Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}

	ref := NewRef(s.prefix, owner)
	if err := s.client.Set(ctx, ref, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store frame: %w", err)
	}
	return ref, nil
}

// Evict deletes the frame stored under ref. Unknown references are ignored.
func (s *RedisStore) Evict(ctx context.Context, ref string) error {
	if err := s.client.Del(ctx, ref).Err(); err != nil {
		return fmt.Errorf("failed to evict frame %s: %w", ref, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var (
	_ Store   = (*RedisStore)(nil)
	_ Evicter = (*RedisStore)(nil)
)
