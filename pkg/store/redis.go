package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/seqline/pkg/diagram"
	"github.com/matzehuels/seqline/pkg/observability"
)

// Default Redis settings.
const (
	// DefaultRedisPrefix namespaces document keys.
	DefaultRedisPrefix = "seqline:doc:"

	// DefaultRedisTimeout bounds the startup ping.
	DefaultRedisTimeout = 5 * time.Second
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string

	// Password is the optional Redis password.
	Password string

	// DB selects the Redis database number.
	DB int

	// Prefix namespaces document keys. Defaults to DefaultRedisPrefix.
	Prefix string

	// TTL expires documents after inactivity. Zero means no expiration.
	TTL time.Duration
}

// Redis is a Redis-backed document store for multi-instance deployments.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store and verifies connectivity.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultRedisPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, DefaultRedisTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Redis{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}, nil
}

func (r *Redis) key(id string) string { return r.prefix + id }

func (r *Redis) Get(ctx context.Context, id string) (*diagram.Document, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.Store().OnLoad(ctx, "redis", id, false)
		return nil, nil
	}
	if err != nil {
		observability.Store().OnError(ctx, "redis", "get", err)
		return nil, fmt.Errorf("redis get: %w", err)
	}

	d, err := diagram.UnmarshalDocument(data)
	if err != nil {
		observability.Store().OnError(ctx, "redis", "get", err)
		return nil, fmt.Errorf("parse document %s: %w", id, err)
	}
	observability.Store().OnLoad(ctx, "redis", id, true)
	return d, nil
}

func (r *Redis) Put(ctx context.Context, d *diagram.Document) error {
	if d.ID == "" {
		return ErrMissingID
	}
	data, err := diagram.MarshalDocument(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := r.client.Set(ctx, r.key(d.ID), data, r.ttl).Err(); err != nil {
		observability.Store().OnError(ctx, "redis", "put", err)
		return fmt.Errorf("redis set: %w", err)
	}
	observability.Store().OnSave(ctx, "redis", d.ID, len(data))
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		observability.Store().OnError(ctx, "redis", "delete", err)
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(r.prefix):])
	}
	if err := iter.Err(); err != nil {
		observability.Store().OnError(ctx, "redis", "list", err)
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return ids, nil
}

func (r *Redis) Close() error { return r.client.Close() }

var _ Store = (*Redis)(nil)
