package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nisimpson/dynaroute"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the hashes a Redis store writes.
const DefaultRedisPrefix = "dynaroute:"

// Redis keeps each collection in one hash, keyed by record id, with JSON
// encoded records as values.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ dynaroute.Store = (*Redis)(nil)

// RedisOptions configures a Redis store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Hash name prefix. Default is DefaultRedisPrefix.
}

// NewRedis connects to the server at opts.Addr and verifies it answers PING.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisFromClient(client, opts.Prefix), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) hash(collection string) string {
	return r.prefix + collection
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, collection, key string) (dynaroute.Record, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}

	raw, err := r.client.HGet(ctx, r.hash(collection), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(collection, key)
	}
	if err != nil {
		return nil, storeErr(dynaroute.StoreGet, collection, key, err)
	}

	rec, err := decode(raw)
	if err != nil {
		return nil, storeErr(dynaroute.StoreGet, collection, key, err)
	}
	return rec, nil
}

func (r *Redis) Put(ctx context.Context, collection string, rec dynaroute.Record) error {
	b, err := encode(collection, rec)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.hash(collection), rec.ID(), b).Err(); err != nil {
		return storeErr(dynaroute.StorePut, collection, rec.ID(), err)
	}
	return nil
}

func (r *Redis) Scan(ctx context.Context, collection string) ([]dynaroute.Record, error) {
	values, err := r.client.HVals(ctx, r.hash(collection)).Result()
	if err != nil {
		return nil, storeErr(dynaroute.StoreScan, collection, "", err)
	}

	records := make([]dynaroute.Record, 0, len(values))
	for _, v := range values {
		rec, err := decode([]byte(v))
		if err != nil {
			return nil, storeErr(dynaroute.StoreScan, collection, "", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *Redis) Delete(ctx context.Context, collection, key string) error {
	if err := requireKey(key); err != nil {
		return err
	}
	if err := r.client.HDel(ctx, r.hash(collection), key).Err(); err != nil {
		return storeErr(dynaroute.StoreDelete, collection, key, err)
	}
	return nil
}
