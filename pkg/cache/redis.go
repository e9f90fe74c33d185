package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultAddress     = "localhost:6379"
	defaultDialTimeout = 5 * time.Second
)

// Cache is a JSON value store on top of redis. A missing key surfaces as redis.Nil.
type Cache struct {
	client    *redis.Client
	keyPrefix string
}

type Options struct {
	Address     string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

type Option func(*Options)

func WithAddress(addr string) Option {
	return func(o *Options) { o.Address = addr }
}

func WithPassword(pass string) Option {
	return func(o *Options) { o.Password = pass }
}

func WithDB(db int) Option {
	return func(o *Options) { o.DB = db }
}

// WithKeyPrefix namespaces every key, e.g. "dealer-risk:".
func WithKeyPrefix(prefix string) Option {
	return func(o *Options) { o.KeyPrefix = prefix }
}

// WithDialTimeout bounds connection setup, including the startup ping.
func WithDialTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.DialTimeout = d
		}
	}
}

// New connects and pings; an unreachable server is a startup error rather than a silent miss.
func New(ctx context.Context, opts ...Option) (*Cache, error) {
	o := Options{Address: defaultAddress, DialTimeout: defaultDialTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        o.Address,
		Password:    o.Password,
		DB:          o.DB,
		DialTimeout: o.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, o.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", o.Address, err)
	}

	return &Cache{client: client, keyPrefix: o.KeyPrefix}, nil
}

func (c *Cache) key(k string) string {
	return c.keyPrefix + k
}

// Get decodes the value stored under key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode cached %q: %w", key, err)
	}
	return nil
}

// Set stores value as JSON. A zero expiration keeps the key until evicted.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q for cache: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key), raw, expiration).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
