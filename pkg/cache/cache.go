// Package cache provides byte-oriented key/value storage with expiration.
//
// The share service keeps short links here. Backends:
//   - [NullCache]: stores nothing (short links disabled)
//   - [FileCache]: JSON files under a directory, for the CLI and single hosts
//   - [RedisCache]: Redis, for several service instances
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// [Open] selects a backend by name from [Options].
package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Cache stores opaque values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds the keys values are stored under.
type Keyer interface {
	// LinkKey returns the key of the token behind a short link id.
	LinkKey(id string) string
}

// DefaultKeyer namespaces keys by value type.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LinkKey returns "link:<id>".
func (DefaultKeyer) LinkKey(id string) string {
	return "link:" + id
}

// Options selects and configures a backend.
type Options struct {
	Backend string // none, file, redis or mongo

	Dir string // file

	RedisAddr     string // redis
	RedisPassword string
	RedisDB       int

	MongoURI        string // mongo
	MongoDatabase   string
	MongoCollection string
}

// Open creates the backend named by opts.Backend. An empty name means none.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: directory required")
		}
		fc, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		return NewRedisCache(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
	case BackendMongo:
		return NewMongoCache(ctx, MongoOptions{
			URI:        opts.MongoURI,
			Database:   opts.MongoDatabase,
			Collection: opts.MongoCollection,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q (must be none, file, redis or mongo)", opts.Backend)
	}
}
