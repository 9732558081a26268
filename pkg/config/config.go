// Package config loads candlecake settings from a TOML file.
//
// Every key is optional; missing keys keep the defaults of [Default].
// Command-line flags override file values.
//
//	[share]
//	origin = "https://cards.example"
//	path   = "/cake"
//
//	[server]
//	addr            = ":8080"
//	request_timeout = "10s"
//
//	[store]
//	backend = "redis"   # none, file, redis, mongo
//	ttl     = "720h"
//	[store.redis]
//	addr = "localhost:6379"
//
//	[blow]
//	threshold   = 0.25
//	probability = 0.5
//	interval    = "100ms"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/candlecake/pkg/blow"
	"github.com/matzehuels/candlecake/pkg/cache"
	"github.com/matzehuels/candlecake/pkg/errors"
	"github.com/matzehuels/candlecake/pkg/shortlink"
)

// AppName names the configuration and cache directories.
const AppName = "candlecake"

// Config is the complete set of settings.
type Config struct {
	Share  Share  `toml:"share"`
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
	Blow   Blow   `toml:"blow"`
}

// Share holds the parts of generated share links.
type Share struct {
	Origin string `toml:"origin"`
	Path   string `toml:"path"`
}

// Server configures the share service.
type Server struct {
	Addr           string        `toml:"addr"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// Store configures where short links are kept.
type Store struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Prefix  string        `toml:"prefix"`
	Redis   Redis         `toml:"redis"`
	Mongo   Mongo         `toml:"mongo"`
}

// Redis holds connection settings for the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Mongo holds connection settings for the mongo backend.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Blow configures blow detection.
type Blow struct {
	Threshold   float64       `toml:"threshold"`
	Probability float64       `toml:"probability"`
	Interval    time.Duration `toml:"interval"`
	Window      time.Duration `toml:"window"`
	Seed        uint64        `toml:"seed"` // 0 seeds from the clock
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Share: Share{
			Origin: "http://localhost:8080",
			Path:   "/cake",
		},
		Server: Server{
			Addr:           ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			RequestTimeout: 30 * time.Second,
		},
		Store: Store{
			Backend: cache.BackendFile,
			TTL:     shortlink.DefaultTTL,
		},
		Blow: Blow{
			Threshold:   blow.DefaultThreshold,
			Probability: blow.DefaultProbability,
			Interval:    100 * time.Millisecond,
			Window:      blow.DefaultWindow,
		},
	}
}

// Load reads the file at path over the defaults.
//
// An empty path means [DefaultPath]; a missing default file is not an
// error. An explicitly named file must exist. Unknown keys are rejected so
// that typos do not pass silently.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if err := errors.ValidateOrigin(c.Share.Origin); err != nil {
		return err
	}
	if err := errors.ValidatePath(c.Share.Path); err != nil {
		return err
	}
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if c.Blow.Interval < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "blow interval cannot be negative")
	}
	if c.Blow.Window < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "blow window cannot be negative")
	}
	switch c.Store.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "store ttl cannot be negative")
	}
	return nil
}

// Policy returns the blow policy described by the [blow] section.
func (c *Config) Policy() blow.Policy {
	return blow.Policy{Threshold: c.Blow.Threshold, Probability: c.Blow.Probability}
}

// CacheOptions returns the backend options described by the [store]
// section. The file backend defaults to [DefaultStoreDir].
func (c *Config) CacheOptions() (cache.Options, error) {
	opts := cache.Options{
		Backend:         c.Store.Backend,
		Dir:             c.Store.Dir,
		RedisAddr:       c.Store.Redis.Addr,
		RedisPassword:   c.Store.Redis.Password,
		RedisDB:         c.Store.Redis.DB,
		MongoURI:        c.Store.Mongo.URI,
		MongoDatabase:   c.Store.Mongo.Database,
		MongoCollection: c.Store.Mongo.Collection,
	}
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		dir, err := DefaultStoreDir()
		if err != nil {
			return opts, err
		}
		opts.Dir = dir
	}
	return opts, nil
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/candlecake/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// DefaultStoreDir returns the file backend directory using the XDG
// standard (~/.cache/candlecake/links).
func DefaultStoreDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName, "links"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName, "links"), nil
}
