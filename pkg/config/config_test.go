package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/candlecake/pkg/blow"
	"github.com/matzehuels/candlecake/pkg/cache"
	"github.com/matzehuels/candlecake/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if got := Default().Policy(); got != blow.DefaultPolicy() {
		t.Errorf("Default().Policy() = %+v, want %+v", got, blow.DefaultPolicy())
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[share]
origin = "https://cards.example"
path = "/birthday"

[server]
addr = ":9090"
request_timeout = "5s"

[store]
backend = "redis"
ttl = "48h"
prefix = "cards:"
[store.redis]
addr = "redis:6379"
db = 2

[blow]
threshold = 0.35
probability = 0.5
interval = "250ms"
seed = 42
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Share.Origin != "https://cards.example" || cfg.Share.Path != "/birthday" {
		t.Errorf("Share = %+v", cfg.Share)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want default 10s", cfg.Server.ReadTimeout)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.TTL != 48*time.Hour || cfg.Store.Redis.DB != 2 {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if got := cfg.Policy(); got != (blow.Policy{Threshold: 0.35, Probability: 0.5}) {
		t.Errorf("Policy() = %+v", got)
	}
	if cfg.Blow.Interval != 250*time.Millisecond || cfg.Blow.Seed != 42 {
		t.Errorf("Blow = %+v", cfg.Blow)
	}

	opts, err := cfg.CacheOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Backend != cache.BackendRedis || opts.RedisAddr != "redis:6379" || opts.RedisDB != 2 {
		t.Errorf("CacheOptions() = %+v", opts)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Error("missing default file should yield defaults")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load of a missing explicit file should fail")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[share\norigin = 1", "read config"},
		{"unknown key", "[share]\ncolour = \"red\"", "unknown keys: share.colour"},
		{"bad origin", "[share]\norigin = \"ftp://x\"", "origin"},
		{"bad path", "[share]\npath = \"cake\"", "path"},
		{"bad threshold", "[blow]\nthreshold = 2.0", "threshold"},
		{"negative interval", "[blow]\ninterval = \"-1s\"", "interval"},
		{"negative window", "[blow]\nwindow = \"-1ms\"", "window"},
		{"bad backend", "[store]\nbackend = \"memcached\"", "backend"},
		{"negative ttl", "[store]\nttl = \"-1h\"", "ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadInvalidPolicyCode(t *testing.T) {
	_, err := Load(writeConfig(t, "[blow]\nprobability = 0.0"))
	if !errors.Is(err, errors.ErrCodeInvalidPolicy) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPolicy)
	}
}

func TestCacheOptionsFileDefaultDir(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	opts, err := Default().CacheOptions()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(cacheHome, AppName, "links")
	if opts.Dir != want {
		t.Errorf("Dir = %q, want %q", opts.Dir, want)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg-config", AppName, "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	got, err = DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", AppName, "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
