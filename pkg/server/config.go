package server

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/plotcraft/pkg/cache"
)

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config configures the HTTP server.
type Config struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" validate:"gt=0"`

	// Strict rejects attributes the catalogue does not know.
	Strict bool `yaml:"strict"`

	// PlotlyURL overrides the plotly.js bundle of served pages.
	PlotlyURL string `yaml:"plotly_url" validate:"omitempty,url"`

	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string `yaml:"backend" validate:"oneof=none file redis mongo"`

	// Prefix scopes every key, for deployments sharing one store.
	Prefix string `yaml:"prefix"`

	Dir             string `yaml:"dir" validate:"required_if=Backend file"`
	RedisURL        string `yaml:"redis_url" validate:"required_if=Backend redis"`
	MongoURI        string `yaml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	cfg := Config{}
	ApplyDefaults(&cfg)
	return cfg
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 120 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 8 << 20
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = BackendNone
	}
	if cfg.Cache.MongoDatabase == "" {
		cfg.Cache.MongoDatabase = "plotcraft"
	}
	if cfg.Cache.MongoCollection == "" {
		cfg.Cache.MongoCollection = "cache"
	}
}

var configValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration.
func (c *Config) Validate() error {
	return configValidate.Struct(c)
}

// LoadConfig reads a YAML configuration file and applies defaults. An empty
// path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads the file (or the defaults) and applies
// PLOTCRAFT_* environment overrides. Environment variables take precedence.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	str := func(name string, dst *string) {
		if val := os.Getenv(name); val != "" {
			*dst = val
		}
	}
	dur := func(name string, dst *time.Duration) {
		if val := os.Getenv(name); val != "" {
			if d, err := time.ParseDuration(val); err == nil {
				*dst = d
			}
		}
	}

	str("PLOTCRAFT_ADDR", &cfg.Addr)
	dur("PLOTCRAFT_READ_TIMEOUT", &cfg.ReadTimeout)
	dur("PLOTCRAFT_WRITE_TIMEOUT", &cfg.WriteTimeout)
	dur("PLOTCRAFT_IDLE_TIMEOUT", &cfg.IdleTimeout)
	dur("PLOTCRAFT_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	if val := os.Getenv("PLOTCRAFT_MAX_BODY_BYTES"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.MaxBodyBytes = n
		}
	}
	if val := os.Getenv("PLOTCRAFT_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Strict = b
		}
	}
	str("PLOTCRAFT_PLOTLY_URL", &cfg.PlotlyURL)

	str("PLOTCRAFT_CACHE_BACKEND", &cfg.Cache.Backend)
	str("PLOTCRAFT_CACHE_PREFIX", &cfg.Cache.Prefix)
	str("PLOTCRAFT_CACHE_DIR", &cfg.Cache.Dir)
	str("PLOTCRAFT_REDIS_URL", &cfg.Cache.RedisURL)
	str("PLOTCRAFT_MONGO_URI", &cfg.Cache.MongoURI)
	str("PLOTCRAFT_MONGO_DATABASE", &cfg.Cache.MongoDatabase)
	str("PLOTCRAFT_MONGO_COLLECTION", &cfg.Cache.MongoCollection)
}

// Open connects the configured cache backend and returns it with the keyer
// for its prefix.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if c.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Prefix)
	}

	var (
		store cache.Cache
		err   error
	)
	switch c.Backend {
	case BackendNone, "":
		store = cache.NewNullCache()
	case BackendFile:
		store, err = cache.NewFileCache(c.Dir)
	case BackendRedis:
		store, err = cache.NewRedisCache(ctx, c.RedisURL)
	case BackendMongo:
		store, err = cache.NewMongoCache(ctx, c.MongoURI, c.MongoDatabase, c.MongoCollection)
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s cache: %w", c.Backend, err)
	}
	return store, keyer, nil
}
