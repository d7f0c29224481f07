package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	commoncfg "lifeband-data/common/config"

	"gopkg.in/yaml.v3"
)

// Placeholder values shipped in client templates. A backend configured with
// any of these is treated as not configured.
const (
	PlaceholderBackendURL = "https://your-project.supabase.co"
	PlaceholderAnonKey    = "your-anon-key"
)

// Config lifeband-data (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Backend BackendConfig `yaml:"backend"`

	// DBEnabled routes all repositories to a direct Postgres connection.
	DBEnabled bool                     `yaml:"db_enabled"`
	Database  commoncfg.DatabaseConfig `yaml:"database"`

	Store StoreConfig           `yaml:"store"`
	Redis commoncfg.RedisConfig `yaml:"redis"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	// PublicHost host part of https://<host>/p/<qr_token>.
	PublicHost string `yaml:"public_host"`
}

// BackendConfig hosted backend (REST, auth, functions).
type BackendConfig struct {
	URL       string `yaml:"url"`
	AnonKey   string `yaml:"anon_key"`
	JWTSecret string `yaml:"jwt_secret"`
}

// StoreConfig durable store behind the local fallback.
type StoreConfig struct {
	Driver string `yaml:"driver"` // leveldb | redis | memory
	Path   string `yaml:"path"`   // leveldb directory
}

// IsBackendConfigured reports whether a remote backend is usable: both values
// present and neither still holding a template placeholder.
func IsBackendConfigured(url, anonKey string) bool {
	url = strings.TrimSpace(url)
	anonKey = strings.TrimSpace(anonKey)
	if url == "" || anonKey == "" {
		return false
	}
	if strings.TrimRight(url, "/") == PlaceholderBackendURL || anonKey == PlaceholderAnonKey {
		return false
	}
	return true
}

// BackendConfigured evaluated on every call; no caching.
func (c *Config) BackendConfigured() bool {
	return IsBackendConfigured(c.Backend.URL, c.Backend.AnonKey)
}

// Load builds the config from defaults, then the optional YAML file named by
// LIFEBAND_CONFIG, then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("LIFEBAND_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnv()
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"
	cfg.Backend.URL = PlaceholderBackendURL
	cfg.Backend.AnonKey = PlaceholderAnonKey
	cfg.Backend.JWTSecret = "lifeband-local-dev-secret"
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "lifeband",
		SSLMode:  "disable",
	}
	cfg.Store.Driver = "leveldb"
	cfg.Store.Path = "./data/lifeband"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.PublicHost = "api.lifeband.app"
	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)

	// Client builds use the EXPO_PUBLIC_ names; accept both.
	c.Backend.URL = getEnv("SUPABASE_URL", getEnv("EXPO_PUBLIC_SUPABASE_URL", c.Backend.URL))
	c.Backend.AnonKey = getEnv("SUPABASE_ANON_KEY", getEnv("EXPO_PUBLIC_SUPABASE_ANON_KEY", c.Backend.AnonKey))
	c.Backend.JWTSecret = getEnv("SUPABASE_JWT_SECRET", c.Backend.JWTSecret)

	c.DBEnabled = getEnv("DB_ENABLED", strconv.FormatBool(c.DBEnabled)) == "true"
	c.Database.LoadFromEnv("DB")

	c.Store.Driver = getEnv("LOCAL_STORE", c.Store.Driver)
	c.Store.Path = getEnv("LOCAL_STORE_PATH", c.Store.Path)
	c.Redis.LoadFromEnv("REDIS")

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.PublicHost = getEnv("PUBLIC_HOST", c.PublicHost)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
