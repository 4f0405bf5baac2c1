// Package config loads grimorio settings from ~/.grimorio/config.toml, an
// optional .env file and GRIMORIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Cache    CacheConfig    `toml:"cache"`
	Admin    AdminConfig    `toml:"admin"`
	Client   ClientConfig   `toml:"client"`
	App      AppConfig      `toml:"app"`
}

// ServerConfig contains API server settings.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RateLimit      float64  `toml:"rate_limit"` // requests per second per client, 0 = off
	RateBurst      int      `toml:"rate_burst"`
	RequestTimeout string   `toml:"request_timeout"` // e.g. "30s"
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // empty = ~/.grimorio/grimorio.db
}

// CatalogConfig contains seed and listing settings.
type CatalogConfig struct {
	SeedPath string `toml:"seed_path"` // empty = embedded seed
	Watch    bool   `toml:"watch"`     // re-import when the seed file changes
	Debounce string `toml:"debounce"`
	PageSize int    `toml:"page_size"`
}

// CacheConfig contains the optional Redis response cache settings.
type CacheConfig struct {
	Enabled   bool   `toml:"enabled"`
	RedisAddr string `toml:"redis_addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	TTL       string `toml:"ttl"`
	Prefix    string `toml:"prefix"`
}

// AdminConfig contains the admin route credentials.
type AdminConfig struct {
	TokenHash string `toml:"token_hash"` // argon2id PHC string, see `grimorio hash-token`
}

// ClientConfig contains front end settings.
type ClientConfig struct {
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
	Language string `toml:"language"` // initial language, pt or en
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool   `toml:"debug_mode"`
	LogFile   string `toml:"log_file"` // TUI log destination when debugging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
			RateLimit:      20,
			RateBurst:      40,
			RequestTimeout: "30s",
		},
		Catalog: CatalogConfig{
			Watch:    true,
			Debounce: "250ms",
			PageSize: 20,
		},
		Cache: CacheConfig{
			Enabled:   false,
			RedisAddr: "localhost:6379",
			TTL:       "10m",
			Prefix:    "grimorio:",
		},
		Client: ClientConfig{
			BaseURL:  "http://localhost:8080",
			Timeout:  "10s",
			Language: "pt",
		},
		App: AppConfig{
			LogFile: "grimorio-debug.log",
		},
	}
}

// Dir returns the grimorio data directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".grimorio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return dir, nil
}

// Path returns the path to the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default path, then applies .env and
// environment overrides.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration at path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDotEnv loads variables from the given files, or ./.env when none are
// given. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from GRIMORIO_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("GRIMORIO_HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := os.LookupEnv("GRIMORIO_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GRIMORIO_PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv("GRIMORIO_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("GRIMORIO_DB_PATH"); ok {
		c.Database.Path = v
	}
	if v, ok := os.LookupEnv("GRIMORIO_SEED_PATH"); ok {
		c.Catalog.SeedPath = v
	}
	if v, ok := os.LookupEnv("GRIMORIO_REDIS_ADDR"); ok {
		c.Cache.RedisAddr = v
		c.Cache.Enabled = v != ""
	}
	if v, ok := os.LookupEnv("GRIMORIO_REDIS_PASSWORD"); ok {
		c.Cache.Password = v
	}
	if v, ok := os.LookupEnv("GRIMORIO_ADMIN_TOKEN_HASH"); ok {
		c.Admin.TokenHash = v
	}
	if v, ok := os.LookupEnv("GRIMORIO_API_URL"); ok {
		c.Client.BaseURL = v
	}
	if v, ok := os.LookupEnv("GRIMORIO_LANG"); ok {
		c.Client.Language = v
	}
	if v, ok := os.LookupEnv("GRIMORIO_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid GRIMORIO_DEBUG %q: %w", v, err)
		}
		c.App.DebugMode = debug
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration as TOML to path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %v", c.Server.RateLimit)
	}
	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > 100 {
		return fmt.Errorf("page size must be between 1 and 100: %d", c.Catalog.PageSize)
	}

	durations := map[string]string{
		"request timeout":  c.Server.RequestTimeout,
		"watcher debounce": c.Catalog.Debounce,
		"cache TTL":        c.Cache.TTL,
		"client timeout":   c.Client.Timeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}

	if c.Cache.Enabled && c.Cache.RedisAddr == "" {
		return errors.New("cache is enabled but redis_addr is empty")
	}

	switch c.Client.Language {
	case "pt", "en":
	default:
		return fmt.Errorf("invalid language %q: want pt or en", c.Client.Language)
	}

	return nil
}

// DatabasePath returns the configured database path or the default one.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "grimorio.db"), nil
}

// GetRequestTimeout returns the request timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// GetDebounce returns the watcher debounce as a duration.
func (c *Config) GetDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Catalog.Debounce)
}

// GetCacheTTL returns the cache TTL as a duration.
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// GetClientTimeout returns the client timeout as a duration.
func (c *Config) GetClientTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Client.Timeout)
}
