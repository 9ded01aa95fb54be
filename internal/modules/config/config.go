package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"

	ProviderYahoo = "yahoo"
	ProviderHTTP  = "http"
)

// Config ...
type Config struct {
	Telegram struct {
		Token string `yaml:"token"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Name     string `yaml:"name"`
		HTTPAddr string `yaml:"http_addr"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`

	Store struct {
		Driver   string `yaml:"driver"` // memory | file | postgres
		Path     string `yaml:"path"`   // для file
		MaxConns int32  `yaml:"max_conns"`
		// Стартовый набор для memory-хранилища
		Seed []string `yaml:"seed"`
	} `yaml:"store"`

	Provider struct {
		Name    string        `yaml:"name"` // yahoo | http
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"provider"`

	Watchlist struct {
		MaxConcurrency int           `yaml:"max_concurrency"`
		LookupTimeout  time.Duration `yaml:"lookup_timeout"`
		ValidateOnAdd  bool          `yaml:"validate_on_add"`
		SyncOnStart    bool          `yaml:"sync_on_start"`
	} `yaml:"watchlist"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`
}

// Default значения до чтения файла
func Default() *Config {
	cfg := &Config{}
	cfg.Service.Name = "stock_watch"
	cfg.Service.HTTPAddr = ":8080"
	cfg.Service.LogLevel = "info"
	cfg.Store.Driver = StoreMemory
	cfg.Store.Path = "data/watchlist.json"
	cfg.Provider.Name = ProviderYahoo
	cfg.Provider.Timeout = 10 * time.Second
	cfg.Watchlist.MaxConcurrency = 8
	cfg.Watchlist.LookupTimeout = 15 * time.Second
	cfg.Watchlist.SyncOnStart = true
	cfg.Tracing.Host = "localhost"
	cfg.Tracing.Port = 6831
	return cfg
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	dir := getenvDefault(configDirENV, "configs")

	cfg, err := Load(filepath.Join(dir, configFileName))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load читает yaml поверх дефолтов, затем применяет env.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// без файла работаем на дефолтах и env
	default:
		return nil, fmt.Errorf("open config file %s: %w", path, err)
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if token := os.Getenv(tokenTelegramENV); token != "" {
		c.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		c.DB = dsn
	}

	c.Service.HTTPAddr = getenvDefault("HTTP_ADDR", c.Service.HTTPAddr)
	c.Service.LogLevel = getenvDefault("LOG_LEVEL", c.Service.LogLevel)

	c.Store.Driver = getenvDefault("STORE_DRIVER", c.Store.Driver)
	c.Store.Path = getenvDefault("STORE_PATH", c.Store.Path)

	c.Provider.Name = getenvDefault("PROVIDER", c.Provider.Name)
	c.Provider.BaseURL = getenvDefault("PROVIDER_URL", c.Provider.BaseURL)

	c.Watchlist.MaxConcurrency = intFromEnv("SYNC_CONCURRENCY", c.Watchlist.MaxConcurrency)
	c.Watchlist.LookupTimeout = durationFromEnv("LOOKUP_TIMEOUT", c.Watchlist.LookupTimeout)
	c.Watchlist.ValidateOnAdd = boolFromEnv("VALIDATE_ON_ADD", c.Watchlist.ValidateOnAdd)

	c.Tracing.Host = getenvDefault("JAEGER_HOST", c.Tracing.Host)
	c.Tracing.Port = intFromEnv("JAEGER_PORT", c.Tracing.Port)
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StoreFile:
	case StorePostgres:
		if c.DB == "" {
			return fmt.Errorf("store driver %q requires db_dsn or %s", StorePostgres, databaseDSN)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Provider.Name {
	case ProviderYahoo:
	case ProviderHTTP:
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider %q requires base_url", ProviderHTTP)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider.Name)
	}

	if c.Watchlist.MaxConcurrency < 0 {
		return fmt.Errorf("watchlist.max_concurrency must be >= 0")
	}
	return nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
