package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	API          APIConfig          `mapstructure:"api"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Engine       EngineConfig       `mapstructure:"engine"`
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`
	Tracking     TrackingConfig     `mapstructure:"tracking"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// APIConfig describes the backend REST service.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryLimit    int           `mapstructure:"retry_limit"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	RetryStatuses []int         `mapstructure:"retry_statuses"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type EngineConfig struct {
	// SeedPath points at a SQL file loaded into the engine at start-up.
	// Empty means the built-in movies dataset.
	SeedPath    string        `mapstructure:"seed_path"`
	InitTimeout time.Duration `mapstructure:"init_timeout"`
}

type ConnectivityConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type TrackingConfig struct {
	DSN         string  `mapstructure:"dsn"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Environment string  `mapstructure:"environment"`
	Insecure    bool    `mapstructure:"insecure"`
}

func (c TrackingConfig) Enabled() bool {
	return c.DSN != ""
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Pretty  bool   `mapstructure:"pretty"`
	NoColor bool   `mapstructure:"no_color"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.RetryLimit < 0 {
		return fmt.Errorf("api.retry_limit must not be negative, got %d", c.API.RetryLimit)
	}
	if c.Tracking.SampleRate < 0 || c.Tracking.SampleRate > 1 {
		return fmt.Errorf("tracking.sample_rate must be within [0,1], got %v", c.Tracking.SampleRate)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1:5173")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("api.base_url", "http://localhost:8000/api/v1/")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.retry_limit", 2)
	v.SetDefault("api.retry_delay", "300ms")
	v.SetDefault("api.retry_statuses", []int{408, 413, 429, 500, 502, 503, 504})

	v.SetDefault("storage.path", "data/local_storage.db")

	v.SetDefault("engine.seed_path", "")
	v.SetDefault("engine.init_timeout", "30s")

	v.SetDefault("connectivity.debounce", "500ms")

	v.SetDefault("tracking.dsn", "")
	v.SetDefault("tracking.sample_rate", 1.0)
	v.SetDefault("tracking.environment", "development")
	v.SetDefault("tracking.insecure", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", true)
	v.SetDefault("logging.no_color", false)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"})
	v.SetDefault("cors.exposed_headers", []string{"Link"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 300)
}
