package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Auth     AuthConfig     `yaml:"auth"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
	Client   ClientConfig   `yaml:"client"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // SQLite database file path
}

// HTTPConfig contains the REST API and navigation front settings.
type HTTPConfig struct {
	Address string `yaml:"address"` // e.g. ":8080"
	Mode    string `yaml:"mode"`    // gin mode: debug | release | test
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string `yaml:"address"` // gRPC server listen address (e.g., ":50051")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// SessionConfig configures the cookie session of the navigation front.
type SessionConfig struct {
	Secret     string `yaml:"secret"`
	CookieName string `yaml:"cookie_name"`
	MaxAge     int    `yaml:"max_age"` // seconds
}

// LoggingConfig selects the zap preset and level.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | console
}

// ClientConfig is read by otctl.
type ClientConfig struct {
	BaseURL     string `yaml:"base_url"`
	GRPCAddress string `yaml:"grpc_address"`
	Transport   string `yaml:"transport"` // http | grpc
	PageSize    int    `yaml:"page_size"`
	SessionFile string `yaml:"session_file"`
}

// Load loads configuration from an optional .env file, an optional YAML file
// named by CONFIG_FILE and environment variables, in that order of precedence
// (environment wins). JWT_SECRET must be set.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses safe defaults for the secrets in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

// LoadFile reads a YAML config file and applies defaults and environment
// overrides on top of it.
func LoadFile(path string) (*Config, error) {
	cfg := defaults("")
	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(devSecret string) (*Config, error) {
	// A missing .env is the normal case outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := defaults(devSecret)
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := readYAML(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults(devSecret string) *Config {
	return &Config{
		Database: DatabaseConfig{Path: "app.db"},
		HTTP:     HTTPConfig{Address: ":8080", Mode: "release"},
		GRPC:     GRPCConfig{Address: ":50051"},
		Auth:     AuthConfig{JWTSecret: devSecret, TokenTTL: 12 * time.Hour},
		Session:  SessionConfig{Secret: devSecret, CookieName: "ot-session", MaxAge: 86400},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			BaseURL:     "http://localhost:8080",
			GRPCAddress: "localhost:50051",
			Transport:   "http",
			PageSize:    10,
		},
	}
}

func readYAML(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.HTTP.Address = getEnv("HTTP_ADDRESS", c.HTTP.Address)
	c.HTTP.Mode = getEnv("GIN_MODE", c.HTTP.Mode)
	c.GRPC.Address = getEnv("GRPC_ADDRESS", c.GRPC.Address)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Session.Secret = getEnv("SESSION_SECRET", c.Session.Secret)
	if c.Session.Secret == "" {
		c.Session.Secret = c.Auth.JWTSecret
	}
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)
	c.Client.BaseURL = getEnv("API_URL", c.Client.BaseURL)
	c.Client.GRPCAddress = getEnv("API_GRPC_ADDRESS", c.Client.GRPCAddress)
	c.Client.Transport = getEnv("API_TRANSPORT", c.Client.Transport)
	c.Client.SessionFile = getEnv("OTCTL_SESSION", c.Client.SessionFile)

	size, err := getEnvInt("PAGE_SIZE", c.Client.PageSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", size)
	}
	c.Client.PageSize = size

	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration for TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = ttl
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, Log: %s/%s, Auth: *** (masked) ***}",
		c.Database.Path, c.HTTP.Address, c.GRPC.Address, c.Logging.Format, c.Logging.Level)
}
