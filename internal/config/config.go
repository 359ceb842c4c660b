// Package config loads the server configuration.
//
// Values are resolved in increasing precedence: built-in defaults, an
// optional YAML file named by CONFIG_FILE, a .env file, and the process
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MinSecretLength is the shortest JWT secret accepted outside development.
const MinSecretLength = 32

// Config represents the application configuration.
type Config struct {
	Env    string       `yaml:"app_env"`
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
	Paging PagingConfig `yaml:"paging"`
}

// ServerConfig holds the listener and database settings.
type ServerConfig struct {
	Port   int    `yaml:"port"`
	DBPath string `yaml:"db_path"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
}

// LogConfig selects the log level and output format (text or json).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PagingConfig bounds the page sizes accepted by paginated RPCs.
type PagingConfig struct {
	DefaultSize int `yaml:"default_size"`
	MaxSize     int `yaml:"max_size"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:   8080,
			DBPath: "./data/splitpal.db",
		},
		Auth: AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 720 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Paging: PagingConfig{
			DefaultSize: 20,
			MaxSize:     100,
		},
	}
}

// Load builds the configuration. An explicit .env path must exist; without
// one, a .env in the working directory is loaded if present.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the server runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Validate reports every missing or malformed value at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Server.Port))
	}
	if c.Server.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	switch {
	case c.Auth.JWTSecret == "" && !c.IsDevelopment():
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < MinSecretLength && !c.IsDevelopment():
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must exceed ACCESS_TOKEN_TTL"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}
	if c.Paging.DefaultSize < 1 {
		errs = append(errs, errors.New("DEFAULT_PAGE_SIZE must be positive"))
	}
	if c.Paging.MaxSize < c.Paging.DefaultSize {
		errs = append(errs, errors.New("MAX_PAGE_SIZE must be at least DEFAULT_PAGE_SIZE"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Env = getEnvOrDefault("APP_ENV", c.Env)
	c.Server.DBPath = getEnvOrDefault("DB_PATH", c.Server.DBPath)
	c.Auth.JWTSecret = getEnvOrDefault("JWT_SECRET", c.Auth.JWTSecret)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)

	var err error
	if c.Server.Port, err = parseIntEnv("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Paging.DefaultSize, err = parseIntEnv("DEFAULT_PAGE_SIZE", c.Paging.DefaultSize); err != nil {
		return err
	}
	if c.Paging.MaxSize, err = parseIntEnv("MAX_PAGE_SIZE", c.Paging.MaxSize); err != nil {
		return err
	}
	if c.Auth.AccessTokenTTL, err = parseDurationEnv("ACCESS_TOKEN_TTL", c.Auth.AccessTokenTTL); err != nil {
		return err
	}
	if c.Auth.RefreshTokenTTL, err = parseDurationEnv("REFRESH_TOKEN_TTL", c.Auth.RefreshTokenTTL); err != nil {
		return err
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}
	return parsed, nil
}
