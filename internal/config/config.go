package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the backend base URL baked in at build time:
//
//	go build -ldflags "-X github.com/existflow/folio/internal/config.DefaultAPIURL=https://api.example.com/api"
var DefaultAPIURL = "http://localhost:5050/api"

// Token store backends
const (
	TokenStoreFile   = "file"
	TokenStoreSQLite = "sqlite"
)

// Config holds user preferences
type Config struct {
	APIURL        string        `yaml:"api_url" json:"api_url"`             // Backend base URL
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`             // Per-request timeout
	TokenStore    string        `yaml:"token_store" json:"token_store"`     // file or sqlite
	ConfirmDelete bool          `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// RefreshInterval is how often the TUI reloads projects; 0 disables it
	RefreshInterval time.Duration `yaml:"refresh_interval" json:"refresh_interval"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns ~/.folio, where config, session and logs live
func Dir() (string, error) {
	if dir := os.Getenv("FOLIO_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".folio"), nil
}

// DefaultConfig returns default settings with environment overrides applied
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "folio.log")
	}

	cfg := &Config{
		APIURL:        DefaultAPIURL,
		Timeout:       30 * time.Second,
		TokenStore:    TokenStoreFile,
		ConfirmDelete: true,
		LogLevel:      "INFO",
		LogFile:       logPath,
		LogConsole:    false,

		RefreshInterval: time.Minute,
	}
	return cfg
}

// applyEnv overrides c from FOLIO_* environment variables
func (c *Config) applyEnv() {
	c.APIURL = getEnv("FOLIO_API_URL", c.APIURL)
	c.TokenStore = getEnv("FOLIO_TOKEN_STORE", c.TokenStore)
	c.LogLevel = getEnv("FOLIO_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("FOLIO_LOG_FILE", c.LogFile)
	if v := os.Getenv("FOLIO_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true" || v == "1"
	}
	if v := os.Getenv("FOLIO_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("FOLIO_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RefreshInterval = d
		}
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Path returns the config file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads ~/.folio/config.yaml. Precedence, lowest first: defaults,
// config file, .env file, process environment.
func Load() (*Config, error) {
	// .env never overrides variables already set in the environment
	_ = godotenv.Load()

	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid api_url %q: must start with http:// or https://", c.APIURL)
	}
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreSQLite:
	default:
		return fmt.Errorf("invalid token_store %q: want %q or %q", c.TokenStore, TokenStoreFile, TokenStoreSQLite)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("invalid refresh_interval %s", c.RefreshInterval)
	}
	return nil
}

// Save saves config to ~/.folio/config.yaml
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
