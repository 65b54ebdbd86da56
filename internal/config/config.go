package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the gateway
type Config struct {
	Server ServerConfig `yaml:"server"`
	API    APIConfig    `yaml:"api"`
	Data   DataConfig   `yaml:"data"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds the local HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host" envconfig:"GALLERY_HOST"`
	Port int    `yaml:"port" envconfig:"GALLERY_PORT"`
}

// APIConfig holds the collaborator API configuration
type APIConfig struct {
	BaseURL        string `yaml:"base_url" envconfig:"GALLERY_API_BASE_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"GALLERY_API_TIMEOUT_SECONDS"`
}

// Timeout returns the request timeout for collaborator calls
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DataConfig holds local state configuration
type DataConfig struct {
	Dir string `yaml:"dir" envconfig:"GALLERY_DATA_DIR"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level" envconfig:"GALLERY_LOG_LEVEL"`
}

// Load reads configuration from a YAML file and applies environment
// overrides. A missing file is not an error; defaults plus environment
// variables apply.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api base_url must not be empty")
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8090},
		API:    APIConfig{BaseURL: "http://localhost:8000", TimeoutSeconds: 30},
		Data:   DataConfig{Dir: "./data"},
		Log:    LogConfig{Level: "info"},
	}
}

// Addr returns the listen address for the local server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
