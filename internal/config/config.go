package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMongoURI is used when MONGO_URI is unset or empty.
	DefaultMongoURI = "mongodb://localhost:27017/mydb"

	// DefaultPort is used when PORT is unset or empty.
	DefaultPort = 3000

	// DefaultLogLevel is used when LOG_LEVEL is unset or empty.
	DefaultLogLevel = "info"
)

// Environment variables read once at startup
const (
	EnvMongoURI = "MONGO_URI"
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	MongoURI string `yaml:"mongo_uri"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		MongoURI: DefaultMongoURI,
		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,
	}
}

// Load resolves configuration from defaults, an optional YAML file at path,
// and the process environment, in increasing order of precedence.
// Empty environment values count as unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("mongo_uri", DefaultMongoURI)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", DefaultLogLevel)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindings := map[string]string{
		"mongo_uri": EnvMongoURI,
		"port":      EnvPort,
		"log_level": EnvLogLevel,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	port, err := ParsePort(v.GetString("port"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MongoURI: strings.TrimSpace(v.GetString("mongo_uri")),
		Port:     port,
		LogLevel: v.GetString("log_level"),
	}
	// A file may carry an explicit empty value; the default still applies.
	if cfg.MongoURI == "" {
		cfg.MongoURI = DefaultMongoURI
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return cfg, nil
}

// ParsePort parses a TCP port. An empty string yields DefaultPort.
func ParsePort(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPort, nil
	}

	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: must be a number", raw)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return port, nil
}

// Validate checks the resolved values
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("mongo uri is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
	}
	return nil
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docker-demo/config.yaml"
	}
	return filepath.Join(home, ".docker-demo", "config.yaml")
}
