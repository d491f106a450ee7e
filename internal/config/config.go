// Package config loads the ticketflow configuration.
//
// Values come from built-in defaults, then an optional YAML file, then
// command line flags. Each layer only overrides the fields it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Kavantix/ticketflow/internal/auth"
	"github.com/Kavantix/ticketflow/internal/storage"
	"github.com/Kavantix/ticketflow/internal/ticket"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	// Backend is one of sqlite, redis or memory.
	Backend storage.Backend `yaml:"backend"`

	// Path is the sqlite database file.
	Path string `yaml:"path"`

	// RedisAddr is host:port of the redis server.
	RedisAddr string `yaml:"redis_addr"`

	// Namespace is the key the ticket collection is stored under.
	Namespace string `yaml:"namespace"`

	// SessionKey is the key the login flag is stored under.
	SessionKey string `yaml:"session_key"`
}

func (c AuthConfig) Credentials() auth.Credentials {
	return auth.Credentials{Email: c.Email, Password: c.Password}
}

type AuthConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Debug bool   `yaml:"debug"`
}

func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend:    storage.SQLite,
			Path:       "ticketflow.sqlite3",
			RedisAddr:  "localhost:6379",
			Namespace:  ticket.DefaultNamespace,
			SessionKey: auth.DefaultSessionKey,
		},
		Auth: AuthConfig{
			Email:    auth.TestCredentials.Email,
			Password: auth.TestCredentials.Password,
		},
		Log: LogConfig{
			File: "debug.log",
		},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if !c.Storage.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("storage.backend must be sqlite, redis or memory, got %q", c.Storage.Backend))
	}
	if c.Storage.Backend == storage.SQLite && strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, errors.New("storage.path is required for the sqlite backend"))
	}
	if c.Storage.Backend == storage.Redis && strings.TrimSpace(c.Storage.RedisAddr) == "" {
		errs = append(errs, errors.New("storage.redis_addr is required for the redis backend"))
	}
	if strings.TrimSpace(c.Storage.Namespace) == "" {
		errs = append(errs, errors.New("storage.namespace must not be empty"))
	}
	if strings.TrimSpace(c.Storage.SessionKey) == "" {
		errs = append(errs, errors.New("storage.session_key must not be empty"))
	}
	if c.Storage.Namespace == c.Storage.SessionKey {
		errs = append(errs, errors.New("storage.namespace and storage.session_key must differ"))
	}
	if strings.TrimSpace(c.Auth.Email) == "" || c.Auth.Password == "" {
		errs = append(errs, errors.New("auth.email and auth.password are required"))
	}
	return errors.Join(errs...)
}
