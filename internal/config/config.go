// Package config loads retroload settings from an optional TOML file,
// environment variables and command-line overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Storage selects and addresses the document store.
type Storage struct {
	Driver     string `toml:"driver"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Database   string `toml:"database"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	SSLMode    string `toml:"sslmode"`
	URL        string `toml:"url"`
	SQLitePath string `toml:"sqlite_path"`
}

// Redis configures the optional read cache and load notifications.
type Redis struct {
	URL             string `toml:"url"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
	Stream          string `toml:"stream"`
}

// LoadSettings configures a directory load.
type LoadSettings struct {
	Dir      string `toml:"dir"`
	InitDB   bool   `toml:"init_db"`
	LockPath string `toml:"lock_path"`
}

// API configures the read-only HTTP server.
type API struct {
	Bind           string   `toml:"bind"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for retroload.
type Config struct {
	Storage Storage      `toml:"storage"`
	Redis   Redis        `toml:"redis"`
	Load    LoadSettings `toml:"load"`
	API     API          `toml:"api"`
	Logging Logging      `toml:"logging"`
}

// Load reads path (when non-empty and present), applies environment
// overrides and normalizes paths. It does not validate; callers apply their
// flag overrides first and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config file %s does not exist", path)
		case err != nil:
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Storage.Driver = getEnv("RETROLOAD_DRIVER", c.Storage.Driver)
	c.Storage.URL = getEnv("RETROLOAD_DSN", c.Storage.URL)
	c.Storage.SQLitePath = getEnv("RETROLOAD_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.Password = getEnv("RETROLOAD_DB_PASSWORD", c.Storage.Password)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.Logging.Level = getEnv("RETROLOAD_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("RETROLOAD_LOG_FORMAT", c.Logging.Format)
	c.API.Bind = getEnv("RETROLOAD_API_BIND", c.API.Bind)
}

// Normalize lowercases enumerations and expands filesystem paths.
func (c *Config) Normalize() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	for _, p := range []*string{&c.Storage.SQLitePath, &c.Load.Dir, &c.Load.LockPath} {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// DSN returns the connection string for the configured driver. An explicit
// URL wins; otherwise the Postgres URL is assembled from its parts.
func (s Storage) DSN() string {
	if s.URL != "" {
		return s.URL
	}
	if s.Driver == DriverSQLite {
		return s.SQLitePath
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(s.Host, strconv.Itoa(s.Port)),
		Path:   "/" + s.Database,
	}
	if s.User != "" {
		if s.Password != "" {
			u.User = url.UserPassword(s.User, s.Password)
		} else {
			u.User = url.User(s.User)
		}
	}
	if s.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {s.SSLMode}}.Encode()
	}
	return u.String()
}

// Redacted returns the DSN with any password masked, for logging.
func (s Storage) Redacted() string {
	dsn := s.DSN()
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return dsn
	}
	return u.Redacted()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
