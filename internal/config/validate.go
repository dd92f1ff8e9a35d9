package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/retroload/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateRedis(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// ValidateLoad additionally checks the settings a directory load needs.
func (c *Config) ValidateLoad() error {
	if strings.TrimSpace(c.Load.Dir) == "" {
		return errors.New("load.dir is required: specify the retrosheet extract directory with --dir")
	}
	return c.Validate()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.URL == "" {
			if c.Storage.Host == "" || c.Storage.Database == "" {
				return errors.New("storage.host and storage.database must be set for postgres")
			}
			if c.Storage.Port <= 0 || c.Storage.Port > 65535 {
				return fmt.Errorf("storage.port out of range: %d", c.Storage.Port)
			}
		}
	case DriverSQLite:
		if c.Storage.URL == "" && c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path must be set for sqlite")
		}
	default:
		return fmt.Errorf("storage.driver must be %s or %s, got %q", DriverPostgres, DriverSQLite, c.Storage.Driver)
	}
	return nil
}

func (c *Config) validateRedis() error {
	if c.Redis.URL == "" {
		return nil
	}
	if c.Redis.CacheTTLSeconds < 0 {
		return errors.New("redis.cache_ttl_seconds must be non-negative")
	}
	if strings.TrimSpace(c.Redis.Stream) == "" {
		return errors.New("redis.stream must be set when redis.url is configured")
	}
	return nil
}
