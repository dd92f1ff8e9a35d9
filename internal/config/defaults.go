package config

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultDriver          = DriverPostgres
	defaultHost            = "localhost"
	defaultPort            = 5432
	defaultDatabase        = "retroload"
	defaultUser            = "retroload"
	defaultSSLMode         = "disable"
	defaultSQLitePath      = "~/.local/share/retroload/retroload.db"
	defaultLockPath        = "~/.local/share/retroload/load.lock"
	defaultCacheTTLSeconds = 300
	defaultStream          = "games.loaded.retrosheet"
	defaultAPIBind         = "127.0.0.1:8080"
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:     defaultDriver,
			Host:       defaultHost,
			Port:       defaultPort,
			Database:   defaultDatabase,
			User:       defaultUser,
			SSLMode:    defaultSSLMode,
			SQLitePath: defaultSQLitePath,
		},
		Redis: Redis{
			CacheTTLSeconds: defaultCacheTTLSeconds,
			Stream:          defaultStream,
		},
		Load: LoadSettings{
			LockPath: defaultLockPath,
		},
		API: API{
			Bind:           defaultAPIBind,
			AllowedOrigins: []string{"*"},
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
