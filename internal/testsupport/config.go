package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/fortuna/retroload/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a sqlite-backed config rooted in a fresh temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Storage.Driver = config.DriverSQLite
	cfgVal.Storage.SQLitePath = filepath.Join(base, "retroload.db")
	cfgVal.Load.Dir = filepath.Join(base, "extract")
	cfgVal.Load.LockPath = filepath.Join(base, "load.lock")
	cfgVal.API.Bind = "127.0.0.1:0"
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithExtract writes the sample extract into the config's load directory.
func WithExtract() ConfigOption {
	return func(b *configBuilder) {
		WriteExtract(b.t, b.cfg.Load.Dir, SampleExtract())
	}
}
