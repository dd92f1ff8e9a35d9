package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fortuna/retroload/internal/config"
	"github.com/fortuna/retroload/internal/logging"
)

type commandContext struct {
	configFlag *string
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// verbosity holds the -q/-v pair shared by every command that logs.
type verbosity struct {
	quiet   bool
	verbose bool
}

func addVerbosityFlags(cmd *cobra.Command, v *verbosity) {
	cmd.Flags().BoolVarP(&v.quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.Flags().BoolVarP(&v.verbose, "verbose", "v", false, "Log debug detail")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
}

func (v verbosity) apply(cfg *config.Config) {
	switch {
	case v.quiet:
		cfg.Logging.Level = "warn"
	case v.verbose:
		cfg.Logging.Level = "debug"
	}
}

// loadConfig reads the configuration file and environment, then lets
// override apply command-line flags before normalizing again.
func (c *commandContext) loadConfig(override func(*config.Config)) (*config.Config, error) {
	var path string
	if c.configFlag != nil {
		path = strings.TrimSpace(*c.configFlag)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
