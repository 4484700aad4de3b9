package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"clipkeeper/internal/config"
	"clipkeeper/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	logFormat  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool, logFormat *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		logFormat:  logFormat,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logFormat != nil {
			switch format := strings.ToLower(strings.TrimSpace(*c.logFormat)); format {
			case "":
			case "console", "json":
				cfg.Logging.Format = format
			default:
				c.configErr = fmt.Errorf("--log-format: unsupported value %q", *c.logFormat)
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// datasetConfig returns the loaded config with the dataset root taken from
// the first positional argument when present.
func (c *commandContext) datasetConfig(args []string) (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var root string
	if len(args) > 0 {
		root = args[0]
	}
	cfg, err = cfg.WithRoot(root)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireRoot(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level := ""
	if c.verbose != nil && *c.verbose {
		level = "debug"
	}
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr(), level)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
