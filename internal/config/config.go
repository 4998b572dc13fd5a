// Package config loads catalogctl settings from flags, environment and an
// optional config file
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CATALOG_LOG_LEVEL
const EnvPrefix = "catalog"

// Config holds catalogctl settings
type Config struct {
	LogLevel    string `mapstructure:"log-level"`
	LogPretty   bool   `mapstructure:"log-pretty"`
	TreeFile    string `mapstructure:"tree"`
	PageLimit   int    `mapstructure:"limit"`
	MetricsFile string `mapstructure:"metrics-file"`
	Output      string `mapstructure:"output"`
}

// Default returns the built-in settings. Logs are pretty-printed only when
// stderr is a terminal.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		LogPretty: isatty.IsTerminal(os.Stderr.Fd()),
		PageLimit: 10,
		Output:    "table",
	}
}

// SetupFlags registers the persistent flags shared by every command
func SetupFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "config file (default is $HOME/.catalog.yaml or ./configs/catalog.yaml)")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.Bool("log-pretty", d.LogPretty, "human readable logs instead of JSON")
	fs.String("tree", d.TreeFile, "YAML tree definition (default is the embedded demo tree)")
	fs.Int("limit", d.PageLimit, "page size for entry listings")
	fs.String("metrics-file", d.MetricsFile, "write Prometheus metrics to this file on exit")
	fs.StringP("output", "o", d.Output, "output format: table, json or proto (protojson)")
}

// Load resolves settings with precedence flags, environment, config file,
// defaults. fs must have been set up with SetupFlags.
func Load(v *viper.Viper, fs *pflag.FlagSet) (Config, error) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-pretty", d.LogPretty)
	v.SetDefault("tree", d.TreeFile)
	v.SetDefault("limit", d.PageLimit)
	v.SetDefault("metrics-file", d.MetricsFile)
	v.SetDefault("output", d.Output)

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	if fn := v.GetString("config"); fn != "" {
		v.SetConfigFile(fn)
	} else {
		v.AddConfigPath("configs")
		v.AddConfigPath("$HOME")
		v.SetConfigName("." + EnvPrefix)
	}
	v.SetEnvPrefix(strings.ToUpper(EnvPrefix))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); !missing || v.GetString("config") != "" {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that flags cannot constrain
func (c Config) Validate() error {
	if c.PageLimit <= 0 {
		return fmt.Errorf("config: limit must be positive, got %d", c.PageLimit)
	}
	switch c.Output {
	case "table", "json", "proto":
	default:
		return fmt.Errorf("config: unknown output format %q", c.Output)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
