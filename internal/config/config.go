// Package config loads dirinfo settings from flags, environment variables
// and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName names the configuration directory and file.
	AppName = "dirinfo"
	// EnvPrefix is the prefix of environment variables (e.g. DIRINFO_OUTPUT).
	EnvPrefix = "DIRINFO"
	// DefaultOutput is the output format used when none is configured.
	DefaultOutput = "text"
)

// Outputs lists the supported output formats.
//
//nolint:gochecknoglobals // Config constant
var Outputs = []string{"text", "json", "table"}

// ErrInvalidOutput is returned for an unsupported output format.
var ErrInvalidOutput = errors.New("invalid output format")

// Config holds the resolved settings.
type Config struct {
	// Output is the report format: text, json or table.
	Output string `mapstructure:"output"`
	// Debug enables debug logging on stderr.
	Debug bool `mapstructure:"debug"`
}

// Dir returns the directory searched for config.yaml.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Load resolves the configuration. Precedence, highest first: flags that were
// set explicitly, DIRINFO_* environment variables, the config file, defaults.
//
// If cfgFile is empty, config.yaml is looked up in Dir() and a missing file is
// not an error. An explicitly named file must exist.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("output", DefaultOutput)
	v.SetDefault("debug", false)

	if flags != nil {
		for _, name := range []string{"output", "debug"} {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}

			if err := v.BindPFlag(name, flag); err != nil {
				return nil, fmt.Errorf("binding flag %q: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))

	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("%w %q: must be one of %v", ErrInvalidOutput, c.Output, Outputs)
	}

	return nil
}
