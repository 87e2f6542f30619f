// Package config loads doxytags settings from defaults, an optional
// doxytags.yaml file, DOXYTAGS_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"

	"github.com/phobologic/doxytags/internal/discover"
	"github.com/phobologic/doxytags/internal/errors"
	"github.com/phobologic/doxytags/internal/ranking"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. DOXYTAGS_OUTPUT.
	EnvPrefix = "DOXYTAGS"

	// FileName is the base name of the optional project config file.
	FileName = "doxytags"

	DefaultVersion    = "4.0"
	DefaultURLBase    = "https://docs.microsoft.com/en-us/dotnet/api/"
	DefaultViewPrefix = "netframework-"
	DefaultCompany    = "Microsoft Corporation"
)

// Config is the complete run configuration.
type Config struct {
	Output     string       `mapstructure:"output"`
	Version    string       `mapstructure:"version"`
	URLBase    string       `mapstructure:"url_base"`
	ViewPrefix string       `mapstructure:"view_prefix"`
	Inputs     []string     `mapstructure:"inputs"`
	Exclude    []string     `mapstructure:"exclude"`
	Select     SelectConfig `mapstructure:"select"`
	Order      OrderConfig  `mapstructure:"order"`
	Progress   bool         `mapstructure:"progress"`
	Log        LogConfig    `mapstructure:"log"`
}

// SelectConfig decides which loaded assemblies are documented.
type SelectConfig struct {
	Company    string `mapstructure:"company"`     // empty accepts any company
	SystemOnly bool   `mapstructure:"system_only"` // require system-provided assemblies
}

// OrderConfig tunes the assembly ordering policy.
type OrderConfig struct {
	CoreAssembly string `mapstructure:"core_assembly"`
	SystemPrefix string `mapstructure:"system_prefix"`
}

// LogConfig controls the logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", "")
	v.SetDefault("version", DefaultVersion)
	v.SetDefault("url_base", DefaultURLBase)
	v.SetDefault("view_prefix", DefaultViewPrefix)
	v.SetDefault("inputs", []string{"."})
	v.SetDefault("exclude", append([]string(nil), discover.DefaultExcludes...))

	v.SetDefault("select.company", DefaultCompany)
	v.SetDefault("select.system_only", true)

	v.SetDefault("order.core_assembly", ranking.DefaultCoreAssembly)
	v.SetDefault("order.system_prefix", ranking.DefaultSystemPrefix)

	v.SetDefault("progress", false)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the config file (path, or doxytags.yaml in the working directory
// when path is empty) into v and returns the validated configuration. A
// missing default file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithHint(
				errors.Mark(errors.Wrapf(err, "reading config %s", path), errors.ErrInvalidArgument),
				"check that the file exists and is valid YAML")
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Mark(errors.Wrap(err, "reading doxytags.yaml"), errors.ErrInvalidArgument)
			}
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and normalizes the version token.
func (c *Config) Validate() error {
	version, err := ParseVersion(c.Version)
	if err != nil {
		return err
	}
	c.Version = version

	if len(c.Inputs) == 0 {
		return errors.WithHint(errors.InvalidArgumentf("no inputs configured"),
			"pass snapshot files or directories as arguments")
	}
	if strings.TrimSpace(c.Order.CoreAssembly) == "" {
		return errors.InvalidArgumentf("order.core_assembly must not be empty")
	}
	return nil
}

// ParseVersion validates a major.minor[.patch] version token and returns it
// normalized, keeping the number of components given.
func ParseVersion(s string) (string, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return "", errors.WithHint(errors.InvalidArgumentf("invalid version %q", s),
			"use major.minor, for example 4.5")
	}
	ver, err := semver.NewVersion(s)
	if err != nil || ver.Prerelease() != "" || ver.Metadata() != "" || strings.HasPrefix(s, "v") {
		return "", errors.WithHint(errors.InvalidArgumentf("invalid version %q", s),
			"use major.minor, for example 4.5")
	}
	if len(parts) == 2 {
		return fmt.Sprintf("%d.%d", ver.Major(), ver.Minor()), nil
	}
	return fmt.Sprintf("%d.%d.%d", ver.Major(), ver.Minor(), ver.Patch()), nil
}

// View returns the documentation view token, e.g. netframework-4.0.
func (c *Config) View() string {
	return c.ViewPrefix + c.Version
}

// TagFilesEntry returns the Doxygen TAGFILES value pointing at the output.
func (c *Config) TagFilesEntry() string {
	return c.Output + "=" + c.URLBase
}

// Policy returns the assembly ordering policy.
func (c *Config) Policy() ranking.Policy {
	return ranking.Policy{CoreAssembly: c.Order.CoreAssembly, SystemPrefix: c.Order.SystemPrefix}
}

// Filter returns the assembly selection filter.
func (c *Config) Filter() ranking.Filter {
	return ranking.Filter{
		Company:      c.Select.Company,
		SystemOnly:   c.Select.SystemOnly,
		CoreAssembly: c.Order.CoreAssembly,
	}
}
