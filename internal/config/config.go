// Package config loads the cursorswap configuration: the declared cursors,
// the monitored applications and the runtime settings of the poll loop.
//
// The file is TOML by default (cursor.toml) and is read through viper, so
// YAML or JSON files work too when named accordingly, and every setting can
// be overridden from the environment (CURSORSWAP_SETTINGS_POLL_INTERVAL=5ms).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrConfigIO marks a configuration file that could not be found, read or
// parsed.
var ErrConfigIO = errors.New("cannot read configuration")

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CURSORSWAP"

// FileName is the base name searched for when no file is given.
const FileName = "cursor.toml"

// CursorSpec declares a named cursor image.
type CursorSpec struct {
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path"` // .cur or .ani file
}

// ApplicationSpec maps an executable-path suffix to a declared cursor.
type ApplicationSpec struct {
	Cursor string `mapstructure:"cursor" yaml:"cursor"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// Settings tunes the poll loop and its side outputs.
type Settings struct {
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	PathCacheTTL time.Duration `mapstructure:"path_cache_ttl" yaml:"path_cache_ttl"`
	History      bool          `mapstructure:"history" yaml:"history"`
	LogLevel     string        `mapstructure:"log_level" yaml:"log_level"`
}

// Config holds everything read from the configuration file.
type Config struct {
	Settings     Settings          `mapstructure:"settings" yaml:"settings"`
	Cursors      []CursorSpec      `mapstructure:"cursor" yaml:"cursor"`
	Applications []ApplicationSpec `mapstructure:"application" yaml:"application"`

	// File is the path the configuration was read from.
	File string `mapstructure:"-" yaml:"-"`
}

// Defaults returns the settings used when the file leaves them out.
func Defaults() Settings {
	return Settings{
		PollInterval: time.Millisecond,
		PathCacheTTL: 2 * time.Second,
		History:      false,
		LogLevel:     "info",
	}
}

// Dir returns the cursorswap config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/cursorswap if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "cursorswap"), nil
}

// NewViper returns a viper instance with defaults and environment overrides
// registered. Callers bind their command-line flags to it before Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("settings.poll_interval", d.PollInterval)
	v.SetDefault("settings.path_cache_ttl", d.PathCacheTTL)
	v.SetDefault("settings.history", d.History)
	v.SetDefault("settings.log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. When path is empty the "config" key of v
// (flag or CURSORSWAP_CONFIG) is used, then ./cursor.toml and finally
// cursor.toml in Dir(). Relative cursor paths are resolved against the
// directory of the file they were declared in.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		path = v.GetString("config")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: no %s found in the current directory or config directory (run 'cursorswap init')", ErrConfigIO, FileName)
		}
		return nil, fmt.Errorf("%w %s: %v", ErrConfigIO, v.ConfigFileUsed(), err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrConfigIO, v.ConfigFileUsed(), err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.resolvePaths()

	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrConfigIO, cfg.File, err)
	}
	return &cfg, nil
}

func (c *Config) resolvePaths() {
	if c.File == "" {
		return
	}
	base := filepath.Dir(c.File)
	for i := range c.Cursors {
		p := c.Cursors[i].Path
		if p != "" && !filepath.IsAbs(p) && !isWindowsAbs(p) {
			c.Cursors[i].Path = filepath.Join(base, p)
		}
	}
}

// isWindowsAbs catches drive-letter and UNC paths when the configuration is
// validated on a non-Windows host.
func isWindowsAbs(p string) bool {
	if strings.HasPrefix(p, `\\`) {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}

// Validate checks the settings for values the poll loop cannot run with.
func (s Settings) Validate() error {
	if s.PollInterval <= 0 {
		return fmt.Errorf("settings.poll_interval must be positive, got %s", s.PollInterval)
	}
	if s.PathCacheTTL < 0 {
		return fmt.Errorf("settings.path_cache_ttl must not be negative, got %s", s.PathCacheTTL)
	}
	return nil
}

// DefaultConfigTemplate returns a starter cursor.toml with comments.
func DefaultConfigTemplate() string {
	return `# cursorswap configuration

[settings]
# How often the pointer is sampled.
poll_interval = "1ms"
# How long the executable path of a process id is cached.
path_cache_ttl = "2s"
# Record every cursor change in the history database.
history = false
log_level = "info"

# Cursor images. Relative paths are resolved against this file's directory.
[[cursor]]
name = "busy"
path = "busy.ani"

# Monitored applications. The first entry whose path is a suffix of the
# executable under the pointer wins, so list specific entries first.
[[application]]
cursor = "busy"
path = "notepad.exe"
`
}

// WriteTemplate writes DefaultConfigTemplate to path, refusing to replace an
// existing file unless force is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultConfigTemplate()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
