package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = ".fossil-adapter"
	configType = "json"
	envPrefix  = "FOSSIL_ADAPTER"
)

// Config is the root configuration structure.
// Fields carry json tags for SaveConfig and mapstructure tags for viper.
type Config struct {
	Fossil  FossilConfig `json:"fossil" mapstructure:"fossil"`
	Server  ServerConfig `json:"server" mapstructure:"server"`
	Feed    FeedConfig   `json:"feed" mapstructure:"feed"`
	Diff    DiffConfig   `json:"diff" mapstructure:"diff"`
	Filters FilterConfig `json:"filters" mapstructure:"filters"`
	Bugfix  BugfixConfig `json:"bugfix" mapstructure:"bugfix"`
}

// FossilConfig holds settings for the local fossil client.
type FossilConfig struct {
	Executable    string `json:"executable" mapstructure:"executable"`       // Default: "fossil"
	Repository    string `json:"repository" mapstructure:"repository"`       // Repository file passed with -R
	Workdir       string `json:"workdir" mapstructure:"workdir"`             // Default: "."
	TimelineLimit int    `json:"timelineLimit" mapstructure:"timelineLimit"` // Default: 2000000
	TimelineType  string `json:"timelineType" mapstructure:"timelineType"`   // Default: "ci"
}

// ServerConfig describes a Fossil server serving the repository.
type ServerConfig struct {
	HTTPS    bool   `json:"https" mapstructure:"https"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Path     string `json:"path" mapstructure:"path"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}

// FeedConfig holds timeline feed polling options.
type FeedConfig struct {
	TimeoutSeconds int `json:"timeoutSeconds" mapstructure:"timeoutSeconds"`
}

// DiffConfig holds range diff options.
type DiffConfig struct {
	VerifySuffix bool `json:"verifySuffix" mapstructure:"verifySuffix"`
}

// FilterConfig holds affected path filtering options.
type FilterConfig struct {
	Include []string `json:"include" mapstructure:"include"`
	Exclude []string `json:"exclude" mapstructure:"exclude"`
}

// BugfixConfig holds bugfix detection configuration.
type BugfixConfig struct {
	Patterns []string `json:"patterns" mapstructure:"patterns"` // Regex patterns for bugfix commit detection
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Fossil: FossilConfig{
			Executable:    "fossil",
			Workdir:       ".",
			TimelineLimit: 2000000,
			TimelineType:  "ci",
		},
		Feed: FeedConfig{
			TimeoutSeconds: 30,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Bugfix: BugfixConfig{
			Patterns: []string{
				`\bfix(ed|es)?\b`,
				`\bbug\b`,
				`\bhotfix\b`,
				`\bpatch\b`,
			},
		},
	}
}

// IsConfigured reports whether a server host is set.
func (s ServerConfig) IsConfigured() bool {
	return strings.TrimSpace(s.Host) != ""
}

// URL returns the server URL without credentials.
func (s ServerConfig) URL() string {
	return s.build(false)
}

// AuthenticatedURL returns the server URL with credentials embedded when a username is set.
func (s ServerConfig) AuthenticatedURL() string {
	return s.build(true)
}

func (s ServerConfig) build(withCredentials bool) string {
	if !s.IsConfigured() {
		return ""
	}

	u := url.URL{Scheme: "http", Host: s.Host}
	if s.HTTPS {
		u.Scheme = "https"
	}
	if s.Port != "" {
		u.Host = net.JoinHostPort(s.Host, s.Port)
	}
	if withCredentials && s.Username != "" {
		u.User = url.UserPassword(s.Username, s.Password)
	}
	if s.Path != "" {
		u.Path = "/" + strings.TrimLeft(s.Path, "/")
	}
	return u.String()
}

// Timeout returns the feed request timeout.
func (f FeedConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Fossil.TimelineLimit < 0 {
		return fmt.Errorf("fossil.timelineLimit must not be negative, got %d", c.Fossil.TimelineLimit)
	}
	if c.Feed.TimeoutSeconds < 0 {
		return fmt.Errorf("feed.timeoutSeconds must not be negative, got %d", c.Feed.TimeoutSeconds)
	}
	return nil
}

// LoadConfig loads configuration from a file and FOSSIL_ADAPTER_* environment
// variables, merging with defaults. Without a path, .fossil-adapter.json is
// searched in the working directory and then the home directory.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v, DefaultConfig())

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	read := true
	if path != "" {
		// An explicit but missing file falls back to defaults.
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			read = false
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			v.AddConfigPath(home)
		}
	}

	if read {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("fossil.executable", d.Fossil.Executable)
	v.SetDefault("fossil.repository", d.Fossil.Repository)
	v.SetDefault("fossil.workdir", d.Fossil.Workdir)
	v.SetDefault("fossil.timelineLimit", d.Fossil.TimelineLimit)
	v.SetDefault("fossil.timelineType", d.Fossil.TimelineType)

	v.SetDefault("server.https", d.Server.HTTPS)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.path", d.Server.Path)
	v.SetDefault("server.username", d.Server.Username)
	v.SetDefault("server.password", d.Server.Password)

	v.SetDefault("feed.timeoutSeconds", d.Feed.TimeoutSeconds)
	v.SetDefault("diff.verifySuffix", d.Diff.VerifySuffix)

	v.SetDefault("filters.include", d.Filters.Include)
	v.SetDefault("filters.exclude", d.Filters.Exclude)
	v.SetDefault("bugfix.patterns", d.Bugfix.Patterns)
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
