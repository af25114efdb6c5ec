package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the client configuration read from file, environment and flags.
type Config struct {
	Provider       string        `mapstructure:"provider" yaml:"provider"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	HTTP           HTTPConfig    `mapstructure:"http" yaml:"http"`
	Log            LogConfig     `mapstructure:"log" yaml:"log"`
}

type HTTPConfig struct {
	MaxRetries uint64            `mapstructure:"max_retries" yaml:"max_retries"`
	RateLimit  int               `mapstructure:"rate_limit" yaml:"rate_limit"`
	Gzip       bool              `mapstructure:"gzip" yaml:"gzip"`
	Headers    map[string]string `mapstructure:"headers" yaml:"headers,omitempty"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file,omitempty"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// DefaultPath returns ~/.web3go/config.yaml, or a relative path when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DefaultConfigDir, DefaultConfigName)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", DefaultProvider)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("http.max_retries", DefaultMaxRetries)
	v.SetDefault("http.rate_limit", 0)
	v.SetDefault("http.gzip", false)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
}

// BindFlags registers the persistent flags that override configuration values.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	f := cmd.PersistentFlags()

	f.String("provider", "", "node endpoint (http, ws, ipc or grpc descriptor)")
	f.Duration("timeout", 0, "request timeout")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("log-format", "", "log format (json, text)")

	_ = v.BindPFlag("provider", f.Lookup("provider"))
	_ = v.BindPFlag("request_timeout", f.Lookup("timeout"))
	_ = v.BindPFlag("log.level", f.Lookup("log-level"))
	_ = v.BindPFlag("log.format", f.Lookup("log-format"))
}

// Load reads configFile (optional unless given explicitly), then WEB3_* environment
// variables and bound flags, which take precedence.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	explicit := configFile != ""
	if !explicit {
		configFile = DefaultPath()
	}
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		logtrace.Debug(context.Background(), "Loaded configuration", logtrace.Fields{"path": v.ConfigFileUsed()})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise only fail on first use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider) == "" {
		return fmt.Errorf("provider is required")
	}
	if _, err := providers.ParseDescriptor(c.Provider); err != nil {
		return fmt.Errorf("invalid provider: %w", err)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit cannot be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return nil
}

// Save writes cfg as YAML to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// TransportOptions maps the configuration onto transport options.
func (c *Config) TransportOptions() []providers.Option {
	opts := []providers.Option{
		providers.WithRequestTimeout(c.RequestTimeout),
		providers.WithMaxRetries(c.HTTP.MaxRetries),
		providers.WithRateLimit(c.HTTP.RateLimit),
	}
	if c.HTTP.Gzip {
		opts = append(opts, providers.WithGzip())
	}
	for k, v := range c.HTTP.Headers {
		opts = append(opts, providers.WithHeader(k, v))
	}
	return opts
}

// SetupLogging installs the package logger described by the log section.
func (c *Config) SetupLogging(service string) error {
	var opts []logtrace.SetupOption
	if c.Log.File != "" {
		opts = append(opts, logtrace.WithFile(logtrace.Rotation{
			File:       c.Log.File,
			MaxSizeMB:  c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
		}))
	}
	return logtrace.Setup(service, c.Log.Level, strings.EqualFold(c.Log.Format, "json"), opts...)
}
