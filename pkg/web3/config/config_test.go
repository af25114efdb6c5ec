package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultProvider, cfg.Provider)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, uint64(DefaultMaxRetries), cfg.HTTP.MaxRetries)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := writeFile(t, `
provider: ws://node.local:8546
request_timeout: 5s
http:
  max_retries: 7
  gzip: true
  headers:
    Authorization: Bearer abc
log:
  level: debug
  format: json
`)
	t.Setenv("WEB3_HTTP_MAX_RETRIES", "1")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "ws://node.local:8546", cfg.Provider)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, uint64(1), cfg.HTTP.MaxRetries)
	assert.True(t, cfg.HTTP.Gzip)
	assert.Equal(t, "Bearer abc", cfg.HTTP.Headers["authorization"])
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Len(t, cfg.TransportOptions(), 5)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WEB3_PROVIDER", "http://env:8545")

	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, v)
	require.NoError(t, cmd.PersistentFlags().Set("provider", "ipc:///tmp/geth.ipc"))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "ipc:///tmp/geth.ipc", cfg.Provider)
}

func TestValidate(t *testing.T) {
	valid := Config{Provider: DefaultProvider, Log: LogConfig{Format: "text"}}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = " " }},
		{"bad provider", func(c *Config) { c.Provider = "smtp://mail" }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
		{"negative rate limit", func(c *Config) { c.HTTP.RateLimit = -1 }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	in := &Config{
		Provider:       "grpcs://rpc.node.io",
		RequestTimeout: 12 * time.Second,
		HTTP:           HTTPConfig{MaxRetries: 2, RateLimit: 20},
		Log:            LogConfig{Level: "warn", Format: "json", MaxSizeMB: 10, MaxBackups: 1},
	}
	require.NoError(t, Save(path, in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, in.Provider, out.Provider)
	assert.Equal(t, in.RequestTimeout, out.RequestTimeout)
	assert.Equal(t, in.HTTP.RateLimit, out.HTTP.RateLimit)
	assert.Equal(t, in.Log.Level, out.Log.Level)
}

func TestSetupLoggingRejectsBadLevel(t *testing.T) {
	c := Config{Log: LogConfig{Level: "chatty", Format: "text"}}
	assert.Error(t, c.SetupLogging("web3cli"))
}
