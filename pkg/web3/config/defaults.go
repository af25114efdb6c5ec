package config

import "time"

// Centralized default values for configuration

const (
	EnvPrefix = "WEB3"

	DefaultProvider       = "http://localhost:8545"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultLogMaxSizeMB   = 50
	DefaultLogMaxBackups  = 3
	DefaultConfigDir      = ".web3go"
	DefaultConfigName     = "config.yaml"
)
