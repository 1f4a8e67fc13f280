// Package config defines the typed configuration for Rubus servers and
// clients, loaded via Viper from flags, environment variables, and an
// optional YAML file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig controls the observability package's logger.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// ServerConfig controls the server dispatcher: bind_address, port,
// and the max_fetch_pieces cap on a single FETCH request.
type ServerConfig struct {
	BindAddress     string        `mapstructure:"bind_address"`
	Port            int           `mapstructure:"port"`
	MaxFetchPieces  uint32        `mapstructure:"max_fetch_pieces"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ClientConfig controls the fetch controller and buffer/window manager.
type ClientConfig struct {
	ServerAddress string        `mapstructure:"server_address"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AheadSeconds  int           `mapstructure:"ahead_seconds"`
	LowWaterMark  int           `mapstructure:"low_water_mark"`
	DecodeWorkers int           `mapstructure:"decode_workers"`
}

// DefaultServerConfig returns sensible defaults for a framed-TCP
// dispatcher.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		BindAddress:     "0.0.0.0",
		Port:            7453,
		MaxFetchPieces:  60,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// DefaultClientConfig returns sensible client defaults: an 8-second
// ahead window for the prefetch buffer.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerAddress:  "127.0.0.1:7453",
		RequestTimeout: 10 * time.Second,
		AheadSeconds:   8,
		LowWaterMark:   2,
		DecodeWorkers:  4,
	}
}

// DefaultLoggingConfig returns the default logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "json"}
}

// Config is the root configuration object shared by both Rubus
// binaries; each binary only reads the sections it needs.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() Config {
	return Config{
		Server:  DefaultServerConfig(),
		Client:  DefaultClientConfig(),
		Logging: DefaultLoggingConfig(),
	}
}

// Load builds a Viper instance seeded with defaults, reads an optional
// config file (cfgFile, empty to search standard locations), and
// applies RUBUS_-prefixed environment variable overrides.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	applyDefaults(v, DefaultConfig())

	v.SetEnvPrefix("rubus")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("rubus")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("server.bind_address", cfg.Server.BindAddress)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.max_fetch_pieces", cfg.Server.MaxFetchPieces)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("client.server_address", cfg.Client.ServerAddress)
	v.SetDefault("client.request_timeout", cfg.Client.RequestTimeout)
	v.SetDefault("client.ahead_seconds", cfg.Client.AheadSeconds)
	v.SetDefault("client.low_water_mark", cfg.Client.LowWaterMark)
	v.SetDefault("client.decode_workers", cfg.Client.DecodeWorkers)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
}
