// Package config holds the server and client YAML-backed settings
// (ambient stack, spec.md §6 external interfaces). Grounded on the
// teacher's LoadLoginServer pattern — defaults first, then an optional
// YAML file overlays them (udisondev-la2go/internal/config/config.go).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig is the game server's composition-root configuration.
type ServerConfig struct {
	TCPBindAddress string `yaml:"tcp_bind_address"`
	TCPPort        int    `yaml:"tcp_port"`
	UDPBindAddress string `yaml:"udp_bind_address"`
	UDPPort        int    `yaml:"udp_port"`

	MapDataPath string `yaml:"map_data_path"`

	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
}

// DefaultServerConfig returns the server config with sensible defaults
// (spec.md §6).
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		TCPBindAddress: "0.0.0.0",
		TCPPort:        8080,
		UDPBindAddress: "0.0.0.0",
		UDPPort:        5000,
		MapDataPath:    "world.tmx",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// LoadServerConfig loads a ServerConfig from a YAML file, falling back
// to defaults if the file does not exist.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	return cfg, loadYAML(path, &cfg)
}

// ClientConfig is the reference client's composition-root
// configuration (spec.md §1: client core only, no rendering).
type ClientConfig struct {
	ServerTCPAddress string `yaml:"server_tcp_address"`
	ServerUDPAddress string `yaml:"server_udp_address"`

	Username string `yaml:"username"`

	LogLevel string `yaml:"log_level"`
}

// DefaultClientConfig returns the client config with sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerTCPAddress: "127.0.0.1:8080",
		ServerUDPAddress: "127.0.0.1:5000",
		LogLevel:         "info",
	}
}

// LoadClientConfig loads a ClientConfig from a YAML file, falling back
// to defaults if the file does not exist.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	return cfg, loadYAML(path, &cfg)
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}
