package drone

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const DefaultConfigFile = "tello.json"

// Config holds the drone connection and flight settings
type Config struct {
	Network NetworkConfig `json:"network"`
	Flight  FlightConfig  `json:"flight"`
	Video   VideoConfig   `json:"video"`
}

// NetworkConfig holds drone addressing. The drone always listens for
// commands on UDP 8889 and streams video to UDP 11111; only the drone IP
// and the local response port vary.
type NetworkConfig struct {
	DroneIP        string `json:"drone_ip"`
	LocalPort      string `json:"local_port"`
	VideoPort      string `json:"video_port"`
	ConnectTimeout int    `json:"connect_timeout_s"`
}

// FlightConfig holds the control loop settings
type FlightConfig struct {
	Hz       int  `json:"hz"`
	Step     int  `json:"step"`
	MaxStick int  `json:"max_stick"`
	Fast     bool `json:"fast"`
}

// VideoConfig holds the camera settings
type VideoConfig struct {
	Rate      string `json:"rate"`
	Player    string `json:"player"`
	RecordDir string `json:"record_dir,omitempty"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			DroneIP:        "192.168.10.1",
			LocalPort:      "8888",
			VideoPort:      "11111",
			ConnectTimeout: 10,
		},
		Flight: FlightConfig{
			Hz:       20,
			Step:     10,
			MaxStick: 100,
		},
		Video: VideoConfig{
			Rate:   "auto",
			Player: "mplayer",
		},
	}
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. A missing file
// is not an error: defaults are returned so every command works without
// running setup first.
func LoadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
