// Package config holds the daemon configuration file schema.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of the daemon configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Partition PartitionConfig `yaml:"partition"`
	Framing   FramingConfig   `yaml:"framing"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SerialConfig selects the command transport. An empty device means
// stdio, which is handy for local testing.
type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// PartitionConfig describes the flash image. An empty image path means
// a volatile in-memory partition.
type PartitionConfig struct {
	Image      string `yaml:"image"`
	Size       uint32 `yaml:"size"`
	SectorSize uint32 `yaml:"sector_size"`
}

// FramingConfig selects the framing policy.
type FramingConfig struct {
	// Mode is "line" (dual terminator) or "timeout".
	Mode string `yaml:"mode"`
	// Terminator is the terminator byte in timeout mode.
	Terminator string `yaml:"terminator"`
	// TimeoutMS is the inactivity window in timeout mode.
	TimeoutMS int `yaml:"timeout_ms"`
}

// TelemetryConfig enables MQTT streaming when a broker URL is set.
type TelemetryConfig struct {
	BrokerURL string `yaml:"broker_url"`
}

// Default returns the reference configuration: stdio transport, a
// 100-sector in-memory partition, dual-terminator framing, telemetry
// off.
func Default() Config {
	return Config{
		Serial:    SerialConfig{Baud: 115200},
		Partition: PartitionConfig{Size: 4096 + 100*4096, SectorSize: 4096},
		Framing:   FramingConfig{Mode: "line", Terminator: "\n", TimeoutMS: 5000},
	}
}

// Load reads a config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
