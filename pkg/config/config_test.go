package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(&cfg))
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samplelog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
serial:
  device: /dev/ttyUSB0
  baud: 115200
partition:
  image: /var/lib/samplelog/flash.img
  size: 65536
  sector_size: 4096
framing:
  mode: timeout
  terminator: "\n"
  timeout_ms: 2000
telemetry:
  broker_url: mqtt://broker:1883/fleet
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(&cfg))
	require.Equal(t, "/dev/ttyUSB0", cfg.Serial.Device)
	require.Equal(t, uint32(65536), cfg.Partition.Size)
	require.Equal(t, "timeout", cfg.Framing.Mode)
	require.Equal(t, "mqtt://broker:1883/fleet", cfg.Telemetry.BrokerURL)
}

func TestValidateRejects(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unaligned size", func(c *Config) { c.Partition.Size = 5000 }},
		{"zero sector", func(c *Config) { c.Partition.SectorSize = 0 }},
		{"sector misaligns log start", func(c *Config) {
			c.Partition.SectorSize = 8192
			c.Partition.Size = 8192 * 4
		}},
		{"no log region", func(c *Config) {
			c.Partition.Size = 4096
			c.Partition.SectorSize = 4096
		}},
		{"unknown framing mode", func(c *Config) { c.Framing.Mode = "csv" }},
		{"timeout without terminator", func(c *Config) {
			c.Framing.Mode = "timeout"
			c.Framing.Terminator = ""
		}},
		{"timeout without window", func(c *Config) {
			c.Framing.Mode = "timeout"
			c.Framing.TimeoutMS = 0
		}},
		{"bad baud", func(c *Config) {
			c.Serial.Device = "/dev/ttyUSB0"
			c.Serial.Baud = 0
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.Error(t, Validate(&cfg))
		})
	}
}
