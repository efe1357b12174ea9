// Package config loads the optional YAML configuration file.
// The core timing constants (debounce, long-hold, double-press window,
// waveform period/duty, session limits) are deliberately NOT configurable:
// they are safety-relevant and fixed at compile time in internal/logic.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/pemf-controller/internal/gpio"
)

type Config struct {
	Device DeviceConfig `yaml:"device"`
}

type DeviceConfig struct {
	// PollMs is the control loop interval. Must stay at or below the
	// waveform on-duration (2 ms) for the pulse train to be observed
	// reliably.
	PollMs int `yaml:"poll_ms"`

	Broker      string `yaml:"broker"`
	HeartbeatMs int    `yaml:"heartbeat_ms"`
	HTTPAddr    string `yaml:"http_addr"`

	// SPIDevice is the spidev node driving the pixel; empty disables the
	// pixel entirely.
	SPIDevice string `yaml:"spi_device"`

	Pins PinsConfig `yaml:"pins"`
}

type PinsConfig struct {
	Coil   int `yaml:"coil"`
	Charge int `yaml:"charge"`
	Button int `yaml:"button"`
}

// Default returns the shipped configuration, matching the device schematic.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			PollMs:      1,
			Broker:      "tcp://192.168.1.200:1883",
			HeartbeatMs: int(15 * 60 * 1000),
			HTTPAddr:    ":80",
			SPIDevice:   "/dev/spidev0.0",
			Pins: PinsConfig{
				Coil:   gpio.DefaultPinCoil,
				Charge: gpio.DefaultPinCharge,
				Button: gpio.DefaultPinButton,
			},
		},
	}
}

// Load reads and parses the YAML file at path. Keys absent from the file
// keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
