package config

import "fmt"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	d := cfg.Device

	// The waveform on-phase is 2 ms; a slower poll would routinely miss
	// it. Sub-millisecond polling is out of scope for this device.
	if d.PollMs < 1 || d.PollMs > 2 {
		return fmt.Errorf("poll_ms must be 1 or 2, got %d", d.PollMs)
	}

	if d.HeartbeatMs < 0 {
		return fmt.Errorf("heartbeat_ms must not be negative, got %d", d.HeartbeatMs)
	}

	pins := map[string]int{
		"coil":   d.Pins.Coil,
		"charge": d.Pins.Charge,
		"button": d.Pins.Button,
	}
	seen := make(map[int]string)
	for name, pin := range pins {
		if pin < 0 || pin > 27 {
			return fmt.Errorf("pin %s out of range: %d", name, pin)
		}
		if prev, dup := seen[pin]; dup {
			return fmt.Errorf("pin collision: %s and %s both use BCM %d", prev, name, pin)
		}
		seen[pin] = name
	}

	if d.Broker == "" {
		return fmt.Errorf("broker must not be empty")
	}

	return nil
}
