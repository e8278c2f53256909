package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/motius/gorfid/protocol"
	"github.com/motius/gorfid/rfid"
)

// Config is the rfidctl YAML configuration.
type Config struct {
	Device    string `yaml:"device"`
	Baud      int    `yaml:"baud"`
	Module    string `yaml:"module"`     // m6e-nano | m7e-hecto
	Region    string `yaml:"region"`     // north-america, europe, ...
	ReadPower int16  `yaml:"read_power"` // centi-dBm, 2700 = 27.00 dBm
	TimeoutMs int    `yaml:"timeout_ms"`
}

func defaultConfig() *Config {
	return &Config{
		Device:    "/dev/ttyUSB0",
		Baud:      115200,
		Module:    "m6e-nano",
		Region:    "north-america",
		ReadPower: 500,
		TimeoutMs: 2000,
	}
}

// loadConfig reads the YAML file at path over the defaults. A missing
// file is fine; the defaults suit a factory-fresh SparkFun board.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Device == "" {
		return fmt.Errorf("config: device must be set")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("config: baud must be positive, got %d", c.Baud)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("config: timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	if _, err := c.moduleType(); err != nil {
		return err
	}
	if _, err := c.region(); err != nil {
		return err
	}
	return nil
}

func (c *Config) timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c *Config) moduleType() (rfid.ModuleType, error) {
	switch c.Module {
	case "", "m6e-nano":
		return rfid.ModuleM6ENano, nil
	case "m7e-hecto":
		return rfid.ModuleM7EHecto, nil
	default:
		return 0, fmt.Errorf("config: unknown module %q", c.Module)
	}
}

var regionNames = map[string]protocol.Region{
	"north-america": protocol.RegionNorthAmerica,
	"india":         protocol.RegionIndia,
	"japan":         protocol.RegionJapan,
	"china":         protocol.RegionChina,
	"europe":        protocol.RegionEurope,
	"korea":         protocol.RegionKorea,
	"australia":     protocol.RegionAustralia,
	"new-zealand":   protocol.RegionNewZealand,
	"open":          protocol.RegionOpen,
}

func (c *Config) region() (protocol.Region, error) {
	if r, ok := regionNames[c.Region]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("config: unknown region %q", c.Region)
}
