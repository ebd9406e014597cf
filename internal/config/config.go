package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Probe driving modes.
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

// Duration is a time.Duration that unmarshals from a YAML string like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = dur
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// CatalogConfig points at the service catalog. An empty path selects the
// catalog embedded in the binary.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// ProbeConfig controls how services are probed.
type ProbeConfig struct {
	Timeout     Duration `yaml:"timeout"`
	Interval    Duration `yaml:"interval"`
	Mode        string   `yaml:"mode"`
	Concurrency int      `yaml:"concurrency"`
	InsecureTLS bool     `yaml:"insecure_tls"`
}

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Catalog CatalogConfig `yaml:"catalog"`
	Probe   ProbeConfig   `yaml:"probe"`
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		Log:    LogConfig{Level: "info"},
		Probe: ProbeConfig{
			Timeout:  Duration{4 * time.Second},
			Interval: Duration{30 * time.Second},
			Mode:     ModeParallel,
		},
	}
}

// Load reads, parses, and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config, applying defaults for anything
// left unset.
func Parse(data []byte) (*Config, error) {
	// Unmarshal into a raw intermediate so unset fields keep their defaults.
	type rawProbe struct {
		Timeout     *Duration `yaml:"timeout"`
		Interval    *Duration `yaml:"interval"`
		Mode        string    `yaml:"mode"`
		Concurrency int       `yaml:"concurrency"`
		InsecureTLS bool      `yaml:"insecure_tls"`
	}
	type rawConfig struct {
		Server  ServerConfig  `yaml:"server"`
		Log     LogConfig     `yaml:"log"`
		Catalog CatalogConfig `yaml:"catalog"`
		Probe   rawProbe      `yaml:"probe"`
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := Default()
	cfg.Catalog = raw.Catalog
	cfg.Log.Pretty = raw.Log.Pretty
	cfg.Probe.InsecureTLS = raw.Probe.InsecureTLS

	if raw.Server.Address != "" {
		cfg.Server.Address = raw.Server.Address
	}
	if raw.Log.Level != "" {
		if !validLevels[raw.Log.Level] {
			return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", raw.Log.Level)
		}
		cfg.Log.Level = raw.Log.Level
	}

	if raw.Probe.Timeout != nil {
		if raw.Probe.Timeout.Duration <= 0 {
			return nil, fmt.Errorf("probe: timeout must be positive, got %s", raw.Probe.Timeout.Duration)
		}
		cfg.Probe.Timeout = *raw.Probe.Timeout
	}
	if raw.Probe.Interval != nil {
		if raw.Probe.Interval.Duration <= 0 {
			return nil, fmt.Errorf("probe: interval must be positive, got %s", raw.Probe.Interval.Duration)
		}
		cfg.Probe.Interval = *raw.Probe.Interval
	}

	switch raw.Probe.Mode {
	case "":
	case ModeSequential, ModeParallel:
		cfg.Probe.Mode = raw.Probe.Mode
	default:
		return nil, fmt.Errorf("probe: invalid mode %q (must be sequential or parallel)", raw.Probe.Mode)
	}

	if raw.Probe.Concurrency < 0 {
		return nil, fmt.Errorf("probe: concurrency must be >= 0, got %d", raw.Probe.Concurrency)
	}
	cfg.Probe.Concurrency = raw.Probe.Concurrency

	return cfg, nil
}
