// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ScanPaths  []string `toml:"scan_paths"`
	Extensions []string `toml:"extensions"`
	Exclude    Exclude  `toml:"exclude"`
	Output     Output   `toml:"output"`
	Watch      Watch    `toml:"watch"`
	History    History  `toml:"history"`
	Telemetry  Telemetry `toml:"telemetry"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Output struct {
	CBSF    string `toml:"cbsf"`
	DOT     string `toml:"dot"`
	TSV     string `toml:"tsv"`
	Summary string `toml:"summary"`
}

type Watch struct {
	Debounce       time.Duration `toml:"debounce"`
	RescansPerSec  float64       `toml:"rescans_per_sec"`
	RescanBurst    int           `toml:"rescan_burst"`
}

type History struct {
	Path    string `toml:"path"`
	Project string `toml:"project"`
}

type Telemetry struct {
	ListenAddr   string `toml:"listen_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration usable without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if len(cfg.ScanPaths) == 0 {
		cfg.ScanPaths = []string{"."}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".py"}
	}
	if cfg.Output.CBSF == "" {
		cfg.Output.CBSF = "output/cbsf.bin"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSec == 0 {
		cfg.Watch.RescansPerSec = 1
	}
	if cfg.Watch.RescanBurst == 0 {
		cfg.Watch.RescanBurst = 1
	}
	if cfg.History.Project == "" {
		cfg.History.Project = "default"
	}
}
