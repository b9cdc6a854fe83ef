package main

import (
	"os"

	"github.com/osuushi/cdt"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the YAML config file. Flags given on the command line override it.
type Config struct {
	Seed            int64  `yaml:"seed"`
	Locator         string `yaml:"locator"`
	MaxFlips        int    `yaml:"max_flips"`
	Strict          bool   `yaml:"strict"`
	Delaunize       bool   `yaml:"delaunize"`
	CheckInvariants bool   `yaml:"check_invariants"`
	Output          Output `yaml:"output"`
}

type Output struct {
	PNG     string  `yaml:"png"`
	Scale   float64 `yaml:"scale"`
	GeoJSON string  `yaml:"geojson"`
	Dump    bool    `yaml:"dump"`
}

// LoadConfig loads a config file. An empty path gives the zero config.
func LoadConfig(path string) (Config, error) {
	var config Config
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "parsing config %s", path)
	}
	switch cdt.LocatorStrategy(config.Locator) {
	case "", cdt.WalkLocator, cdt.ScanLocator:
	default:
		return config, errors.Errorf("unknown locator %q", config.Locator)
	}
	return config, nil
}

// Options converts the config to triangulation options.
func (c Config) Options(logger *zap.Logger) cdt.Options {
	return cdt.Options{
		Logger:            logger,
		Seed:              c.Seed,
		Locator:           cdt.LocatorStrategy(c.Locator),
		MaxFlips:          c.MaxFlips,
		StrictConstraints: c.Strict,
		Delaunize:         c.Delaunize,
		CheckInvariants:   c.CheckInvariants,
	}
}
