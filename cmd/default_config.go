package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dedupsim/dedupsim/sim"
)

// Scenario is one set of simulation parameters as written in YAML.
// simulation_months is an alternative to simulation_days; days wins when both are set.
type Scenario struct {
	sim.SimulationParameters `yaml:",inline"`
	SimulationMonths         int    `yaml:"simulation_months,omitempty"`
	Description              string `yaml:"description,omitempty"`
}

// Parameters resolves the month shorthand.
func (s Scenario) Parameters() sim.SimulationParameters {
	p := s.SimulationParameters
	if p.SimulationDays == 0 && s.SimulationMonths > 0 {
		p.SimulationDays = s.SimulationMonths * sim.DaysPerMonth
	}
	return p
}

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version string              `yaml:"version"`
	Presets map[string]Scenario `yaml:"presets"`
}

// decodeStrict parses YAML rejecting unknown keys so typos surface as errors.
func decodeStrict(data []byte, out any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}

// loadDefaultsConfig parses defaults.yaml into a Config struct.
func loadDefaultsConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file: %w", err)
	}
	var cfg Config
	if err := decodeStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing defaults file %s: %w", path, err)
	}
	return cfg, nil
}

// PresetNames returns the preset names in sorted order.
func (c Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadPreset returns the named preset from the defaults file.
func loadPreset(path, name string) (Scenario, error) {
	cfg, err := loadDefaultsConfig(path)
	if err != nil {
		return Scenario{}, err
	}
	preset, ok := cfg.Presets[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown preset %q; available: %v", name, cfg.PresetNames())
	}
	logrus.Infof("Using preset %q from %s", name, path)
	return preset, nil
}

// loadScenarioFile parses a single-scenario YAML file.
func loadScenarioFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	if err := decodeStrict(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return s, nil
}
