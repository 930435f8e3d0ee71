package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/plus3/whippet/ecs/slab"
	"gopkg.in/yaml.v3"
)

// Scenario describes one stress run. Any field left out of the YAML file
// keeps its default.
type Scenario struct {
	Name                string     `yaml:"name"`
	Duration            string     `yaml:"duration"`
	Entities            int        `yaml:"entities"`
	ComponentsPerEntity int        `yaml:"components_per_entity"`
	Churn               float64    `yaml:"churn"`
	WeedEvery           int        `yaml:"weed_every"`
	ReportEvery         int        `yaml:"report_every"`
	Seed                int64      `yaml:"seed"`
	Pool                PoolConfig `yaml:"pool"`
}

// PoolConfig mirrors the slab growth options.
type PoolConfig struct {
	InitialLayerSize int `yaml:"initial_layer_size"`
	LayerGrowth      int `yaml:"layer_growth"`
	MaxLayerSize     int `yaml:"max_layer_size"`
}

func DefaultScenario() Scenario {
	return Scenario{
		Name:                "default",
		Duration:            "10s",
		Entities:            10000,
		ComponentsPerEntity: 2,
		Churn:               0.01,
		WeedEvery:           100,
		ReportEvery:         500,
		Seed:                1,
		Pool: PoolConfig{
			InitialLayerSize: slab.DefaultInitialLayerSize,
			LayerGrowth:      slab.DefaultLayerGrowth,
			MaxLayerSize:     slab.DefaultMaxLayerSize,
		},
	}
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes YAML over the default scenario and validates it.
func ParseScenario(data []byte) (Scenario, error) {
	sc := DefaultScenario()
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func (s Scenario) Validate() error {
	var errs []error
	if _, err := s.Timeout(); err != nil {
		errs = append(errs, err)
	}
	if s.Entities <= 0 {
		errs = append(errs, fmt.Errorf("entities must be positive, got %d", s.Entities))
	}
	if s.ComponentsPerEntity < 0 {
		errs = append(errs, fmt.Errorf("components_per_entity must not be negative, got %d", s.ComponentsPerEntity))
	}
	if s.Churn < 0 || s.Churn > 1 {
		errs = append(errs, fmt.Errorf("churn must be within [0, 1], got %v", s.Churn))
	}
	if s.Pool.InitialLayerSize <= 0 {
		errs = append(errs, fmt.Errorf("pool.initial_layer_size must be positive, got %d", s.Pool.InitialLayerSize))
	}
	return errors.Join(errs...)
}

// Timeout parses the scenario duration.
func (s Scenario) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(s.Duration)
	if err != nil {
		return 0, fmt.Errorf("duration: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}

func (s Scenario) PoolOptions() []slab.Option {
	return []slab.Option{
		slab.WithInitialLayerSize(s.Pool.InitialLayerSize),
		slab.WithLayerGrowth(s.Pool.LayerGrowth),
		slab.WithMaxLayerSize(s.Pool.MaxLayerSize),
	}
}
