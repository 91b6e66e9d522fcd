package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cisim/internal/experiment"
	"github.com/san-kum/cisim/internal/sim"
)

// Defaults match the starting positions of the interactive sliders.
const (
	DefaultMethod          = "z-sigma"
	DefaultSampleSize      = 10
	DefaultPopulationMean  = 50.0
	DefaultPopulationStd   = 15.0
	DefaultNumSimulations  = 100
	DefaultConfidenceLevel = 95.0
	DefaultSeed            = 42
	DefaultWorkers         = 1
)

// Config is the on-disk form of a run. ConfidenceLevel is a percentage.
type Config struct {
	Method          string  `yaml:"method"`
	SampleSize      int     `yaml:"sample_size"`
	PopulationMean  float64 `yaml:"population_mean"`
	PopulationStd   float64 `yaml:"population_std"`
	NumSimulations  int     `yaml:"num_simulations"`
	ConfidenceLevel float64 `yaml:"confidence_level"`
	Seed            int64   `yaml:"seed"`
	Workers         int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Method:          DefaultMethod,
		SampleSize:      DefaultSampleSize,
		PopulationMean:  DefaultPopulationMean,
		PopulationStd:   DefaultPopulationStd,
		NumSimulations:  DefaultNumSimulations,
		ConfidenceLevel: DefaultConfidenceLevel,
		Seed:            DefaultSeed,
		Workers:         DefaultWorkers,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver decodes the file at path over a copy of base, so keys the file
// leaves out keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Fraction converts a confidence percentage in (0,100) to the fraction the
// simulator expects.
func Fraction(percent float64) (float64, error) {
	if !(percent > 0 && percent < 100) {
		return 0, &sim.ParamError{
			Field:  "confidence_level",
			Value:  percent,
			Reason: "must be a percentage strictly between 0 and 100",
		}
	}
	return percent / 100, nil
}

func (c *Config) Params() (sim.Params, error) {
	level, err := Fraction(c.ConfidenceLevel)
	if err != nil {
		return sim.Params{}, err
	}
	p := sim.Params{
		SampleSize:      c.SampleSize,
		PopulationMean:  c.PopulationMean,
		PopulationStd:   c.PopulationStd,
		NumSimulations:  c.NumSimulations,
		ConfidenceLevel: level,
	}
	return p, p.Validate()
}

func (c *Config) Experiment() (experiment.Config, error) {
	p, err := c.Params()
	if err != nil {
		return experiment.Config{}, err
	}
	return experiment.Config{
		Method:  c.Method,
		Params:  p,
		Seed:    c.Seed,
		Workers: c.Workers,
	}, nil
}
