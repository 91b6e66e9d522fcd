package config

import "sort"

var Presets = map[string]*Config{
	"classroom": {
		Method: "z-sigma", SampleSize: 10, PopulationMean: 50, PopulationStd: 15,
		NumSimulations: 100, ConfidenceLevel: 95, Seed: 42,
	},
	"tiny-sample": {
		Method: "z-sigma", SampleSize: 2, PopulationMean: 50, PopulationStd: 15,
		NumSimulations: 100, ConfidenceLevel: 95, Seed: 42,
	},
	"high-confidence": {
		Method: "z-sigma", SampleSize: 10, PopulationMean: 50, PopulationStd: 15,
		NumSimulations: 200, ConfidenceLevel: 99, Seed: 42,
	},
	"coin-flip": {
		Method: "z-sigma", SampleSize: 10, PopulationMean: 50, PopulationStd: 15,
		NumSimulations: 200, ConfidenceLevel: 50, Seed: 42,
	},
	"large-run": {
		Method: "z-sigma", SampleSize: 30, PopulationMean: 50, PopulationStd: 15,
		NumSimulations: 1000, ConfidenceLevel: 95, Seed: 42, Workers: 4,
	},
	"wide-population": {
		Method: "z-sigma", SampleSize: 25, PopulationMean: 0, PopulationStd: 100,
		NumSimulations: 100, ConfidenceLevel: 90, Seed: 42,
	},
}

// GetPreset returns a copy so callers can override fields freely.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
