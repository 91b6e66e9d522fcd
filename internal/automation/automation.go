package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cisim/internal/config"
	"github.com/san-kum/cisim/internal/experiment"
	"github.com/san-kum/cisim/internal/sim"
)

// Scenario is a scripted sequence of runs loaded from YAML.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Its fields start from the named preset (or the defaults)
// and any config keys present in the step override them.
type Step struct {
	Name   string
	Preset string
	Save   bool
	Config *config.Config
}

type stepHeader struct {
	Name   string `yaml:"name"`
	Preset string `yaml:"preset"`
	Save   bool   `yaml:"save"`
}

func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	var h stepHeader
	if err := n.Decode(&h); err != nil {
		return err
	}

	base := config.DefaultConfig()
	if h.Preset != "" {
		base = config.GetPreset(h.Preset)
		if base == nil {
			return fmt.Errorf("line %d: unknown preset: %s", n.Line, h.Preset)
		}
	}
	if err := n.Decode(base); err != nil {
		return err
	}

	s.Name, s.Preset, s.Save, s.Config = h.Name, h.Preset, h.Save, base
	return nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Saver persists an outcome and returns its run id.
type Saver interface {
	Save(out *sim.Outcome) (string, error)
}

type StepResult struct {
	Name    string
	RunID   string
	Outcome *sim.Outcome
}

// RunScenario executes every step in order. Steps marked save are handed to
// saver when it is non-nil. Results gathered before a failure are returned
// along with the error.
func RunScenario(
	ctx context.Context,
	scenario *Scenario,
	registry *experiment.Registry,
	saver Saver,
	logger *slog.Logger,
) ([]StepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info("running step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name)

		ec, err := step.Config.Experiment()
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		exp, err := experiment.Build(registry, ec, experiment.WithLogger(logger))
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
		}

		res := StepResult{Name: name, Outcome: out}
		if step.Save && saver != nil {
			if res.RunID, err = saver.Save(out); err != nil {
				return results, fmt.Errorf("step %d (%s) save: %w", i+1, name, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}
