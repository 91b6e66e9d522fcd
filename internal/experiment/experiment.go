package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/cisim/internal/metrics"
	"github.com/san-kum/cisim/internal/sim"
)

type Config struct {
	Method  string
	Params  sim.Params
	Seed    int64
	Workers int
}

type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
	logger    *slog.Logger
}

type Option func(*Experiment)

func WithLogger(l *slog.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func New(cfg Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build resolves cfg.Method in the registry and attaches the default metrics.
func Build(r *Registry, cfg Config, opts ...Option) (*Experiment, error) {
	method, err := r.GetMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	e := New(cfg, opts...)
	if err := e.Setup(method, metrics.Default(cfg.Params)); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Experiment) Setup(method sim.Method, ms []sim.Metric) error {
	if method == nil {
		return fmt.Errorf("experiment: nil method")
	}
	e.simulator = sim.New(method)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Config() Config { return e.cfg }

func (e *Experiment) Run(ctx context.Context) (*sim.Outcome, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	log := e.logger.With(
		"method", e.simulator.Method().Name(),
		"seed", e.cfg.Seed,
		"sample_size", e.cfg.Params.SampleSize,
		"simulations", e.cfg.Params.NumSimulations,
	)
	log.Debug("simulation started", "workers", e.cfg.Workers)
	start := time.Now()

	out, err := e.simulator.RunWorkers(ctx, e.cfg.Params, e.cfg.Seed, e.cfg.Workers)
	if err != nil {
		log.Debug("simulation failed", "error", err)
		return nil, err
	}

	log.Debug("simulation finished",
		"captured", out.CaptureCount,
		"capture_rate", out.CaptureRate,
		"elapsed", time.Since(start),
	)
	return out, nil
}
