// Package experiment evaluates logged runs under one configuration and runs
// whole batches of them, one worker per run.
package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/swarmstat/internal/kilolog"
	"github.com/san-kum/swarmstat/internal/metrics"
	"github.com/san-kum/swarmstat/internal/proximity"
	"github.com/san-kum/swarmstat/internal/sim"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/zone"
)

// Policy decides what a failed run does to the rest of its batch.
type Policy string

const (
	// FailFast cancels the batch on the first failed run.
	FailFast Policy = "fail-fast"
	// SkipFailed records the failure and drops the run from aggregation.
	SkipFailed Policy = "skip"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case FailFast, SkipFailed:
		return Policy(s), nil
	case "":
		return FailFast, nil
	}
	return "", fmt.Errorf("unknown failure policy %q (want %q or %q)", s, FailFast, SkipFailed)
}

// Config holds everything a run needs besides its log.
type Config struct {
	Population int
	Threshold  float64
	Sampling   swarm.Sampling
	Layout     kilolog.Layout
	Header     bool
	Zone       zone.Zone
	// Steps bounds the occupancy scan; zero scans every row.
	Steps   int
	Policy  Policy
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Population: 25,
		Threshold:  proximity.DefaultThreshold,
		Sampling:   swarm.Sampling{Stride: 100, Count: 36},
		Layout:     kilolog.DefaultLayout(),
		Zone:       zone.Default(),
		Policy:     FailFast,
	}
}

func (c Config) Validate() error {
	if c.Population < 1 {
		return fmt.Errorf("population must be positive, got %d", c.Population)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %f", c.Threshold)
	}
	if err := c.Sampling.Validate(); err != nil {
		return err
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.Zone.HalfWidth < 0 {
		return fmt.Errorf("zone half width must be non-negative, got %f", c.Zone.HalfWidth)
	}
	if _, err := ParsePolicy(string(c.Policy)); err != nil {
		return err
	}
	return nil
}

// Run identifies one log of a batch. Open, when set, replaces reading Path.
type Run struct {
	ID   swarm.RunID
	Path string
	Open func() (io.ReadCloser, error)
}

func (r Run) open() (io.ReadCloser, error) {
	if r.Open != nil {
		return r.Open()
	}
	return os.Open(r.Path)
}

// Experiment evaluates individual runs under one Config.
type Experiment struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Policy == "" {
		cfg.Policy = FailFast
	}
	return &Experiment{
		cfg:    cfg,
		logger: slog.Default().With(slog.String("component", "experiment")),
	}, nil
}

func (e *Experiment) Config() Config { return e.cfg }

// WithLogger replaces the experiment's logger.
func (e *Experiment) WithLogger(l *slog.Logger) *Experiment {
	e.logger = l.With(slog.String("component", "experiment"))
	return e
}

// Load opens, reads fully and closes the run's log.
func (e *Experiment) Load(run Run) (*kilolog.Log, error) {
	rc, err := run.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	opts := []kilolog.Option{kilolog.WithLayout(e.cfg.Layout)}
	if e.cfg.Header {
		opts = append(opts, kilolog.WithHeader())
	}
	return kilolog.Read(rc, e.cfg.Population, opts...)
}

// Sample computes the cohesion series of one run. Extra metrics are sampled
// alongside and reported in the result by name.
func (e *Experiment) Sample(ctx context.Context, run Run, extra ...metrics.Metric) (*sim.Result, error) {
	return e.Observe(ctx, run, nil, extra...)
}

// Observe is Sample with an observer notified after every sample. A nil
// observer is ignored.
func (e *Experiment) Observe(ctx context.Context, run Run, o sim.Observer, extra ...metrics.Metric) (*sim.Result, error) {
	lg, err := e.Load(run)
	if err != nil {
		return nil, err
	}

	s := sim.New(e.cfg.Threshold)
	for _, m := range extra {
		s.AddMetric(m)
	}
	if o != nil {
		s.AddObserver(o)
	}
	return s.Run(ctx, lg, e.cfg.Sampling)
}

// Objective returns the negated final cohesion of one run.
func (e *Experiment) Objective(ctx context.Context, run Run) (float64, error) {
	res, err := e.Sample(ctx, run)
	if err != nil {
		return 0, err
	}
	return res.Objective()
}

// Occupancy counts zone occupancy over every row of one run.
func (e *Experiment) Occupancy(ctx context.Context, run Run) (*zone.Occupancy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lg, err := e.Load(run)
	if err != nil {
		return nil, err
	}
	return zone.Count(lg, e.cfg.Zone, e.cfg.Steps)
}
