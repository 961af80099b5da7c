// Package sim drives the cohesion metric across the sampled time axis of a
// single run.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/swarmstat/internal/kilolog"
	"github.com/san-kum/swarmstat/internal/metrics"
	"github.com/san-kum/swarmstat/internal/swarm"
)

// Sampler is not safe for concurrent use once metrics are added; build one
// per run.
type Sampler struct {
	threshold float64
	metrics   []metrics.Metric
	observers []Observer
}

func New(threshold float64) *Sampler {
	return &Sampler{
		threshold: threshold,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Sampler) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Sampler) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

func (s *Sampler) Threshold() float64 { return s.threshold }

// Run samples rows 0, S, 2S, ... of lg. The whole sampling range is checked
// against the log length before the first row is decoded.
func (s *Sampler) Run(ctx context.Context, lg *kilolog.Log, sampling swarm.Sampling) (*Result, error) {
	if err := s.validate(lg, sampling); err != nil {
		return nil, err
	}

	result := &Result{
		Series: swarm.Series{
			Sampling: sampling,
			Values:   make([]float64, 0, sampling.Count),
		},
		Rows:         make([]int, 0, sampling.Count),
		NonSingleton: make([]int, 0, sampling.Count),
		Metrics:      make(map[string][]float64, len(s.metrics)),
	}

	for _, m := range s.metrics {
		m.Reset()
		result.Metrics[m.Name()] = make([]float64, 0, sampling.Count)
	}

	score := metrics.NewCohesion(s.threshold)

	for k := 0; k < sampling.Count; k++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row := sampling.Row(k)
		pos, err := lg.Positions(row)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", k, err)
		}

		if err := score.Observe(pos); err != nil {
			return nil, fmt.Errorf("sample %d: %w", k, err)
		}
		res := score.Last()

		result.Series.Values = append(result.Series.Values, res.Score)
		result.Rows = append(result.Rows, row)
		result.NonSingleton = append(result.NonSingleton, res.NonSingleton)

		for _, m := range s.metrics {
			if err := m.Observe(pos); err != nil {
				return nil, fmt.Errorf("sample %d: %s: %w", k, m.Name(), err)
			}
			result.Metrics[m.Name()] = append(result.Metrics[m.Name()], m.Value())
		}
		for _, obs := range s.observers {
			obs.OnSample(k, row, pos, res)
		}
	}

	return result, nil
}

func (s *Sampler) validate(lg *kilolog.Log, sampling swarm.Sampling) error {
	if s.threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %f", s.threshold)
	}
	if lg == nil {
		return fmt.Errorf("nil log")
	}
	if err := sampling.Validate(); err != nil {
		return err
	}
	if !sampling.Fits(lg.Rows()) {
		return &swarm.OutOfRangeError{What: fmt.Sprintf("sample %d at row", sampling.Count-1), Index: sampling.LastRow(), Limit: lg.Rows()}
	}
	return nil
}
