package experiment

import (
	"sort"

	"github.com/san-kum/swarmstat/internal/aggregate"
	"github.com/san-kum/swarmstat/internal/swarm"
)

// RunCollection holds the completed runs of a batch in input order.
type RunCollection struct {
	Outcomes []Outcome
	Failures []Failure
}

func (c *RunCollection) Len() int { return len(c.Outcomes) }

// Series returns every run's cohesion series in input order.
func (c *RunCollection) Series() []swarm.Series {
	out := make([]swarm.Series, len(c.Outcomes))
	for i, o := range c.Outcomes {
		out[i] = o.Result.Series
	}
	return out
}

// ByConfig groups series by configuration, each group in seed order.
func (c *RunCollection) ByConfig() map[string][]swarm.Series {
	groups := make(map[string][]Outcome)
	for _, o := range c.Outcomes {
		groups[o.Run.ID.Config] = append(groups[o.Run.ID.Config], o)
	}

	out := make(map[string][]swarm.Series, len(groups))
	for cfg, outcomes := range groups {
		sort.SliceStable(outcomes, func(i, j int) bool { return outcomes[i].Run.ID.Seed < outcomes[j].Run.ID.Seed })
		series := make([]swarm.Series, len(outcomes))
		for i, o := range outcomes {
			series[i] = o.Result.Series
		}
		out[cfg] = series
	}
	return out
}

// Envelope aggregates all runs regardless of configuration.
func (c *RunCollection) Envelope() (*aggregate.Envelope, error) {
	return aggregate.EnvelopeOf(c.Series())
}

// EnvelopeByConfig aggregates each configuration separately.
func (c *RunCollection) EnvelopeByConfig() (map[string]*aggregate.Envelope, error) {
	out := make(map[string]*aggregate.Envelope)
	for cfg, series := range c.ByConfig() {
		env, err := aggregate.EnvelopeOf(series)
		if err != nil {
			return nil, err
		}
		out[cfg] = env
	}
	return out, nil
}

// Distribution tabulates final values per configuration in seed order.
func (c *RunCollection) Distribution() (*aggregate.Table, error) {
	return aggregate.Distribution(c.ByConfig())
}
