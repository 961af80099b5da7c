package aggregate

import (
	"fmt"

	"github.com/san-kum/swarmstat/internal/swarm"
)

// Envelope is the median and interquartile band of a metric across runs,
// aligned by sample index.
type Envelope struct {
	Sampling swarm.Sampling `json:"sampling"`
	Median   []float64      `json:"median"`
	Q25      []float64      `json:"q25"`
	Q75      []float64      `json:"q75"`
	// Runs are copies of the contributing series, for overlays.
	Runs []swarm.Series `json:"runs"`
}

// EnvelopeOf reduces series that share one length and one sampling. Any
// disagreement is a ShapeMismatchError; nothing is truncated or padded.
func EnvelopeOf(series []swarm.Series) (*Envelope, error) {
	if len(series) == 0 {
		return nil, &swarm.ShapeMismatchError{Run: -1, Reason: "no series to aggregate"}
	}

	ref := series[0]
	if ref.Len() == 0 {
		return nil, &swarm.ShapeMismatchError{Run: 0, Reason: "empty series"}
	}
	for i, s := range series[1:] {
		if s.Len() != ref.Len() {
			return nil, &swarm.ShapeMismatchError{Run: i + 1, Reason: fmt.Sprintf("length %d, want %d", s.Len(), ref.Len())}
		}
		if s.Sampling != ref.Sampling {
			return nil, &swarm.ShapeMismatchError{Run: i + 1, Reason: fmt.Sprintf("sampling %s, want %s", s.Sampling, ref.Sampling)}
		}
	}

	m := ref.Len()
	env := &Envelope{
		Sampling: ref.Sampling,
		Median:   make([]float64, m),
		Q25:      make([]float64, m),
		Q75:      make([]float64, m),
		Runs:     make([]swarm.Series, len(series)),
	}
	for i, s := range series {
		env.Runs[i] = s.Clone()
	}

	column := make([]float64, len(series))
	for k := 0; k < m; k++ {
		for i, s := range series {
			column[i] = s.Values[k]
		}
		env.Median[k] = Quantile(column, 0.5)
		env.Q25[k] = Quantile(column, 0.25)
		env.Q75[k] = Quantile(column, 0.75)
	}

	return env, nil
}

func (e *Envelope) Len() int { return len(e.Median) }

// Band returns the interquartile width at every sample.
func (e *Envelope) Band() []float64 {
	out := make([]float64, len(e.Median))
	for k := range out {
		out[k] = e.Q75[k] - e.Q25[k]
	}
	return out
}
