package sim

import (
	"github.com/san-kum/swarmstat/internal/cohesion"
	"github.com/san-kum/swarmstat/internal/swarm"
)

// Observer is notified after every sample is evaluated.
type Observer interface {
	OnSample(k, row int, pos []swarm.Position, res cohesion.Result)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(k, row int, pos []swarm.Position, res cohesion.Result)

func (f ObserverFunc) OnSample(k, row int, pos []swarm.Position, res cohesion.Result) {
	f(k, row, pos, res)
}

// Result is the outcome of sampling one run.
type Result struct {
	Series swarm.Series
	// Rows holds the raw row index of every sample.
	Rows []int
	// NonSingleton is the per-sample count of multi-robot components.
	NonSingleton []int
	// Metrics holds the per-sample values of every added metric, by name.
	Metrics map[string][]float64
}

// Objective converts the final score into a value to minimize.
func (r *Result) Objective() (float64, error) {
	return Objective(r.Series)
}

// Objective is the sign-negated final value of s.
func Objective(s swarm.Series) (float64, error) {
	v, ok := s.Final()
	if !ok {
		return 0, &swarm.ShapeMismatchError{Run: -1, Reason: "empty series has no final value"}
	}
	return -v, nil
}
