package metrics

import "github.com/san-kum/swarmstat/internal/swarm"

// Metric observes the swarm at one timestep at a time. A failed observation
// leaves the previous value in place and returns the error.
type Metric interface {
	Name() string
	Observe(pos []swarm.Position) error
	Value() float64
	Reset()
}
