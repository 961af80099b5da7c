package metrics

import (
	"github.com/san-kum/swarmstat/internal/cohesion"
	"github.com/san-kum/swarmstat/internal/proximity"
	"github.com/san-kum/swarmstat/internal/swarm"
)

// Cohesion is the largest-component fraction of the most recent observation.
type Cohesion struct {
	name      string
	threshold float64
	last      cohesion.Result
	samples   int
}

func NewCohesion(threshold float64) *Cohesion {
	return &Cohesion{
		name:      "cohesion",
		threshold: threshold,
	}
}

func (c *Cohesion) Name() string { return c.name }

func (c *Cohesion) Threshold() float64 { return c.threshold }

func (c *Cohesion) Observe(pos []swarm.Position) error {
	res, err := cohesion.EvaluateGraph(proximity.Build(pos, c.threshold))
	if err != nil {
		return err
	}
	c.last = res
	c.samples++
	return nil
}

func (c *Cohesion) Value() float64 {
	return c.last.Score
}

// Last returns the full component breakdown of the most recent observation.
func (c *Cohesion) Last() cohesion.Result {
	return c.last
}

func (c *Cohesion) Samples() int { return c.samples }

func (c *Cohesion) Reset() {
	c.last = cohesion.Result{}
	c.samples = 0
}
