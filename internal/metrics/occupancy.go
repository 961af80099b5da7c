package metrics

import (
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/zone"
)

// Occupancy counts robots inside a zone at the most recent observation and
// remembers the peak count.
type Occupancy struct {
	name  string
	zone  zone.Zone
	count int
	peak  int
}

func NewOccupancy(z zone.Zone) *Occupancy {
	return &Occupancy{
		name: "occupancy",
		zone: z,
	}
}

func (o *Occupancy) Name() string { return o.name }

func (o *Occupancy) Observe(pos []swarm.Position) error {
	o.count = o.zone.CountInside(pos)
	if o.count > o.peak {
		o.peak = o.count
	}
	return nil
}

func (o *Occupancy) Value() float64 {
	return float64(o.count)
}

func (o *Occupancy) Peak() int { return o.peak }

func (o *Occupancy) Reset() {
	o.count = 0
	o.peak = 0
}
