// Package zone counts robots inside a square region centred on the arena
// origin at every logged timestep.
package zone

import (
	"github.com/san-kum/swarmstat/internal/kilolog"
	"github.com/san-kum/swarmstat/internal/swarm"
)

// Arena geometry of the reference experiments, in arena units.
const (
	ArenaHalfExtent  = 0.5
	DefaultHalfWidth = ArenaHalfExtent / 3
	OuterHalfWidth   = ArenaHalfExtent * 2 / 3
)

// Zone is the square [-HalfWidth, HalfWidth] x [-HalfWidth, HalfWidth].
type Zone struct {
	HalfWidth float64 `yaml:"half_width" json:"half_width"`
}

func Default() Zone {
	return Zone{HalfWidth: DefaultHalfWidth}
}

// Contains is inclusive on all four edges.
func (z Zone) Contains(p swarm.Position) bool {
	return p.X >= -z.HalfWidth && p.X <= z.HalfWidth &&
		p.Y >= -z.HalfWidth && p.Y <= z.HalfWidth
}

func (z Zone) CountInside(pos []swarm.Position) int {
	n := 0
	for _, p := range pos {
		if z.Contains(p) {
			n++
		}
	}
	return n
}

// Occupancy is the zone count at every row plus where the swarm ended.
type Occupancy struct {
	Zone   Zone             `json:"zone"`
	Counts []int            `json:"counts"`
	Final  []swarm.Position `json:"final"`
}

// Count scans rows [0, steps). steps <= 0 scans the whole log.
func Count(lg *kilolog.Log, z Zone, steps int) (*Occupancy, error) {
	if steps <= 0 {
		steps = lg.Rows()
	}
	if steps > lg.Rows() {
		return nil, &swarm.OutOfRangeError{What: "timestep", Index: steps - 1, Limit: lg.Rows()}
	}

	occ := &Occupancy{Zone: z, Counts: make([]int, steps)}
	for t := 0; t < steps; t++ {
		pos, err := lg.Positions(t)
		if err != nil {
			return nil, err
		}
		occ.Counts[t] = z.CountInside(pos)
		if t == steps-1 {
			occ.Final = pos
		}
	}
	return occ, nil
}

// Max returns the highest count and the first row it occurred at.
func (o *Occupancy) Max() (count, row int) {
	row = -1
	for t, c := range o.Counts {
		if row < 0 || c > count {
			count, row = c, t
		}
	}
	return count, row
}
