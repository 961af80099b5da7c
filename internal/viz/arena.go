package viz

import (
	"math"

	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/zone"
)

// Arena draws robot positions inside the square arena of half extent
// zone.ArenaHalfExtent, with the outline of every zone. Robots outside the
// arena are clipped.
func Arena(pos []swarm.Position, zones []zone.Zone, width, height int) string {
	c := NewCanvas(width, height)
	px := width*2 - 1
	py := height*4 - 1

	toX := func(x float64) int {
		return int(math.Round((x + zone.ArenaHalfExtent) / (2 * zone.ArenaHalfExtent) * float64(px)))
	}
	toY := func(y float64) int {
		return int(math.Round((zone.ArenaHalfExtent - y) / (2 * zone.ArenaHalfExtent) * float64(py)))
	}

	c.DrawRect(0, 0, px, py)
	for _, z := range zones {
		h := z.HalfWidth
		c.DrawRect(toX(-h), toY(h), toX(h), toY(-h))
	}

	for _, p := range pos {
		if math.Abs(p.X) > zone.ArenaHalfExtent || math.Abs(p.Y) > zone.ArenaHalfExtent {
			continue
		}
		c.Dot(toX(p.X), toY(p.Y))
	}

	return c.String()
}
