package store

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/swarmstat/internal/aggregate"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/zone"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// ArenaSVG draws end positions in the arena with the outline of every zone,
// like the trajectory figures of a run.
func ArenaSVG(pos []swarm.Position, zones []zone.Zone, size int) string {
	scale := float64(size) / (2 * zone.ArenaHalfExtent)
	toX := func(x float64) float64 { return (x + zone.ArenaHalfExtent) * scale }
	toY := func(y float64) float64 { return (zone.ArenaHalfExtent - y) * scale }

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, size, size, size, size)

	sb.WriteString(`<g fill="none" stroke="#444466" stroke-width="1">` + "\n")
	for _, z := range zones {
		h := z.HalfWidth
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			toX(-h), toY(h), 2*h*scale, 2*h*scale)
	}
	sb.WriteString("</g>\n")

	radius := 0.033 / 2 * scale
	sb.WriteString(`<g fill="#00ff88">` + "\n")
	for _, p := range pos {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", toX(p.X), toY(p.Y), radius)
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// EnvelopeSVG draws the raw runs, the interquartile band and the median on
// a [0, 1] score axis.
func EnvelopeSVG(env *aggregate.Envelope, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	if env.Len() == 0 {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	toX := func(k int) float64 {
		if env.Len() == 1 {
			return float64(width) / 2
		}
		return float64(k) / float64(env.Len()-1) * float64(width)
	}
	toY := func(v float64) float64 { return float64(height) - v*float64(height) }

	path := func(values []float64) string {
		var p strings.Builder
		for k, v := range values {
			if k == 0 {
				fmt.Fprintf(&p, "M%.1f,%.1f", toX(k), toY(v))
			} else {
				fmt.Fprintf(&p, " L%.1f,%.1f", toX(k), toY(v))
			}
		}
		return p.String()
	}

	for _, s := range env.Runs {
		fmt.Fprintf(&sb, `<path fill="none" stroke="#666688" stroke-opacity="0.4" stroke-width="1" d="%s"/>`+"\n", path(s.Values))
	}

	var band strings.Builder
	band.WriteString(path(env.Q75))
	for k := env.Len() - 1; k >= 0; k-- {
		fmt.Fprintf(&band, " L%.1f,%.1f", toX(k), toY(env.Q25[k]))
	}
	fmt.Fprintf(&sb, `<path fill="#00a8cc" fill-opacity="0.3" stroke="none" d="%s Z"/>`+"\n", band.String())
	fmt.Fprintf(&sb, `<path fill="none" stroke="#ff6b6b" stroke-width="2" d="%s"/>`+"\n", path(env.Median))

	sb.WriteString("</svg>\n")
	return sb.String()
}

func ExportSVG(path, svg string) error {
	return createAnd(path, func(w io.Writer) error {
		_, err := io.WriteString(w, svg)
		return err
	})
}
