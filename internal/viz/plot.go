package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/swarmstat/internal/aggregate"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/zone"
)

// PlotOptions sizes a chart. Zero values pick the defaults.
type PlotOptions struct {
	Width, Height int
	Caption       string
}

func (o PlotOptions) options(extra ...asciigraph.Option) []asciigraph.Option {
	width, height := o.Width, o.Height
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 12
	}
	opts := []asciigraph.Option{asciigraph.Width(width), asciigraph.Height(height), asciigraph.Precision(2)}
	if o.Caption != "" {
		opts = append(opts, asciigraph.Caption(o.Caption))
	}
	return append(opts, extra...)
}

// scoreBounds pins the y axis to the score range [0, 1].
var scoreBounds = []asciigraph.Option{asciigraph.LowerBound(0), asciigraph.UpperBound(1)}

// PlotSeries charts one run's sampled scores.
func PlotSeries(s swarm.Series, o PlotOptions) string {
	if s.Len() == 0 {
		return ""
	}
	if o.Caption == "" {
		o.Caption = fmt.Sprintf("cohesion, %d samples every %d rows", s.Len(), s.Sampling.Stride)
	}
	return asciigraph.Plot(s.Values, o.options(scoreBounds...)...)
}

// PlotEnvelope charts the median with its interquartile band. With overlay
// set the raw runs are drawn underneath in a muted color.
func PlotEnvelope(env *aggregate.Envelope, overlay bool, o PlotOptions) string {
	if env.Len() == 0 {
		return ""
	}
	if o.Caption == "" {
		o.Caption = fmt.Sprintf("median and Q25-Q75 of %d runs", len(env.Runs))
	}

	var data [][]float64
	var colors []asciigraph.AnsiColor
	if overlay {
		for _, s := range env.Runs {
			data = append(data, s.Values)
			colors = append(colors, asciigraph.DarkGray)
		}
	}
	data = append(data, env.Q25, env.Q75, env.Median)
	colors = append(colors, asciigraph.SteelBlue, asciigraph.SteelBlue, asciigraph.Red)

	opts := o.options(scoreBounds...)
	opts = append(opts, asciigraph.SeriesColors(colors...))
	return asciigraph.PlotMany(data, opts...)
}

// PlotOccupancy charts the number of robots inside the zone per timestep.
// Long scans are reduced to at most width points by taking each bucket's
// maximum.
func PlotOccupancy(occ *zone.Occupancy, o PlotOptions) string {
	if len(occ.Counts) == 0 {
		return ""
	}
	if o.Caption == "" {
		o.Caption = fmt.Sprintf("robots inside ±%.3f over %d steps", occ.Zone.HalfWidth, len(occ.Counts))
	}
	width := o.Width
	if width <= 0 {
		width = 60
	}
	return asciigraph.Plot(downsampleMax(occ.Counts, width), o.options(asciigraph.LowerBound(0))...)
}

func downsampleMax(counts []int, width int) []float64 {
	buckets := len(counts)
	if buckets > width {
		buckets = width
	}
	out := make([]float64, buckets)
	for b := range out {
		lo := b * len(counts) / buckets
		hi := (b + 1) * len(counts) / buckets
		m := counts[lo]
		for _, c := range counts[lo:hi] {
			m = max(m, c)
		}
		out[b] = float64(m)
	}
	return out
}
