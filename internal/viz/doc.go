// Package viz renders cohesion results for the terminal.
//
// Time series and envelopes are drawn with asciigraph, tables and boxplots
// with lipgloss, and robot positions on a Braille [Canvas] scaled to the
// arena.
//
//   - [PlotSeries], [PlotEnvelope]: line charts of sampled scores
//   - [PlotOccupancy]: robots inside the zone per timestep
//   - [DistributionTable], [Boxplot]: final score per configuration
//   - [Arena]: end positions with zone outlines
package viz
