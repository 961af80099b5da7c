package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles, rebuilt by SetTheme.
var (
	Panel       lipgloss.Style
	Title       lipgloss.Style
	Selected    lipgloss.Style
	Subtle      lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	KeyHint     lipgloss.Style
	ErrorText   lipgloss.Style

	SparkHigh lipgloss.Style
	SparkMid  lipgloss.Style
	SparkLow  lipgloss.Style
)

func init() {
	applyTheme(CurrentTheme)
}

func applyTheme(t Theme) {
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)
	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Muted)
	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)
	KeyHint = lipgloss.NewStyle().Italic(true).Foreground(t.Muted)
	ErrorText = lipgloss.NewStyle().Bold(true).Foreground(t.Poor)

	SparkHigh = lipgloss.NewStyle().Foreground(t.Good)
	SparkMid = lipgloss.NewStyle().Foreground(t.Fair)
	SparkLow = lipgloss.NewStyle().Foreground(t.Poor)
}

// scoreStyle colors a cohesion score in [0, 1].
func scoreStyle(v float64) lipgloss.Style {
	switch {
	case v > 0.7:
		return SparkHigh
	case v > 0.3:
		return SparkMid
	}
	return SparkLow
}

// ScoreBar renders a score in [0, 1] as a filled bar.
func ScoreBar(score float64, width int) string {
	filled := int(score * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return scoreStyle(score).Render(bar)
}

// Sparkline renders scores in [0, 1] as one block character per value,
// downsampled to width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		idx := int(v * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		result.WriteString(scoreStyle(v).Render(string(chars[idx])))
	}

	return result.String()
}

func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
