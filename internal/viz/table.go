package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/swarmstat/internal/aggregate"
)

// Table renders rows under a header with the current theme.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return Title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.String()
}

func formatScore(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.3f", v)
}

// DistributionTable lays the final scores out one column per configuration
// and one row per seed.
func DistributionTable(t *aggregate.Table) string {
	rows := make([][]string, t.Rows())
	for i := range rows {
		values := t.Row(i)
		row := make([]string, len(values)+1)
		row[0] = fmt.Sprintf("%d", i+1)
		for j, v := range values {
			row[j+1] = formatScore(v)
		}
		rows[i] = row
	}
	return Table(append([]string{"#"}, t.Configs...), rows)
}

// SummaryTable lists the five-number summary of every configuration.
func SummaryTable(summaries []aggregate.Summary) string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Config,
			fmt.Sprintf("%d", s.N),
			formatScore(s.Min),
			formatScore(s.Q25),
			formatScore(s.Median),
			formatScore(s.Q75),
			formatScore(s.Max),
		}
	}
	return Table([]string{"config", "n", "min", "q25", "median", "q75", "max"}, rows)
}

// Boxplot draws one horizontal box per configuration on a shared [0, 1]
// axis: whiskers span min to max, the box spans Q25 to Q75 and ┃ marks the
// median.
func Boxplot(summaries []aggregate.Summary, width int) string {
	if width < 10 {
		width = 10
	}

	label := 0
	for _, s := range summaries {
		label = max(label, lipgloss.Width(s.Config))
	}

	col := func(v float64) int {
		c := int(math.Round(v * float64(width-1)))
		return min(max(c, 0), width-1)
	}

	var b strings.Builder
	for _, s := range summaries {
		line := []rune(strings.Repeat(" ", width))
		if s.N > 0 {
			for c := col(s.Min); c <= col(s.Max); c++ {
				line[c] = '─'
			}
			for c := col(s.Q25); c <= col(s.Q75); c++ {
				line[c] = '█'
			}
			line[col(s.Min)] = '├'
			line[col(s.Max)] = '┤'
			line[col(s.Median)] = '┃'
		}
		fmt.Fprintf(&b, "%-*s %s\n", label, s.Config, MetricValue.Render(string(line)))
	}

	axis := fmt.Sprintf("%-*s", width-1, "0") + "1"
	fmt.Fprintf(&b, "%-*s %s\n", label, "", Subtle.Render(axis))
	return b.String()
}
