package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/swarmstat/internal/aggregate"
	"github.com/san-kum/swarmstat/internal/experiment"
	"github.com/san-kum/swarmstat/internal/viz"
)

const (
	viewRun = iota
	viewEnvelope
	viewDistribution
	viewCount
)

var viewNames = [viewCount]string{"run", "envelope", "distribution"}

const listWidth = 26

// Browser is a bubbletea model for paging through the runs of a batch next
// to the batch envelope and distribution.
type Browser struct {
	title    string
	coll     *experiment.RunCollection
	envelope *aggregate.Envelope
	table    *aggregate.Table
	err      error

	cursor, offset int
	view           int
	overlay        bool
	width, height  int
}

// NewBrowser prepares the aggregate views up front. Aggregation errors are
// shown in place of the affected view.
func NewBrowser(title string, coll *experiment.RunCollection) *Browser {
	b := &Browser{title: title, coll: coll, width: 100, height: 30}
	if coll.Len() > 0 {
		b.envelope, b.err = coll.Envelope()
		if b.err == nil {
			b.table, b.err = coll.Distribution()
		}
	}
	return b
}

func (b *Browser) Init() tea.Cmd { return nil }

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.clampOffset()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
			}
		case "down", "j":
			if b.cursor < b.coll.Len()-1 {
				b.cursor++
			}
		case "home", "g":
			b.cursor = 0
		case "end", "G":
			b.cursor = max(b.coll.Len()-1, 0)
		case "tab", "right", "l":
			b.view = (b.view + 1) % viewCount
		case "shift+tab", "left", "h":
			b.view = (b.view + viewCount - 1) % viewCount
		case "o":
			b.overlay = !b.overlay
		case "t":
			names := viz.ThemeNames()
			for i, n := range names {
				if n == viz.CurrentTheme.Name {
					viz.SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		}
		b.clampOffset()
	}
	return b, nil
}

func (b *Browser) listHeight() int {
	return max(b.height-6, 3)
}

func (b *Browser) clampOffset() {
	h := b.listHeight()
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+h {
		b.offset = b.cursor - h + 1
	}
}

func (b *Browser) View() string {
	header := viz.Title.Render(b.title) + "  " +
		viz.Subtle.Render(fmt.Sprintf("%d runs, %d failed", b.coll.Len(), len(b.coll.Failures)))

	tabs := make([]string, viewCount)
	for i, name := range viewNames {
		if i == b.view {
			tabs[i] = viz.Selected.Render("[" + name + "]")
		} else {
			tabs[i] = viz.Subtle.Render(" " + name + " ")
		}
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		viz.Panel.Width(listWidth).Render(b.renderList()),
		viz.Panel.Render(b.renderView()),
	)

	help := viz.KeyHint.Render("j/k move  tab view  o overlay  t theme  q quit")
	return strings.Join([]string{header, strings.Join(tabs, " "), body, help}, "\n")
}

func (b *Browser) renderList() string {
	if b.coll.Len() == 0 {
		return viz.Subtle.Render("no runs")
	}

	var lines []string
	end := min(b.offset+b.listHeight(), b.coll.Len())
	for i := b.offset; i < end; i++ {
		o := b.coll.Outcomes[i]
		final, _ := o.Result.Series.Final()
		line := fmt.Sprintf("%-16s %.3f", truncate(o.Run.ID.String(), 16), final)
		if i == b.cursor {
			line = viz.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (b *Browser) plotOptions() viz.PlotOptions {
	return viz.PlotOptions{
		Width:  max(b.width-listWidth-20, 20),
		Height: max(b.height-12, 5),
	}
}

func (b *Browser) renderView() string {
	if b.coll.Len() == 0 {
		return viz.Subtle.Render("nothing to show")
	}

	switch b.view {
	case viewRun:
		o := b.coll.Outcomes[b.cursor]
		s := o.Result.Series
		final, _ := s.Final()
		stats := fmt.Sprintf("%s %s  %s %s  %s %s",
			viz.MetricLabel.Render("run"), viz.MetricValue.Render(o.Run.ID.String()),
			viz.MetricLabel.Render("final"), viz.MetricValue.Render(fmt.Sprintf("%.3f", final)),
			viz.MetricLabel.Render("objective"), viz.MetricValue.Render(fmt.Sprintf("%.3f", -final)))
		return stats + "\n\n" + viz.PlotSeries(s, b.plotOptions())
	case viewEnvelope:
		if b.err != nil {
			return viz.ErrorText.Render(b.err.Error())
		}
		return viz.PlotEnvelope(b.envelope, b.overlay, b.plotOptions())
	case viewDistribution:
		if b.err != nil {
			return viz.ErrorText.Render(b.err.Error())
		}
		summaries := b.table.Summaries()
		return viz.SummaryTable(summaries) + "\n" + viz.Boxplot(summaries, max(b.plotOptions().Width, 20))
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Browse runs the browser full screen until the user quits.
func Browse(title string, coll *experiment.RunCollection) error {
	p := tea.NewProgram(NewBrowser(title, coll), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
