package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/swarmstat/internal/cohesion"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/viz"
)

const (
	clearLine  = "\r\033[K"
	barWidth   = 30
	sparkWidth = 36
)

// LiveRenderer is a sampler observer that redraws one status line with the
// latest score and a sparkline of the scores so far.
type LiveRenderer struct {
	w         io.Writer
	total     int
	frameRate int
	lastFrame time.Time
	scores    []float64
}

func NewLiveRenderer(w io.Writer, total, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		w:         w,
		total:     total,
		frameRate: frameRate,
		scores:    make([]float64, 0, total),
	}
}

func (r *LiveRenderer) OnSample(k, row int, pos []swarm.Position, res cohesion.Result) {
	r.scores = append(r.scores, res.Score)

	last := k == r.total-1
	if !last && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.render(k, row, res)
	if last {
		fmt.Fprintln(r.w)
	}
}

func (r *LiveRenderer) render(k, row int, res cohesion.Result) {
	var b strings.Builder
	b.WriteString(clearLine)
	fmt.Fprintf(&b, "%s %s ", viz.MetricLabel.Render("sample"), viz.MetricValue.Render(fmt.Sprintf("%d/%d", k+1, r.total)))
	fmt.Fprintf(&b, "%s %s ", viz.MetricLabel.Render("row"), viz.MetricValue.Render(fmt.Sprintf("%d", row)))
	fmt.Fprintf(&b, "%s %.3f ", viz.ScoreBar(res.Score, barWidth), res.Score)
	b.WriteString(viz.Sparkline(r.scores, sparkWidth))
	io.WriteString(r.w, b.String())
}

// Scores returns the scores seen so far.
func (r *LiveRenderer) Scores() []float64 {
	return r.scores
}
