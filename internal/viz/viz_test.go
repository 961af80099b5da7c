package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/swarmstat/internal/aggregate"
	"github.com/san-kum/swarmstat/internal/swarm"
	"github.com/san-kum/swarmstat/internal/zone"
)

func dotLit(c *Canvas, x, y int) bool {
	return c.Grid[y/4][x/2]&brailleBit[y%4][x%2] != 0
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !dotLit(c, 0, 0) || !dotLit(c, 3, 3) {
		t.Error("expected dots to be lit")
	}
	if dotLit(c, 1, 0) {
		t.Error("unexpected dot lit")
	}
	if c.Grid[0][0] != 0x2801 || c.Grid[0][1] != 0x2880 {
		t.Errorf("unexpected braille runes %U %U", c.Grid[0][0], c.Grid[0][1])
	}
	if c.String() != "\u2801\u2880\n" {
		t.Errorf("unexpected render %q", c.String())
	}
}

func TestCanvasDot(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Dot(1, 1)
	for _, d := range [][2]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		if !dotLit(c, d[0], d[1]) {
			t.Errorf("expected dot at %v", d)
		}
	}
	if dotLit(c, 0, 0) || dotLit(c, 3, 3) {
		t.Error("dot spilled outside its block")
	}
}

func TestCanvasDrawRect(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawRect(7, 7, 0, 0)

	for x := 0; x <= 7; x++ {
		if !dotLit(c, x, 0) || !dotLit(c, x, 7) {
			t.Fatalf("expected horizontal edges at x=%d", x)
		}
	}
	for y := 0; y <= 7; y++ {
		if !dotLit(c, 0, y) || !dotLit(c, 7, y) {
			t.Fatalf("expected vertical edges at y=%d", y)
		}
	}
	if dotLit(c, 3, 3) {
		t.Error("expected empty interior")
	}
}

func TestArena(t *testing.T) {
	out := Arena([]swarm.Position{{X: 0, Y: 0}, {X: 2, Y: 2}}, []zone.Zone{zone.Default()}, 20, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 20 {
			t.Fatalf("expected 20 columns, got %d", n)
		}
	}
}

func TestPlotSeries(t *testing.T) {
	s := swarm.Series{Sampling: swarm.Sampling{Stride: 100, Count: 4}, Values: []float64{0.1, 0.4, 0.6, 1}}
	out := PlotSeries(s, PlotOptions{Width: 20, Height: 5})
	if out == "" {
		t.Fatal("expected plot")
	}
	if !strings.Contains(out, "4 samples every 100 rows") {
		t.Errorf("expected default caption, got:\n%s", out)
	}

	if PlotSeries(swarm.Series{}, PlotOptions{}) != "" {
		t.Error("expected empty plot for empty series")
	}
}

func TestPlotEnvelope(t *testing.T) {
	sampling := swarm.Sampling{Stride: 1, Count: 3}
	env, err := aggregate.EnvelopeOf([]swarm.Series{
		{Sampling: sampling, Values: []float64{0.1, 0.2, 0.3}},
		{Sampling: sampling, Values: []float64{0.3, 0.5, 0.9}},
	})
	if err != nil {
		t.Fatal(err)
	}

	out := PlotEnvelope(env, true, PlotOptions{Width: 20, Height: 5})
	if !strings.Contains(out, "2 runs") {
		t.Errorf("expected caption naming run count, got:\n%s", out)
	}
}

func TestDownsampleMax(t *testing.T) {
	got := downsampleMax([]int{1, 5, 2, 0, 3, 3}, 3)
	want := []float64{5, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if got := downsampleMax([]int{1, 2}, 10); len(got) != 2 {
		t.Errorf("expected no downsampling, got %v", got)
	}
}

func TestBoxplot(t *testing.T) {
	summaries := []aggregate.Summary{
		{Config: "config_1", N: 3, Min: 0, Q25: 0.25, Median: 0.5, Q75: 0.75, Max: 1},
		{Config: "config_2", N: 0},
	}
	out := Boxplot(summaries, 21)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "┃") || !strings.Contains(lines[0], "├") {
		t.Errorf("expected box glyphs, got %q", lines[0])
	}
}

func TestDistributionTable(t *testing.T) {
	table := &aggregate.Table{
		Configs: []string{"config_1", "config_2"},
		Values:  map[string][]float64{"config_1": {0.52, 0.6}, "config_2": {1}},
	}
	out := DistributionTable(table)
	for _, want := range []string{"config_1", "config_2", "0.520", "1.000"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table:\n%s", want, out)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("expected flat line, got %q", got)
	}
	if Sparkline([]float64{0, 0.5, 1}, 3) == "" {
		t.Error("expected sparkline")
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(ThemeCyberpunk.Name)

	SetTheme("ocean")
	if CurrentTheme.Name != "ocean" {
		t.Errorf("expected ocean theme, got %s", CurrentTheme.Name)
	}
	SetTheme("unknown")
	if CurrentTheme.Name != "cyberpunk" {
		t.Errorf("expected fallback theme, got %s", CurrentTheme.Name)
	}
	if len(ThemeNames()) != 3 {
		t.Errorf("unexpected themes %v", ThemeNames())
	}
}
