package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/swarmstat/internal/cohesion"
	"github.com/san-kum/swarmstat/internal/experiment"
	"github.com/san-kum/swarmstat/internal/sim"
	"github.com/san-kum/swarmstat/internal/swarm"
)

func testCollection() *experiment.RunCollection {
	sampling := swarm.Sampling{Stride: 10, Count: 3}
	outcome := func(cfg string, seed int, values ...float64) experiment.Outcome {
		return experiment.Outcome{
			Run:    experiment.Run{ID: swarm.RunID{Config: cfg, Seed: seed}},
			Result: &sim.Result{Series: swarm.Series{Sampling: sampling, Values: values}},
		}
	}
	return &experiment.RunCollection{Outcomes: []experiment.Outcome{
		outcome("config_1", 1, 0.1, 0.2, 0.4),
		outcome("config_1", 2, 0.2, 0.6, 0.8),
		outcome("config_2", 1, 0.04, 0.04, 1),
	}}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowserNavigation(t *testing.T) {
	b := NewBrowser("test", testCollection())
	if b.err != nil {
		t.Fatalf("unexpected aggregation error: %v", b.err)
	}

	b.Update(key("down"))
	b.Update(key("j"))
	b.Update(key("j"))
	if b.cursor != 2 {
		t.Errorf("expected cursor clamped at 2, got %d", b.cursor)
	}

	b.Update(key("k"))
	if b.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", b.cursor)
	}

	if !strings.Contains(b.View(), "config_1/seed#2") {
		t.Error("expected selected run in view")
	}

	b.Update(key("tab"))
	if b.view != viewEnvelope {
		t.Errorf("expected envelope view, got %d", b.view)
	}
	b.Update(key("tab"))
	if !strings.Contains(b.View(), "median") {
		t.Error("expected summary table in distribution view")
	}
	b.Update(key("tab"))
	if b.view != viewRun {
		t.Errorf("expected view to wrap to run, got %d", b.view)
	}

	_, cmd := b.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestBrowserEmpty(t *testing.T) {
	b := NewBrowser("empty", &experiment.RunCollection{})
	b.Update(key("j"))
	if b.cursor != 0 {
		t.Errorf("expected cursor 0, got %d", b.cursor)
	}
	if !strings.Contains(b.View(), "no runs") {
		t.Error("expected empty list message")
	}
}

func TestBrowserScroll(t *testing.T) {
	coll := testCollection()
	coll.Outcomes = append(coll.Outcomes, coll.Outcomes...)
	b := NewBrowser("scroll", coll)
	b.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	b.Update(key("G"))
	if b.cursor != 5 {
		t.Fatalf("expected cursor at end, got %d", b.cursor)
	}
	if b.offset != 3 {
		t.Errorf("expected offset 3, got %d", b.offset)
	}
}

func TestLiveRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, 2, 1000)

	var o sim.Observer = r
	o.OnSample(0, 0, nil, cohesion.Result{Score: 0.2})
	o.OnSample(1, 10, nil, cohesion.Result{Score: 0.8})

	if got := r.Scores(); len(got) != 2 || got[1] != 0.8 {
		t.Errorf("unexpected scores %v", got)
	}
	if !strings.Contains(buf.String(), "2/2") {
		t.Errorf("expected final frame, got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("expected newline after last sample")
	}
}
