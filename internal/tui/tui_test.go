package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/watersim/internal/config"
	"github.com/san-kum/watersim/internal/physics"
)

func TestLiveRendererFrame(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "reference", physics.Bounds{Width: 700, Height: 200}, 0)

	set := physics.Set{{Pos: physics.Vec2{X: 0, Y: 0}}, {Pos: physics.Vec2{X: 700, Y: 200}}}
	r.OnTick(physics.ViewOf(set), 3)

	frame := out.String()
	if !strings.HasPrefix(frame, clearScreen) {
		t.Error("frame should start by clearing the screen")
	}
	if !strings.Contains(frame, "tick=3  n=2") {
		t.Errorf("missing header in %q", frame)
	}
	if got := strings.Count(frame, "█"); got != 2 {
		t.Errorf("expected 2 occupied cells, got %d", got)
	}
	if got := strings.Count(frame, "|\n"); got != height {
		t.Errorf("expected %d canvas rows, got %d", height, got)
	}
}

func TestLiveRendererThrottles(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "x", physics.Bounds{Width: 10, Height: 10}, 1)
	v := physics.ViewOf(physics.Set{{}})

	r.OnTick(v, 1)
	r.OnTick(v, 2)
	if got := strings.Count(out.String(), clearScreen); got != 1 {
		t.Errorf("expected one frame within a second, got %d", got)
	}
}

func TestLiveAppSteps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles = 30

	app, err := NewLiveApp(cfg)
	if err != nil {
		t.Fatalf("new live app: %v", err)
	}

	next, _ := app.Update(tickMsg{})
	next, _ = next.Update(tickMsg{})
	m := next.(model)
	if m.buf.Tick() != 2 {
		t.Errorf("expected 2 ticks, got %d", m.buf.Tick())
	}
	if len(m.history) != 2 {
		t.Errorf("expected 2 energy samples, got %d", len(m.history))
	}
	if !strings.Contains(m.View(), "tick 2") {
		t.Error("view should show the tick counter")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	next, _ = next.Update(tickMsg{})
	if next.(model).buf.Tick() != 2 {
		t.Error("paused model must not advance")
	}
}

func TestLiveAppFractionalSpeed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles = 20

	app, err := NewLiveApp(cfg)
	if err != nil {
		t.Fatalf("new live app: %v", err)
	}
	m := app.(model)
	m.speed = 0.25

	var next tea.Model = m
	for i := 0; i < 3; i++ {
		next, _ = next.Update(tickMsg{})
	}
	if got := next.(model).buf.Tick(); got != 0 {
		t.Errorf("expected no ticks after 3 frames at x0.25, got %d", got)
	}
	next, _ = next.Update(tickMsg{})
	if got := next.(model).buf.Tick(); got != 1 {
		t.Errorf("expected 1 tick after 4 frames at x0.25, got %d", got)
	}

	m = next.(model)
	m.speed = 2
	next, _ = m.Update(tickMsg{})
	if got := next.(model).buf.Tick(); got != 3 {
		t.Errorf("expected 3 ticks after a frame at x2, got %d", got)
	}
}

func TestLiveAppEnergyHistory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Particles = 25

	app, err := NewLiveApp(cfg)
	if err != nil {
		t.Fatalf("new live app: %v", err)
	}
	next, _ := app.Update(tickMsg{})
	m := next.(model)
	want := physics.KineticEnergy(m.buf.Snapshot())
	if got := m.history[len(m.history)-1]; got != want {
		t.Errorf("expected energy %v, got %v", want, got)
	}
}

func TestConfigEditsPreset(t *testing.T) {
	m := newModel()
	m.cursor = 0
	next, _ := m.menuKey(tea.KeyMsg{Type: tea.KeyEnter})
	if next.state != stateConfig || next.cfg == nil {
		t.Fatal("enter should open the config view")
	}

	before := next.cfg.Particles
	next, _ = next.configKey(tea.KeyMsg{Type: tea.KeyRight})
	if next.cfg.Particles != before+50 {
		t.Errorf("expected particles %d, got %d", before+50, next.cfg.Particles)
	}
	if config.Presets[next.selected].Particles != before {
		t.Error("editing must not change the shared preset")
	}
}

func TestLiveAppRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Width = 0
	if _, err := NewLiveApp(cfg); err == nil {
		t.Error("expected error for zero width")
	}
}
