package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/watersim/internal/analysis"
	"github.com/san-kum/watersim/internal/physics"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer prints a density map of the fluid after each tick, at most
// frameRate times a second. It is a sim.Observer.
type LiveRenderer struct {
	out       io.Writer
	title     string
	bounds    physics.Bounds
	frameRate int
	lastFrame time.Time
}

func NewLiveRenderer(out io.Writer, title string, bounds physics.Bounds, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		title:     title,
		bounds:    bounds,
		frameRate: frameRate,
	}
}

func (r *LiveRenderer) OnTick(v physics.View, tick int) {
	if r.frameRate > 0 {
		elapsed := time.Since(r.lastFrame)
		if elapsed < time.Second/time.Duration(r.frameRate) {
			return
		}
	}
	r.lastFrame = time.Now()

	fmt.Fprint(r.out, r.Frame(v, tick))
}

// Frame renders one screen, including the clear sequence.
func (r *LiveRenderer) Frame(v physics.View, tick int) string {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  tick=%d  n=%d\n", r.title, tick, v.Len()))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	grid := analysis.DensityGrid(v, r.bounds, width, height)
	for _, line := range strings.Split(strings.TrimSuffix(analysis.DensityToASCII(grid), "\n"), "\n") {
		b.WriteString("  |")
		b.WriteString(line)
		b.WriteString("|\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	return b.String()
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
