package analysis

import (
	"github.com/san-kum/watersim/internal/physics"
)

// DensityGrid counts particles per cell of a cols x rows grid laid over b.
// Particles on the right or bottom edge land in the last cell.
func DensityGrid(v physics.View, b physics.Bounds, cols, rows int) [][]int {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]int, rows)
	for i := range grid {
		grid[i] = make([]int, cols)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return grid
	}

	v.Each(func(_ int, p physics.Vec2) {
		col := int(p.X / b.Width * float64(cols))
		row := int(p.Y / b.Height * float64(rows))
		col = min(max(col, 0), cols-1)
		row = min(max(row, 0), rows-1)
		grid[row][col]++
	})
	return grid
}

var shades = []rune(" ·░▒▓█")

// Shade maps a cell count to a block glyph relative to the densest cell.
func Shade(count, peak int) rune {
	if count <= 0 || peak <= 0 {
		return shades[0]
	}
	levels := len(shades) - 1
	idx := (count*levels + peak - 1) / peak
	return shades[min(idx, levels)]
}

// DensityToASCII renders a density grid, row 0 at the top.
func DensityToASCII(grid [][]int) string {
	peak := 0
	for _, row := range grid {
		for _, c := range row {
			peak = max(peak, c)
		}
	}

	canvas := make([][]rune, len(grid))
	for r, row := range grid {
		canvas[r] = make([]rune, len(row))
		for c, count := range row {
			canvas[r][c] = Shade(count, peak)
		}
	}
	return renderCanvas(canvas)
}
