package ascii

import "strings"

// TextGrid renders every whole cell of the grid as a glyph, one string
// per row. Cells the scene does not cover become spaces.
func TextGrid(scene Sampler, p Parameters, ramp Ramp) []string {
	grid := p.GridDims()
	cols, rows := int(grid[0]), int(grid[1])
	lines := make([]string, 0, rows)
	var sb strings.Builder
	for row := 0; row < rows; row++ {
		sb.Reset()
		for col := 0; col < cols; col++ {
			cs := SampleCell(scene, p, col, row)
			if cs.Color[3] == 0 {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteRune(ramp.Glyph(cs.Index))
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines
}
