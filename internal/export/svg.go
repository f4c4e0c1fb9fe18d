package export

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/san-kum/scenecore/internal/viz"
)

const (
	background = "#0a0a0a"
	defaultInk = "#00ff00"
)

// Braille dot-to-bit mapping
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot in
// the color of its cell.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := canvas.Pen(col, row)
			if fill == "" {
				fill = defaultInk
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Point is a 2D sample in world units.
type Point struct{ X, Y float64 }

type Path struct {
	Name   string
	Stroke string
	Points []Point
}

// palette cycles for paths without a stroke color.
var palette = []string{"#ff6633", "#33aaff", "#66dd66", "#ffcc33", "#cc66ff", "#ff6699"}

// TrajectoriesToSVG draws every path into one shared frame, padded by 10% of
// the data range. NaN points break a path. Paths with fewer than two points
// are skipped.
func TrajectoriesToSVG(paths []Path, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, path := range paths {
		for _, p := range path.Points {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				continue
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for i, path := range paths {
		if len(path.Points) < 2 {
			continue
		}
		stroke := path.Stroke
		if stroke == "" {
			stroke = palette[i%len(palette)]
		}

		var d strings.Builder
		pen := false
		for _, p := range path.Points {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				pen = false
				continue
			}
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if !pen {
				if d.Len() > 0 {
					d.WriteByte(' ')
				}
				d.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				pen = true
			} else {
				d.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"><title>%s</title></path>
`, stroke, d.String(), html.EscapeString(path.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG writes s to w.
func WriteSVG(w io.Writer, s string) error {
	if s == "" {
		return fmt.Errorf("export: nothing to draw")
	}
	_, err := io.WriteString(w, s)
	return err
}
