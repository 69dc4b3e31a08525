package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/vec"
)

// Palette cycles through the colors used for body tracks.
var Palette = []string{"#4fc3f7", "#ffb74d", "#e57373", "#81c784", "#ba68c8"}

// TrajectoriesToSVG draws one path per track on a shared, aspect-preserving
// scale, with a dot at each body's last position.
func TrajectoriesToSVG(tracks [][]vec.Vec2, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	n := 0
	for _, tr := range tracks {
		for _, p := range tr {
			if !p.IsFinite() {
				continue
			}
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			n++
		}
	}
	if n == 0 {
		return ""
	}

	// Add padding
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	half := span * 0.55
	minX, minY = cx-half, cy-half
	scale := math.Min(float64(width), float64(height)) / (2 * half)
	offX := (float64(width) - 2*half*scale) / 2
	offY := (float64(height) - 2*half*scale) / 2

	project := func(p vec.Vec2) (float64, float64) {
		return offX + (p.X-minX)*scale, float64(height) - offY - (p.Y-minY)*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, tr := range tracks {
		color := Palette[i%len(Palette)]
		var last *vec.Vec2
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
		move := true
		for j := range tr {
			p := tr[j]
			if !p.IsFinite() {
				move = true
				continue
			}
			x, y := project(p)
			if move {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				move = false
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
			last = &tr[j]
		}
		sb.WriteString("\"/>\n")
		if last != nil {
			x, y := project(*last)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, color))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}
