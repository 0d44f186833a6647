// Package export renders body trajectories as standalone SVG documents.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/vector"
)

// Track is the path of one body in simulation coordinates. When Faded is set,
// the older half of the path is stroked in it. Opacity 0 means 0.7.
type Track struct {
	Name    string
	Color   string
	Faded   string
	Opacity float64
	Points  []vector.Vector
}

// SystemTracks collects every visible body's trail, ending at its current
// position.
func SystemTracks(sys *celestial.System) []Track {
	tracks := make([]Track, 0, len(sys.Bodies))
	for _, b := range sys.Bodies {
		if !b.Visible {
			continue
		}
		pts := b.Trail().Points()
		if n := len(pts); n == 0 || pts[n-1] != b.Position {
			pts = append(pts, b.Position)
		}
		tracks = append(tracks, Track{
			Name:    b.Name,
			Color:   b.Color.Hex(),
			Faded:   b.Color.Fade(0.6).Hex(),
			Opacity: float64(b.Color.Trail().A) / 255,
			Points:  pts,
		})
	}
	return tracks
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func trackBounds(tracks []Track) (bounds, bool) {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	found := false
	for _, t := range tracks {
		for _, p := range t.Points {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				continue
			}
			b.minX = math.Min(b.minX, p.X)
			b.maxX = math.Max(b.maxX, p.X)
			b.minY = math.Min(b.minY, p.Y)
			b.maxY = math.Max(b.maxY, p.Y)
			found = true
		}
	}
	return b, found
}

// WriteSVG draws tracks on a width×height dark canvas. Both axes share one
// scale so orbits keep their shape; y grows upwards. Non-finite points are
// skipped.
func WriteSVG(w io.Writer, tracks []Track, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("export: invalid canvas %dx%d", width, height)
	}
	b, ok := trackBounds(tracks)
	if !ok {
		return ErrNoPoints
	}

	span := math.Max(b.maxX-b.minX, b.maxY-b.minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	scale := math.Min(float64(width), float64(height)) / span
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	project := func(p vector.Vector) (float64, float64) {
		return float64(width)/2 + (p.X-cx)*scale, float64(height)/2 - (p.Y-cy)*scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, t := range tracks {
		color := t.Color
		if color == "" {
			color = "#ffffff"
		}
		opacity := t.Opacity
		if opacity <= 0 {
			opacity = 0.7
		}

		var xs, ys []float64
		for _, p := range t.Points {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				continue
			}
			x, y := project(p)
			xs, ys = append(xs, x), append(ys, y)
		}
		n := len(xs)
		if n == 0 {
			continue
		}

		fmt.Fprintf(&sb, "<g id=%q>\n", t.Name)
		switch {
		case t.Faded != "" && n >= 4:
			mid := n / 2
			writePath(&sb, t.Faded, opacity, xs[:mid+1], ys[:mid+1])
			writePath(&sb, color, opacity, xs[mid:], ys[mid:])
		case n > 1:
			writePath(&sb, color, opacity, xs, ys)
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n</g>\n", xs[n-1], ys[n-1], color)
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writePath(sb *strings.Builder, color string, opacity float64, xs, ys []float64) {
	fmt.Fprintf(sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" stroke-opacity=\"%.2f\" d=\"", color, opacity)
	for i := range xs {
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", xs[i], ys[i])
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", xs[i], ys[i])
		}
	}
	sb.WriteString("\"/>\n")
}
