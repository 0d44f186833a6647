package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

// PlotOptions sizes an ASCII line plot. Zero values let asciigraph pick.
type PlotOptions struct {
	Width     int
	Height    int
	Caption   string
	Precision uint
}

// Plot draws one series. Non-finite samples are dropped; an empty series
// yields an empty string.
func Plot(values []float64, opts PlotOptions) string {
	return PlotMany([][]float64{values}, nil, opts)
}

// PlotMany overlays several series, optionally naming them in a legend.
func PlotMany(series [][]float64, names []string, opts PlotOptions) string {
	clean := make([][]float64, 0, len(series))
	for _, s := range series {
		if f := finiteOnly(s); len(f) > 0 {
			clean = append(clean, f)
		}
	}
	if len(clean) == 0 {
		return ""
	}

	options := []asciigraph.Option{asciigraph.Precision(opts.Precision)}
	if opts.Width > 0 {
		options = append(options, asciigraph.Width(opts.Width))
	}
	if opts.Height > 0 {
		options = append(options, asciigraph.Height(opts.Height))
	}
	if opts.Caption != "" {
		options = append(options, asciigraph.Caption(opts.Caption))
	}
	if len(clean) > 1 {
		colors := []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.Orange, asciigraph.Green, asciigraph.Magenta}
		used := make([]asciigraph.AnsiColor, len(clean))
		for i := range used {
			used[i] = colors[i%len(colors)]
		}
		options = append(options, asciigraph.SeriesColors(used...))
		if len(names) == len(clean) {
			options = append(options, asciigraph.SeriesLegends(names...))
		}
	}
	return asciigraph.PlotMany(clean, options...)
}

// Relative rescales values to (v - v0)/|v0|, the form used for drift plots.
// A zero first sample leaves the differences unscaled.
func Relative(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	v0 := values[0]
	scale := math.Abs(v0)
	if scale == 0 {
		scale = 1
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - v0) / scale
	}
	return out
}

func finiteOnly(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
