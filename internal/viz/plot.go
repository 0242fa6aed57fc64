// Package viz renders sampled traces in the terminal: static ASCII
// plots of scalar series and a live view of a running chain.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/sjfleming/ssDNA-MCMC/internal/analysis"
)

// PlotSeries renders a scalar series as an ASCII graph with a caption.
func PlotSeries(series []float64, caption string, width, height int) string {
	if len(series) == 0 {
		return fmt.Sprintf("%s: no data\n", caption)
	}
	graph := asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
	s := analysis.Summarize(series)
	return fmt.Sprintf("%s\nmean %.4f  stddev %.4f  min %.4f  max %.4f\n",
		graph, s.Mean, s.StdDev, s.Min, s.Max)
}

// Sparkline renders a compact single-line graph of the most recent
// values, for the live view.
func Sparkline(series []float64, width int) string {
	if len(series) == 0 {
		return strings.Repeat(" ", width)
	}
	blocks := []rune("▁▂▃▄▅▆▇█")
	if len(series) > width {
		series = series[len(series)-width:]
	}

	min, max := series[0], series[0]
	for _, v := range series {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	var b strings.Builder
	for _, v := range series {
		idx := 0
		if span > 0 {
			idx = int((v - min) / span * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}
