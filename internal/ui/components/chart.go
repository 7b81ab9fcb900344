// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/ui/styles"
)

// NoData is shown in place of an empty chart.
const NoData = "No data available"

// Series is one named line of a multi-series chart.
type Series struct {
	Label  string
	Series models.NormalizedSeries
	Color  asciigraph.AnsiColor
	Legend lipgloss.Color
}

func clampChart(width, height int) (int, int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	return width, height
}

// RenderSeriesChart plots a single aligned series with its slot labels
// underneath.
func RenderSeriesChart(s models.NormalizedSeries, width, height int, caption string) string {
	if s.Len() == 0 {
		return styles.HelpStyle.Render(NoData)
	}
	width, height = clampChart(width, height)

	graph := asciigraph.Plot(s.Values(),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
	return graph + "\n" + styles.HelpStyle.Render(labelRow(s.Labels(), width))
}

// RenderMultiSeriesChart plots several series on one axis. Shorter series
// are padded with their last value so every line spans the chart.
func RenderMultiSeriesChart(series []Series, width, height int, caption string) string {
	n := 0
	for _, s := range series {
		n = max(n, s.Series.Len())
	}
	if n == 0 {
		return styles.HelpStyle.Render(NoData)
	}
	width, height = clampChart(width, height)

	data := make([][]float64, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	legend := make([]LegendItem, 0, len(series))
	var labels []string
	for _, s := range series {
		if s.Series.Len() == 0 {
			continue
		}
		data = append(data, padTo(s.Series.Values(), n))
		colors = append(colors, s.Color)
		legend = append(legend, LegendItem{Label: s.Label, Color: s.Legend})
		if s.Series.Len() == n && labels == nil {
			labels = s.Series.Labels()
		}
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		graph,
		styles.HelpStyle.Render(labelRow(labels, width)),
		RenderLegend(legend),
	)
}

func padTo(values []float64, n int) []float64 {
	if len(values) >= n || len(values) == 0 {
		return values
	}
	out := make([]float64, n)
	copy(out, values)
	last := values[len(values)-1]
	for i := len(values); i < n; i++ {
		out[i] = last
	}
	return out
}

// labelRow spreads labels evenly across width, dropping labels that would
// collide with their left neighbour.
func labelRow(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	row := []rune(strings.Repeat(" ", width+len(labels[len(labels)-1])))
	next := 0
	for i, l := range labels {
		pos := 0
		if len(labels) > 1 {
			pos = i * (width - 1) / (len(labels) - 1)
		}
		if pos < next {
			continue
		}
		for j, r := range []rune(l) {
			if pos+j < len(row) {
				row[pos+j] = r
			}
		}
		next = pos + len([]rune(l)) + 1
	}
	return strings.TrimRight(string(row), " ")
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, len(l))
	}

	barWidth := max(width-maxLabelLen-10, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		lines = append(lines, fmt.Sprintf("%*s │%s %.1f", maxLabelLen, label, strings.Repeat("█", barLen), v))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline. Bars are scaled
// between the series minimum and maximum so small swings stay visible.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		v := values[int(float64(i)*step)]
		idx := len(sparkChars) / 2
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkChars)-1))
		}
		result.WriteRune(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}

	return result.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, colorBox+" "+item.Label)
	}
	return strings.Join(parts, "  ")
}
