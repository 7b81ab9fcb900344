// Package align maps raw numeric sequences onto fixed-length labelled series.
package align

import (
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

// Align fits values onto the slots named by labels.
//
// A sequence at least as long as labels is truncated. A shorter non-empty
// sequence is extended along step = (last-first)/len, so slot k past the end
// holds last + step*k; a single value therefore repeats. An empty sequence
// fills every slot with fallback. Values are not rounded.
func Align(values []float64, labels []string, fallback float64) models.NormalizedSeries {
	n := len(labels)
	out := make([]float64, n)

	switch {
	case len(values) >= n:
		copy(out, values[:n])
	case len(values) > 0:
		copy(out, values)
		first, last := values[0], values[len(values)-1]
		step := (last - first) / float64(len(values))
		for i := len(values); i < n; i++ {
			out[i] = last + step*float64(i-len(values)+1)
		}
	default:
		for i := range out {
			out[i] = fallback
		}
	}

	// lengths match by construction
	s, _ := models.NewSeries(out, labels)
	return s
}
