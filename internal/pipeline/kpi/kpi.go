// Package kpi derives headline figures from aligned series.
package kpi

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

// Unit controls how a KPI value is displayed.
type Unit int

const (
	UnitNone Unit = iota
	UnitPercent
	UnitGB
	UnitCurrency
)

// Spec describes one KPI card.
type Spec struct {
	Title    string
	Subtitle string
	Unit     Unit
	// Fallback stands in for the current value when the series is empty.
	Fallback *float64
}

// Derive computes a KPI from the first two slots of values.
//
// current is values[0], else the fallback, else 0. previous is values[1],
// else current. Delta is current-previous rounded half up, and nil when
// values is empty.
func Derive(values []float64, spec Spec) models.KPI {
	var current float64
	switch {
	case len(values) > 0:
		current = values[0]
	case spec.Fallback != nil:
		current = *spec.Fallback
	}

	k := models.KPI{
		Title:    spec.Title,
		Value:    Format(current, spec.Unit),
		Subtitle: spec.Subtitle,
	}
	if len(values) == 0 {
		return k
	}

	previous := current
	if len(values) > 1 {
		previous = values[1]
	}
	delta := models.RoundHalfUp(current - previous)
	k.Delta = &delta
	return k
}

// FromSeries derives a KPI from an aligned series.
func FromSeries(s models.NormalizedSeries, spec Spec) models.KPI {
	return Derive(s.Values(), spec)
}

// Format renders v with the unit. Values are rounded half up except
// percentages, which keep one decimal.
func Format(v float64, unit Unit) string {
	switch unit {
	case UnitPercent:
		return fmt.Sprintf("%.1f%%", v)
	case UnitGB:
		return humanize.Comma(models.RoundHalfUp(v)) + " GB"
	case UnitCurrency:
		return "$" + humanize.Comma(models.RoundHalfUp(v))
	default:
		return humanize.Comma(models.RoundHalfUp(v))
	}
}

// FormatDelta renders a delta with an explicit sign, or "n/a" for nil.
func FormatDelta(d *int64) string {
	if d == nil {
		return "n/a"
	}
	if *d > 0 {
		return "+" + humanize.Comma(*d)
	}
	return humanize.Comma(*d)
}

// Summary holds aggregate statistics over a series.
type Summary struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Summarize computes mean, min and max. An empty input yields a zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1), Count: len(values)}
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(len(values))
	return s
}

// Float returns a pointer to v, for Spec.Fallback.
func Float(v float64) *float64 {
	return &v
}
