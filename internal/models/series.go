// Package models defines data structures and domain types.
package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// RawResponse is an undecoded payload from the forecast service.
type RawResponse map[string]any

// NormalizedSeries is a fixed-length sequence of values paired with display labels.
// It is immutable once built: accessors return copies.
type NormalizedSeries struct {
	values []float64
	labels []string
}

// NewSeries builds a series, copying both slices. Lengths must match.
func NewSeries(values []float64, labels []string) (NormalizedSeries, error) {
	if len(values) != len(labels) {
		return NormalizedSeries{}, fmt.Errorf("series length mismatch: %d values, %d labels", len(values), len(labels))
	}
	s := NormalizedSeries{
		values: make([]float64, len(values)),
		labels: make([]string, len(labels)),
	}
	copy(s.values, values)
	copy(s.labels, labels)
	return s, nil
}

// Len returns the number of slots.
func (s NormalizedSeries) Len() int {
	return len(s.values)
}

// Values returns a copy of the raw values.
func (s NormalizedSeries) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Labels returns a copy of the labels.
func (s NormalizedSeries) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// At returns the value and label at index i.
func (s NormalizedSeries) At(i int) (float64, string) {
	return s.values[i], s.labels[i]
}

// Rounded returns the values rounded half up for display.
func (s NormalizedSeries) Rounded() []int64 {
	out := make([]int64, len(s.values))
	for i, v := range s.values {
		out[i] = RoundHalfUp(v)
	}
	return out
}

// RoundHalfUp rounds to the nearest integer, with halves going toward +Inf.
// -2.5 rounds to -2 and 2.5 rounds to 3. Results outside the int64 range
// saturate and NaN rounds to 0.
func RoundHalfUp(v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	f := math.Floor(v)
	if v-f >= 0.5 {
		f++
	}
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// Point is one labelled slot of a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Points returns the series as label/value pairs.
func (s NormalizedSeries) Points() []Point {
	out := make([]Point, len(s.values))
	for i := range s.values {
		out[i] = Point{Label: s.labels[i], Value: s.values[i]}
	}
	return out
}

// MarshalJSON encodes the series as a list of points.
func (s NormalizedSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Points())
}
