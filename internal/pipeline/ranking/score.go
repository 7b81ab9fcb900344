// Package ranking scores forecasting models on a common 0..100 scale and
// orders them by raw metric.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

var (
	ErrNoRecords         = errors.New("no model records")
	ErrInvalidMetric     = errors.New("metric value must be finite and non-negative")
	ErrMissingDirection  = errors.New("metric has no declared direction")
	ErrDirectionConflict = errors.New("metric declared with conflicting directions")
	ErrScoreOutOfRange   = errors.New("normalized score outside 0..100")
)

// MetricNames returns the sorted union of metric names across records.
func MetricNames(records []models.ModelMetricRecord) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		for name := range r.Metrics {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names
}

// Directions resolves one direction per metric. Every record that declares
// a direction for a metric must agree, and at least one must declare it.
func Directions(records []models.ModelMetricRecord, metrics []string) (map[string]models.Direction, error) {
	dirs := make(map[string]models.Direction, len(metrics))
	for _, metric := range metrics {
		for _, r := range records {
			d, ok := r.Direction[metric]
			if !ok {
				continue
			}
			if !d.Valid() {
				return nil, fmt.Errorf("%w: %s declares %q for %s", ErrMissingDirection, r.Name, d, metric)
			}
			if prev, ok := dirs[metric]; ok && prev != d {
				return nil, fmt.Errorf("%w: %s is %s for some models and %s for %s", ErrDirectionConflict, metric, prev, d, r.Name)
			}
			dirs[metric] = d
		}
		if _, ok := dirs[metric]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingDirection, metric)
		}
	}
	return dirs, nil
}

// Scores normalizes each metric across the record set.
//
// For a lower-is-better metric a record scores round(min/v*100), or 0 when
// v is 0. For a higher-is-better metric it scores round(v/max*100), or 0
// when max is 0. min and max span the records that carry the metric;
// records without it get no score for it. Negative or non-finite raw values
// are rejected, as is any score outside 0..100.
//
// Scores are ordered by record, then by metric in the order given. A nil
// metrics slice scores every metric present.
func Scores(records []models.ModelMetricRecord, metrics []string) ([]models.NormalizedScore, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if metrics == nil {
		metrics = MetricNames(records)
	}
	if err := validate(records, metrics); err != nil {
		return nil, err
	}
	dirs, err := Directions(records, metrics)
	if err != nil {
		return nil, err
	}

	type bounds struct{ min, max float64 }
	span := make(map[string]bounds, len(metrics))
	for _, metric := range metrics {
		b := bounds{min: math.Inf(1), max: math.Inf(-1)}
		for _, r := range records {
			if v, ok := r.Metric(metric); ok {
				b.min = math.Min(b.min, v)
				b.max = math.Max(b.max, v)
			}
		}
		span[metric] = b
	}

	var scores []models.NormalizedScore
	for _, r := range records {
		for _, metric := range metrics {
			v, ok := r.Metric(metric)
			if !ok {
				continue
			}
			b := span[metric]
			var raw float64
			switch dirs[metric] {
			case models.LowerIsBetter:
				if v != 0 {
					raw = b.min / v * 100
				}
			case models.HigherIsBetter:
				if b.max != 0 {
					raw = v / b.max * 100
				}
			}
			score := models.RoundHalfUp(raw)
			if score < 0 || score > 100 {
				return nil, fmt.Errorf("%w: %s.%s scored %d", ErrScoreOutOfRange, r.Name, metric, score)
			}
			scores = append(scores, models.NormalizedScore{Model: r.Name, Metric: metric, Score: int(score)})
		}
	}
	return scores, nil
}

func validate(records []models.ModelMetricRecord, metrics []string) error {
	for _, r := range records {
		for _, metric := range metrics {
			v, ok := r.Metric(metric)
			if !ok {
				continue
			}
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s.%s = %v", ErrInvalidMetric, r.Name, metric, v)
			}
		}
	}
	return nil
}

// Averages returns each model's mean score, rounded half up, keyed by model.
func Averages(scores []models.NormalizedScore) map[string]int {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, s := range scores {
		sums[s.Model] += s.Score
		counts[s.Model]++
	}
	out := make(map[string]int, len(sums))
	for model, sum := range sums {
		out[model] = int(models.RoundHalfUp(float64(sum) / float64(counts[model])))
	}
	return out
}
