package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

// CanonicalMetric is the error measure used to pick the best model.
const CanonicalMetric = "mape"

// KeyName sorts by model name instead of a metric.
const KeyName = "name"

// Order is a sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Sorter is the current sort selection of a comparison table.
type Sorter struct {
	Key   string
	Order Order
}

// Toggle returns the selection after the user picks key: the same key flips
// the order, a different key starts ascending.
func (s Sorter) Toggle(key string) Sorter {
	if key == s.Key {
		if s.Order == Ascending {
			return Sorter{Key: key, Order: Descending}
		}
		return Sorter{Key: key, Order: Ascending}
	}
	return Sorter{Key: key, Order: Ascending}
}

// Sort returns a copy of records ordered by the raw value of s.Key. The
// sort is stable in both directions. Records lacking the key keep their
// relative order after all records that have it.
func Sort(records []models.ModelMetricRecord, s Sorter) []models.ModelMetricRecord {
	var present, missing []models.ModelMetricRecord
	for _, r := range records {
		if s.Key == KeyName {
			present = append(present, r)
			continue
		}
		if _, ok := r.Metric(s.Key); ok {
			present = append(present, r)
		} else {
			missing = append(missing, r)
		}
	}

	compare := func(a, b models.ModelMetricRecord) int {
		if s.Key == KeyName {
			return strings.Compare(a.Name, b.Name)
		}
		return cmp.Compare(a.Metrics[s.Key], b.Metrics[s.Key])
	}
	if s.Order == Descending {
		asc := compare
		compare = func(a, b models.ModelMetricRecord) int { return asc(b, a) }
	}
	slices.SortStableFunc(present, compare)

	out := make([]models.ModelMetricRecord, 0, len(records))
	out = append(out, present...)
	return append(out, missing...)
}

// Best returns the record with the lowest canonical error. Ties go to the
// earlier record. ok is false when no record reports the canonical metric.
func Best(records []models.ModelMetricRecord) (models.ModelMetricRecord, bool) {
	sorted := Sort(records, Sorter{Key: CanonicalMetric, Order: Ascending})
	if len(sorted) == 0 {
		return models.ModelMetricRecord{}, false
	}
	if _, ok := sorted[0].Metric(CanonicalMetric); !ok {
		return models.ModelMetricRecord{}, false
	}
	return sorted[0], true
}

// Rank scores records, flags the best one and orders rows by s.
func Rank(records []models.ModelMetricRecord, metrics []string, s Sorter) ([]models.ModelRanking, error) {
	scores, err := Scores(records, metrics)
	if err != nil {
		return nil, err
	}

	byModel := make(map[string]map[string]int, len(records))
	for _, sc := range scores {
		if byModel[sc.Model] == nil {
			byModel[sc.Model] = make(map[string]int)
		}
		byModel[sc.Model][sc.Metric] = sc.Score
	}
	averages := Averages(scores)
	best, hasBest := Best(records)

	sorted := Sort(records, s)
	rows := make([]models.ModelRanking, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, models.ModelRanking{
			Record:  r,
			Scores:  byModel[r.Name],
			Average: averages[r.Name],
			Best:    hasBest && r.Name == best.Name,
		})
	}
	return rows, nil
}
