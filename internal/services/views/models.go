package views

import (
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/ranking"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/services/catalog"
)

// Models is the data behind the model comparison table.
type Models struct {
	Rows    []models.ModelRanking `json:"rows"`
	Metrics []string              `json:"metrics"`
	Sort    ranking.Sorter        `json:"sort"`
	Best    string                `json:"best"`
}

// BuildModels scores and orders records. Invalid metric values fail the
// whole table so no out-of-range score is ever shown.
func BuildModels(records []models.ModelMetricRecord, sorter ranking.Sorter) (Models, error) {
	if sorter.Key == "" {
		sorter.Key = ranking.CanonicalMetric
	}
	rows, err := ranking.Rank(records, nil, sorter)
	if err != nil {
		return Models{}, err
	}

	m := Models{Rows: rows, Metrics: ranking.MetricNames(records), Sort: sorter}
	if best, ok := ranking.Best(records); ok {
		m.Best = best.Name
	}
	return m, nil
}

// FallbackModels is shown when the catalog cannot be ranked on first load.
func FallbackModels() Models {
	m, err := BuildModels(catalog.Default(), ranking.Sorter{Key: ranking.CanonicalMetric})
	if err != nil {
		return Models{Sort: ranking.Sorter{Key: ranking.CanonicalMetric}}
	}
	return m
}
