package views

import (
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/kpi"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/normalize"
)

// Capacity is the data behind the capacity planning card.
type Capacity struct {
	Capacity    models.CapacityAnalysis `json:"capacity"`
	Utilization models.KPI              `json:"utilization_kpi"`
	Headroom    models.KPI              `json:"headroom_kpi"`
}

// BuildCapacity wraps a capacity planning response. A response without a
// utilization figure is an error.
func BuildCapacity(raw models.RawResponse) (Capacity, error) {
	c, rec := normalize.DecodeCapacity(raw)
	if err := note(rec); err != nil {
		return Capacity{}, err
	}
	return capacityView(c), nil
}

func capacityView(c models.CapacityAnalysis) Capacity {
	return Capacity{
		Capacity: c,
		Utilization: kpi.Derive([]float64{c.Utilization}, kpi.Spec{
			Title:    "Planned utilization",
			Subtitle: orDash(string(c.Status)),
			Unit:     kpi.UnitPercent,
		}),
		Headroom: kpi.Derive([]float64{c.Capacity - c.AverageForecast}, kpi.Spec{
			Title:    "Headroom",
			Subtitle: "capacity minus average forecast",
		}),
	}
}

// FallbackCapacity is shown when the first capacity planning load fails.
func FallbackCapacity(capacity float64) Capacity {
	return capacityView(models.CapacityAnalysis{
		Capacity:       capacity,
		Status:         models.ScaleStable,
		Recommendation: "No capacity plan available",
	})
}

// ServiceStatus is the data behind the model service card.
type ServiceStatus struct {
	Status models.ServiceStatus `json:"status"`
	Loaded bool                 `json:"loaded"`
}

// BuildServiceStatus wraps a model status response.
func BuildServiceStatus(raw models.RawResponse) (ServiceStatus, error) {
	s, rec := normalize.DecodeServiceStatus(raw)
	if err := note(rec); err != nil {
		return ServiceStatus{}, err
	}
	return ServiceStatus{Status: s, Loaded: s.Loaded()}, nil
}

// FallbackServiceStatus is shown when the first status load fails.
func FallbackServiceStatus() ServiceStatus {
	unknown := models.ModelInfo{Status: "unknown"}
	return ServiceStatus{Status: models.ServiceStatus{
		CPUModel:     unknown,
		StorageModel: unknown,
		Dataset:      models.DatasetInfo{Status: "unknown"},
	}}
}
