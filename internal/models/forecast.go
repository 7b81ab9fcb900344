package models

// Forecast is the normalized payload of a forecast_N call.
type Forecast struct {
	Region    string    `json:"region"`
	Days      int       `json:"forecast_days"`
	CPU       []float64 `json:"predictions_cpu"`
	Storage   []float64 `json:"predictions_storage"`
	Defaulted []string  `json:"defaulted,omitempty"`
}

// ScaleStatus is a scaling verdict.
type ScaleStatus string

const (
	ScaleUp     ScaleStatus = "scale_up"
	ScaleDown   ScaleStatus = "scale_down"
	ScaleStable ScaleStatus = "stable"
)

// ForecastSummary aggregates a forecast horizon.
type ForecastSummary struct {
	Days        int       `json:"days_forecasted"`
	Predictions []float64 `json:"predictions"`
	Average     float64   `json:"avg_forecast"`
	Min         float64   `json:"min_forecast"`
	Max         float64   `json:"max_forecast"`
	Trend       string    `json:"trend"`
}

// CapacityAnalysis compares the forecast to provisioned capacity.
type CapacityAnalysis struct {
	AverageForecast float64     `json:"avg_forecast"`
	Capacity        float64     `json:"capacity"`
	Utilization     float64     `json:"utilization"`
	Status          ScaleStatus `json:"status"`
	Recommendation  string      `json:"recommendation"`
}

// DriftStatus is the monitoring verdict on model health.
type DriftStatus string

const (
	DriftStable   DriftStatus = "stable"
	DriftDetected DriftStatus = "drift_detected"
	DriftStale    DriftStatus = "stale"
)

// Monitoring is the normalized payload of the monitoring call. Reports
// embed the same shape as their model health block.
type Monitoring struct {
	MAPE             float64     `json:"mape"`
	Threshold        float64     `json:"threshold"`
	DaysSinceRetrain float64     `json:"days_since_retrain"`
	Status           DriftStatus `json:"status"`
	Message          string      `json:"message"`
	Recommendation   string      `json:"recommendation"`
	RetrainTriggered bool        `json:"retrain_triggered"`
}

// Drifting reports whether the model needs retraining.
func (m Monitoring) Drifting() bool {
	return m.Status == DriftDetected || m.Status == DriftStale
}

// Report is the normalized payload of the report call.
type Report struct {
	Summary   ForecastSummary  `json:"forecast_summary"`
	Capacity  CapacityAnalysis `json:"capacity_analysis"`
	Health    Monitoring       `json:"model_health"`
	Defaulted []string         `json:"defaulted,omitempty"`
}

// Region is one entry of the multi-region comparison.
type Region struct {
	Name           string    `json:"name"`
	CPUUsage       float64   `json:"cpuUsage"`
	StorageUsage   float64   `json:"storageUsage"`
	Forecast       []float64 `json:"forecast"`
	PeakHours      []string  `json:"peakHours"`
	Recommendation string    `json:"recommendation"`
}

// ScaleAction is the optimization step suggested for the next cycle.
type ScaleAction string

const (
	ActionIncrease ScaleAction = "increase"
	ActionDecrease ScaleAction = "decrease"
	ActionStable   ScaleAction = "stable"
)

// Verdict maps the action onto a scaling verdict.
func (a ScaleAction) Verdict() ScaleStatus {
	switch a {
	case ActionIncrease:
		return ScaleUp
	case ActionDecrease:
		return ScaleDown
	default:
		return ScaleStable
	}
}

// Optimization is the normalized payload of the optimization call.
type Optimization struct {
	Region           string      `json:"region"`
	Status           ScaleStatus `json:"status"`
	LoadLevel        string      `json:"load_level"`
	Action           ScaleAction `json:"action"`
	Recommendation   string      `json:"recommendation"`
	SuggestedChange  float64     `json:"suggested_change"`
	NextCyclePercent float64     `json:"cpu_forecast_next_cycle_percent"`
}

// LoadedStatus is the status the service reports for a loaded component.
const LoadedStatus = "loaded"

// ModelInfo describes one prediction model the service has loaded.
type ModelInfo struct {
	Status   string   `json:"status"`
	Type     string   `json:"type"`
	Features int      `json:"n_features"`
	Names    []string `json:"features,omitempty"`
}

// DatasetInfo describes the history the service forecasts from.
type DatasetInfo struct {
	Status  string `json:"status"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// ServiceStatus is the normalized payload of the metrics call.
type ServiceStatus struct {
	CPUModel     ModelInfo   `json:"cpu_model"`
	StorageModel ModelInfo   `json:"storage_model"`
	Dataset      DatasetInfo `json:"dataset"`
	Defaulted    []string    `json:"defaulted,omitempty"`
}

// Loaded reports whether both models and the dataset are loaded.
func (s ServiceStatus) Loaded() bool {
	return s.CPUModel.Status == LoadedStatus &&
		s.StorageModel.Status == LoadedStatus &&
		s.Dataset.Status == LoadedStatus
}
