package views

import (
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/normalize"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/pipeline/ranking"
)

func TestBuildForecast(t *testing.T) {
	tests := []struct {
		name        string
		raw         models.RawResponse
		horizon     int
		wantCPU     []float64
		wantStorage []float64
		wantDelta   int64
	}{
		{
			name:        "ExtendsShortSeries",
			raw:         models.RawResponse{"predictions_cpu": []any{10.0, 20.0}},
			horizon:     7,
			wantCPU:     []float64{10, 20, 25, 30, 35, 40, 45},
			wantStorage: []float64{0, 0, 0, 0, 0, 0, 0},
			wantDelta:   -10,
		},
		{
			name:        "FallsBackToPredictions",
			raw:         models.RawResponse{"predictions": []any{80.0, 75.0, 70.0}, "predictions_storage": []any{4.0}},
			horizon:     7,
			wantCPU:     []float64{80, 75, 70, 66.66666666666667, 63.333333333333336, 60.00000000000001, 56.66666666666668},
			wantStorage: []float64{4, 4, 4, 4, 4, 4, 4},
			wantDelta:   5,
		},
		{
			name:        "EmptyFillsZero",
			raw:         models.RawResponse{"predictions_cpu": []any{"n/a"}},
			horizon:     7,
			wantCPU:     []float64{0, 0, 0, 0, 0, 0, 0},
			wantStorage: []float64{0, 0, 0, 0, 0, 0, 0},
			wantDelta:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := BuildForecast(tt.raw, tt.horizon)
			if err != nil {
				t.Fatalf("BuildForecast() error = %v", err)
			}

			if got := v.CPU.Values(); !approxEqual(got, tt.wantCPU) {
				t.Errorf("CPU = %v, want %v", got, tt.wantCPU)
			}
			if got := v.Storage.Values(); !approxEqual(got, tt.wantStorage) {
				t.Errorf("Storage = %v, want %v", got, tt.wantStorage)
			}
			if !reflect.DeepEqual(v.CPU.Labels(), ForecastLabels(tt.horizon)) {
				t.Errorf("labels = %v", v.CPU.Labels())
			}
			if v.CPUKPI.Delta == nil || *v.CPUKPI.Delta != tt.wantDelta {
				t.Errorf("CPUKPI.Delta = %v, want %d", v.CPUKPI.Delta, tt.wantDelta)
			}
		})
	}
}

func TestBuildForecast_Defaulted(t *testing.T) {
	v, err := BuildForecast(models.RawResponse{"predictions_cpu": []any{1.0}}, 30)
	if err != nil {
		t.Fatalf("BuildForecast() error = %v", err)
	}
	if !slices.Contains(v.Defaulted, "storage") {
		t.Errorf("Defaulted = %v, want storage listed", v.Defaulted)
	}
	if v.CPU.Len() != 30 {
		t.Errorf("CPU.Len() = %d, want 30", v.CPU.Len())
	}
	if _, label := v.CPU.At(29); label != "Day 30" {
		t.Errorf("last label = %q, want Day 30", label)
	}
	if v.StorageKPI.Value != "0 GB" {
		t.Errorf("StorageKPI.Value = %q, want 0 GB", v.StorageKPI.Value)
	}
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	raw := models.RawResponse{
		"forecast_summary": map[string]any{
			"predictions":  []any{100.0, 110.0},
			"avg_forecast": 105.0,
			"max_forecast": 110.0,
			"trend":        "increasing",
		},
		"capacity_analysis": map[string]any{
			"capacity":    200.0,
			"utilization": 52.5,
			"status":      "stable",
		},
		"model_health": map[string]any{"mape": 12.0, "status": "drift_detected"},
	}

	v, err := BuildReport(raw, now)
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	if want := []float64{100, 110, 115, 120, 125, 130}; !approxEqual(v.Trend.Values(), want) {
		t.Errorf("Trend = %v, want %v", v.Trend.Values(), want)
	}
	if want := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}; !reflect.DeepEqual(v.Trend.Labels(), want) {
		t.Errorf("labels = %v, want %v", v.Trend.Labels(), want)
	}
	if v.Utilization.Value != "52.5%" {
		t.Errorf("Utilization.Value = %q, want 52.5%%", v.Utilization.Value)
	}
	if v.Report.Health.Status != models.DriftDetected {
		t.Errorf("Health.Status = %q, want drift_detected", v.Report.Health.Status)
	}
	if v.Demand.Subtitle != "trend increasing" {
		t.Errorf("Demand.Subtitle = %q", v.Demand.Subtitle)
	}
}

func TestBuildReport_EmptyPredictionsUseAverage(t *testing.T) {
	raw := models.RawResponse{"forecast_summary": map[string]any{"avg_forecast": 42.0}}
	v, err := BuildReport(raw, time.Now())
	if err != nil {
		t.Fatalf("BuildReport() error = %v", err)
	}

	for i, got := range v.Trend.Values() {
		if got != 42 {
			t.Errorf("Trend[%d] = %v, want 42", i, got)
		}
	}
	if v.Report.Capacity.Status != models.ScaleStable {
		t.Errorf("Capacity.Status = %q, want stable default", v.Report.Capacity.Status)
	}
}

func TestBuildMonitoring(t *testing.T) {
	v, err := BuildMonitoring(models.RawResponse{"mape": 12.4, "threshold": 10.0, "status": "drift_detected"})
	if err != nil {
		t.Fatalf("BuildMonitoring() error = %v", err)
	}

	if !v.Monitoring.Drifting() {
		t.Error("Drifting() = false, want true")
	}
	if v.MAPE.Value != "12.4%" {
		t.Errorf("MAPE.Value = %q, want 12.4%%", v.MAPE.Value)
	}
	if v.MAPE.Delta == nil || *v.MAPE.Delta != 2 {
		t.Errorf("MAPE.Delta = %v, want 2", v.MAPE.Delta)
	}
}

func TestBuildRegions(t *testing.T) {
	raw := models.RawResponse{"regions": []any{
		map[string]any{"name": "East", "cpuUsage": 50.0, "storageUsage": 1200.0},
		map[string]any{"name": "West", "forecast": []any{1.0, 2.0, 3.0, 4.0, 5.0}},
		"garbage",
	}}

	v, err := BuildRegions(raw)
	if err != nil {
		t.Fatalf("BuildRegions() error = %v", err)
	}
	if len(v.Regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(v.Regions))
	}

	east := v.Regions[0]
	if want := []float64{50, 50, 50, 50}; !approxEqual(east.Forecast.Values(), want) {
		t.Errorf("East forecast = %v, want %v", east.Forecast.Values(), want)
	}
	if east.Storage.Value != "1,200 GB" {
		t.Errorf("East storage = %q, want 1,200 GB", east.Storage.Value)
	}

	west := v.Regions[1]
	if want := []float64{1, 2, 3, 4}; !approxEqual(west.Forecast.Values(), want) {
		t.Errorf("West forecast = %v, want %v", west.Forecast.Values(), want)
	}
	if want := []string{"T+1", "T+2", "T+3", "T+4"}; !reflect.DeepEqual(west.Forecast.Labels(), want) {
		t.Errorf("West labels = %v", west.Forecast.Labels())
	}
}

func TestBuildOptimization(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawResponse
		want models.ScaleStatus
	}{
		{"ExplicitStatus", models.RawResponse{"status": "scale_down", "action": "decrease"}, models.ScaleDown},
		{"LoadLevelLabel", models.RawResponse{"status": "High Load", "action": "increase"}, models.ScaleUp},
		{"StableAction", models.RawResponse{"action": "stable", "cpu_forecast_next_cycle_percent": 55.0}, models.ScaleStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := BuildOptimization(tt.raw)
			if err != nil {
				t.Fatalf("BuildOptimization() error = %v", err)
			}
			if got := v.Optimization.Status; got != tt.want {
				t.Errorf("Status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_MissingRequiredField(t *testing.T) {
	failed := models.RawResponse{"error": "model not loaded"}

	tests := []struct {
		name  string
		build func() error
		field string
	}{
		{"forecast", func() error { _, err := BuildForecast(failed, 7); return err }, "cpu"},
		{"report", func() error { _, err := BuildReport(failed, time.Now()); return err }, "avg_forecast"},
		{"monitoring", func() error { _, err := BuildMonitoring(failed); return err }, "mape"},
		{"regions", func() error { _, err := BuildRegions(failed); return err }, "regions"},
		{"optimization", func() error { _, err := BuildOptimization(failed); return err }, "action"},
		{"capacity", func() error { _, err := BuildCapacity(failed); return err }, "utilization"},
		{"status", func() error { _, err := BuildServiceStatus(failed); return err }, "cpu_model_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			var shape *normalize.ShapeError
			if !errors.As(err, &shape) {
				t.Fatalf("error = %v, want a ShapeError", err)
			}
			if !slices.Contains(shape.Fields, tt.field) {
				t.Errorf("ShapeError.Fields = %v, want %s listed", shape.Fields, tt.field)
			}
			if shape.Detail != "model not loaded" {
				t.Errorf("ShapeError.Detail = %q, want the service message", shape.Detail)
			}
		})
	}
}

func TestBuildForecast_OptionalStorageKeepsDefault(t *testing.T) {
	v, err := BuildForecast(models.RawResponse{"predictions_cpu": []any{70.0}}, 7)
	if err != nil {
		t.Fatalf("BuildForecast() error = %v, want nil without storage", err)
	}
	if got := v.Storage.Values(); !approxEqual(got, make([]float64, 7)) {
		t.Errorf("Storage = %v, want zeros", got)
	}
}

func TestFallbacks(t *testing.T) {
	if got := FallbackForecast(30).CPU.Len(); got != 30 {
		t.Errorf("FallbackForecast(30).CPU.Len() = %d, want 30", got)
	}
	if got := FallbackReport(time.Now()).Trend.Len(); got != ReportMonths {
		t.Errorf("FallbackReport().Trend.Len() = %d, want %d", got, ReportMonths)
	}
	if FallbackMonitoring().Monitoring.Drifting() {
		t.Error("FallbackMonitoring() is drifting")
	}
	r := FallbackRegions([]string{"East", "West"})
	if len(r.Regions) != 2 || r.Regions[1].Forecast.Len() != RegionSlots {
		t.Errorf("FallbackRegions() = %+v", r)
	}
	if got := FallbackOptimization("East").Optimization.Status; got != models.ScaleStable {
		t.Errorf("FallbackOptimization().Status = %q", got)
	}
	if m := FallbackModels(); m.Best == "" || len(m.Rows) == 0 {
		t.Errorf("FallbackModels() = %+v", m)
	}
}

func TestBuildModels(t *testing.T) {
	lower := map[string]models.Direction{"mape": models.LowerIsBetter}
	records := []models.ModelMetricRecord{
		{Name: "A", Metrics: map[string]float64{"mape": 2}, Direction: lower},
		{Name: "B", Metrics: map[string]float64{"mape": 1}, Direction: lower},
	}

	m, err := BuildModels(records, ranking.Sorter{})
	if err != nil {
		t.Fatalf("BuildModels() error = %v", err)
	}
	if m.Best != "B" || !m.Rows[0].Best || m.Rows[0].Record.Name != "B" {
		t.Errorf("Best = %q, first row = %q", m.Best, m.Rows[0].Record.Name)
	}
	if m.Sort.Key != ranking.CanonicalMetric {
		t.Errorf("Sort.Key = %q, want default mape", m.Sort.Key)
	}

	m, err = BuildModels(records, ranking.Sorter{Key: "mape", Order: ranking.Descending})
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows[0].Record.Name != "A" || m.Best != "B" {
		t.Errorf("descending first = %q, best = %q", m.Rows[0].Record.Name, m.Best)
	}
}

func TestBuildModels_Errors(t *testing.T) {
	if _, err := BuildModels(nil, ranking.Sorter{}); !errors.Is(err, ranking.ErrNoRecords) {
		t.Errorf("BuildModels(nil) error = %v, want ErrNoRecords", err)
	}

	bad := []models.ModelMetricRecord{{
		Name:      "A",
		Metrics:   map[string]float64{"mape": -1},
		Direction: map[string]models.Direction{"mape": models.LowerIsBetter},
	}}
	if _, err := BuildModels(bad, ranking.Sorter{}); !errors.Is(err, ranking.ErrInvalidMetric) {
		t.Errorf("BuildModels(negative) error = %v, want ErrInvalidMetric", err)
	}
}

func approxEqual(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		d := got[i] - want[i]
		if d > 1e-9 || d < -1e-9 {
			return false
		}
	}
	return true
}

func TestBuildModels_NoCanonicalMetric(t *testing.T) {
	lower := map[string]models.Direction{"rmse": models.LowerIsBetter}
	records := []models.ModelMetricRecord{
		{Name: "A", Metrics: map[string]float64{"rmse": 900}, Direction: lower},
		{Name: "B", Metrics: map[string]float64{"rmse": 100}, Direction: lower},
	}

	m, err := BuildModels(records, ranking.Sorter{Key: "rmse"})
	if err != nil {
		t.Fatalf("BuildModels() error = %v", err)
	}
	if m.Best != "" {
		t.Errorf("Best = %q, want none", m.Best)
	}
	for _, row := range m.Rows {
		if row.Best {
			t.Errorf("%s flagged best", row.Record.Name)
		}
	}
}

func TestBuildCapacity(t *testing.T) {
	v, err := BuildCapacity(models.RawResponse{
		"avg_forecast":   8600.0,
		"capacity":       10000.0,
		"utilization":    86.0,
		"status":         "scale_up",
		"recommendation": "Scale UP: Add approx 1500 units (15% increase recommended)",
	})
	if err != nil {
		t.Fatalf("BuildCapacity() error = %v", err)
	}
	if v.Utilization.Value != "86.0%" || v.Utilization.Subtitle != "scale_up" {
		t.Errorf("Utilization = %+v", v.Utilization)
	}
	if v.Headroom.Value != "1,400" {
		t.Errorf("Headroom.Value = %q, want 1,400", v.Headroom.Value)
	}

	fb := FallbackCapacity(10000)
	if fb.Capacity.Status != models.ScaleStable || fb.Headroom.Value != "10,000" {
		t.Errorf("FallbackCapacity() = %+v", fb)
	}
}

func TestBuildServiceStatus(t *testing.T) {
	v, err := BuildServiceStatus(models.RawResponse{
		"cpu_model":     map[string]any{"status": "loaded", "type": "XGBRegressor", "n_features": 12.0},
		"storage_model": map[string]any{"status": "loaded", "type": "XGBRegressor", "n_features": 10.0},
		"dataset":       map[string]any{"status": "loaded", "rows": 2000.0, "columns": 14.0},
	})
	if err != nil {
		t.Fatalf("BuildServiceStatus() error = %v", err)
	}
	if !v.Loaded || v.Status.CPUModel.Type != "XGBRegressor" || v.Status.Dataset.Rows != 2000 {
		t.Errorf("ServiceStatus = %+v", v)
	}

	if fb := FallbackServiceStatus(); fb.Loaded || fb.Status.CPUModel.Status != "unknown" {
		t.Errorf("FallbackServiceStatus() = %+v", fb)
	}
}
