package stub

import (
	"fmt"
	"math"
)

// regionMultipliers scales the base forecast per region.
var regionMultipliers = map[string]float64{
	"East":          1.0,
	"West":          1.15,
	"North":         0.9,
	"South":         1.05,
	"East US":       1.0,
	"West Europe":   0.95,
	"Central India": 1.2,
}

const (
	driftThreshold    = 10.0
	daysSinceRetrain  = 25
	staleAfterDays    = 30
	defaultCapacity   = 10000.0
	defaultRegionList = "East US,West US,North Europe,Southeast Asia"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func cpuSeries(days int) []float64 {
	out := make([]float64, days)
	for i := range out {
		x := float64(i)
		out[i] = round2(7200 + 45*x + 260*math.Sin(x*0.9))
	}
	return out
}

func storageSeries(days int) []float64 {
	out := make([]float64, days)
	for i := range out {
		x := float64(i)
		out[i] = round2(5100 + 20*x + 120*math.Cos(x*0.7))
	}
	return out
}

func scale(values []float64, m float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = round2(v * m)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func analyzeCapacity(forecast []float64, capacity float64) map[string]any {
	avg := mean(forecast)
	var utilization float64
	if capacity > 0 {
		utilization = avg / capacity * 100
	}

	status, recommendation := "stable", "STABLE: Current capacity is adequate, no action needed"
	switch {
	case utilization > 80:
		status = "scale_up"
		recommendation = fmt.Sprintf("Scale UP: Add approx %d units (15%% increase recommended)", int(capacity*0.15))
	case utilization < 40:
		status = "scale_down"
		recommendation = fmt.Sprintf("Scale DOWN: Remove approx %d units (10%% reduction possible)", int(capacity*0.10))
	}

	return map[string]any{
		"avg_forecast":   round2(avg),
		"capacity":       capacity,
		"utilization":    round2(utilization),
		"status":         status,
		"recommendation": recommendation,
	}
}

func monitoringStats(mape float64) map[string]any {
	status, message, recommendation := "stable", "Model Stable", "No action required."
	retrain := false

	if mape > driftThreshold {
		status = "drift_detected"
		message = "Drift Detected (High Error)"
		recommendation = fmt.Sprintf("Model MAPE (%.2f%%) exceeds threshold (%.1f%%).", mape, driftThreshold)
		retrain = true
	}
	if daysSinceRetrain > staleAfterDays {
		status = "stale"
		message = "Model Stale (Data > 30 days old)"
		recommendation = fmt.Sprintf("Model hasn't been retrained in %d days.", daysSinceRetrain)
		retrain = true
	}
	if retrain {
		message += " - Retraining Started"
		recommendation += " Automated retraining pipeline has been triggered."
	}

	return map[string]any{
		"mape":               round2(mape),
		"threshold":          driftThreshold,
		"days_since_retrain": daysSinceRetrain,
		"status":             status,
		"message":            message,
		"recommendation":     recommendation,
		"retrain_triggered":  retrain,
	}
}

func optimizationSuggestion(forecast []float64, capacity float64, region string) map[string]any {
	var next float64
	if capacity > 0 && len(forecast) > 0 {
		next = forecast[0] / capacity * 100
	}

	action, status, pct, level, message := "stable", "stable", 0, "Normal", "Capacity is adequate"
	switch {
	case next >= 85:
		action, status, pct, level = "increase", "scale_up", 12, "High Load"
		message = fmt.Sprintf("Increase CPU capacity by +%d%%", pct)
	case next <= 40:
		action, status, pct, level = "decrease", "scale_down", 10, "Low Load"
		message = fmt.Sprintf("Reduce CPU capacity by -%d%%", pct)
	}

	return map[string]any{
		"region":                          region,
		"status":                          status,
		"load_level":                      level,
		"action":                          action,
		"recommendation":                  message,
		"suggested_change":                pct,
		"percentage":                      pct,
		"cpu_forecast_next_cycle_percent": round2(next),
	}
}

func regionEntry(idx int, name string, base []float64, lastCPU, lastStorage float64) map[string]any {
	variation := 1.0 + float64(idx)*0.05
	forecast := make([]float64, len(base))
	for i, v := range base {
		forecast[i] = round1(v * variation)
	}

	peak := 14 + idx*2
	peakHours := []string{
		fmt.Sprintf("%02d:00", ((peak-1)%24+24)%24),
		fmt.Sprintf("%02d:00", peak%24),
		fmt.Sprintf("%02d:00", (peak+1)%24),
	}

	opt := optimizationSuggestion(forecast, defaultCapacity, name)
	return map[string]any{
		"name":           name,
		"cpuUsage":       round1(lastCPU * variation),
		"storageUsage":   round1(lastStorage * variation),
		"forecast":       forecast,
		"peakHours":      peakHours,
		"recommendation": opt["recommendation"],
	}
}

var cpuFeatures = []string{"hour", "day_of_week", "month", "is_weekend", "cpu_lag_1", "cpu_lag_7", "cpu_rolling_mean_7"}

const (
	storageFeatures = 6
	datasetRows     = 2190
	datasetColumns  = 14
)

func modelStatus() map[string]any {
	return map[string]any{
		"cpu_model": map[string]any{
			"status":     "loaded",
			"type":       "XGBRegressor",
			"n_features": len(cpuFeatures),
			"features":   cpuFeatures,
		},
		"storage_model": map[string]any{
			"status":     "loaded",
			"type":       "XGBRegressor",
			"n_features": storageFeatures,
		},
		"dataset": map[string]any{
			"status":  "loaded",
			"shape":   []int{datasetRows, datasetColumns},
			"rows":    datasetRows,
			"columns": datasetColumns,
		},
	}
}
