// Package stub is a local stand-in for the forecast service. It serves the
// same endpoints with deterministic data and can inject per-endpoint faults.
package stub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
)

// Endpoint names used for fault injection.
const (
	EndpointForecast     = "forecast"
	EndpointReport       = "report"
	EndpointMonitoring   = "monitoring"
	EndpointMultiRegion  = "multi_region"
	EndpointOptimization = "optimization"
	EndpointCapacity     = "capacity_planning"
	EndpointModelStatus  = "metrics"
)

// Fault describes how an endpoint misbehaves.
type Fault struct {
	// Status, when non-zero, is returned with an error body.
	Status int
	// Malformed replaces the body with invalid JSON.
	Malformed bool
	// Body replaces the normal payload, for shape failures.
	Body map[string]any
	// Delay is slept before responding.
	Delay time.Duration
}

// Service holds the stub's fault table and counters.
type Service struct {
	mu     sync.RWMutex
	faults map[string]Fault
	hits   map[string]int
	mape   float64
}

// New creates a stub whose monitoring endpoint reports mape when the
// caller does not pass one.
func New(mape float64) *Service {
	return &Service{
		faults: make(map[string]Fault),
		hits:   make(map[string]int),
		mape:   mape,
	}
}

// SetFault installs a fault for endpoint.
func (s *Service) SetFault(endpoint string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[endpoint] = f
}

// ClearFaults removes every fault.
func (s *Service) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]Fault)
}

// SetMAPE changes the error the monitoring endpoint reports by default.
func (s *Service) SetMAPE(mape float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mape = mape
}

// Hits returns how many requests endpoint has served.
func (s *Service) Hits(endpoint string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hits[endpoint]
}

// NewRouter wires the stub endpoints.
func NewRouter(s *Service) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.health).Methods("GET")
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/forecast_{days:[0-9]+}", s.forecast).Methods("GET")
	api.HandleFunc("/report", s.report).Methods("GET")
	api.HandleFunc("/monitoring", s.monitoring).Methods("GET")
	api.HandleFunc("/multi_region", s.multiRegion).Methods("GET")
	api.HandleFunc("/optimization", s.optimization).Methods("POST")
	api.HandleFunc("/capacity_planning", s.capacityPlanning).Methods("POST")
	api.HandleFunc("/metrics", s.modelStatus).Methods("GET")
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Endpoint not found"})
	})

	return r
}

func (s *Service) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "running", "message": "forecast stub"})
}

// serve applies any fault for endpoint, then writes payload.
func (s *Service) serve(w http.ResponseWriter, endpoint string, payload func() (map[string]any, int)) {
	s.mu.Lock()
	s.hits[endpoint]++
	fault, faulty := s.faults[endpoint]
	s.mu.Unlock()

	if faulty {
		if fault.Delay > 0 {
			time.Sleep(fault.Delay)
		}
		switch {
		case fault.Status != 0:
			writeJSON(w, fault.Status, map[string]any{"error": "injected fault"})
			return
		case fault.Malformed:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"predictions": [1, 2,`))
			return
		case fault.Body != nil:
			writeJSON(w, http.StatusOK, fault.Body)
			return
		}
	}

	body, status := payload()
	writeJSON(w, status, body)
}

func (s *Service) forecast(w http.ResponseWriter, r *http.Request) {
	s.serve(w, EndpointForecast, func() (map[string]any, int) {
		days, _ := strconv.Atoi(mux.Vars(r)["days"])
		if days != 7 && days != 30 {
			return map[string]any{"error": "Endpoint not found"}, http.StatusNotFound
		}
		region := r.URL.Query().Get("region")
		if region == "" {
			region = "East"
		}
		m, ok := regionMultipliers[region]
		if !ok {
			m = 1.0
		}
		cpu := scale(cpuSeries(days), m)
		return map[string]any{
			"forecast_days":       days,
			"region":              region,
			"predictions":         cpu,
			"predictions_cpu":     cpu,
			"predictions_storage": scale(storageSeries(days), m),
		}, http.StatusOK
	})
}

func (s *Service) report(w http.ResponseWriter, r *http.Request) {
	s.serve(w, EndpointReport, func() (map[string]any, int) {
		capacity, err := queryFloat(r, "capacity", defaultCapacity)
		if err != nil {
			return map[string]any{"error": err.Error()}, http.StatusBadRequest
		}
		mape, err := queryFloat(r, "mape", 8.5)
		if err != nil {
			return map[string]any{"error": err.Error()}, http.StatusBadRequest
		}

		f := cpuSeries(7)
		minV, maxV := f[0], f[0]
		for _, v := range f {
			minV = min(minV, v)
			maxV = max(maxV, v)
		}
		trend := "decreasing"
		if f[len(f)-1] > f[0] {
			trend = "increasing"
		}

		return map[string]any{
			"report_type": "comprehensive",
			"forecast_summary": map[string]any{
				"days_forecasted": 7,
				"predictions":     f,
				"avg_forecast":    mean(f),
				"min_forecast":    minV,
				"max_forecast":    maxV,
				"trend":           trend,
			},
			"capacity_analysis": analyzeCapacity(f, capacity),
			"model_health":      monitoringStats(mape),
		}, http.StatusOK
	})
}

func (s *Service) monitoring(w http.ResponseWriter, r *http.Request) {
	s.serve(w, EndpointMonitoring, func() (map[string]any, int) {
		s.mu.RLock()
		fallback := s.mape
		s.mu.RUnlock()

		mape, err := queryFloat(r, "mape", fallback)
		if err != nil {
			return map[string]any{"error": err.Error()}, http.StatusBadRequest
		}
		return monitoringStats(mape), http.StatusOK
	})
}

func (s *Service) multiRegion(w http.ResponseWriter, r *http.Request) {
	s.serve(w, EndpointMultiRegion, func() (map[string]any, int) {
		param := r.URL.Query().Get("regions")
		if param == "" {
			param = defaultRegionList
		}

		base := cpuSeries(7)[:4]
		lastCPU := base[0]
		lastStorage := storageSeries(1)[0]

		var regions []map[string]any
		idx := 0
		for _, name := range strings.Split(param, ",") {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			regions = append(regions, regionEntry(idx, name, base, lastCPU, lastStorage))
			idx++
		}
		return map[string]any{"regions": regions}, http.StatusOK
	})
}

func (s *Service) optimization(w http.ResponseWriter, r *http.Request) {
	s.serve(w, EndpointOptimization, func() (map[string]any, int) {
		var req struct {
			Capacity     *float64 `json:"capacity"`
			ForecastDays int      `json:"forecast_days"`
			Region       string   `json:"region"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Capacity == nil {
			return map[string]any{"error": "Missing 'capacity' in request body"}, http.StatusBadRequest
		}
		if req.ForecastDays < 1 {
			req.ForecastDays = 1
		}
		if req.Region == "" {
			req.Region = "unknown"
		}
		return optimizationSuggestion(cpuSeries(req.ForecastDays), *req.Capacity, req.Region), http.StatusOK
	})
}

func (s *Service) capacityPlanning(w http.ResponseWriter, r *http.Request) {
	s.serve(w, EndpointCapacity, func() (map[string]any, int) {
		var req struct {
			Capacity     *float64 `json:"capacity"`
			ForecastDays *int     `json:"forecast_days"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Capacity == nil {
			return map[string]any{"error": "Missing 'capacity' in request body"}, http.StatusBadRequest
		}
		days := 7
		if req.ForecastDays != nil && *req.ForecastDays > 0 {
			days = *req.ForecastDays
		}
		return analyzeCapacity(cpuSeries(days), *req.Capacity), http.StatusOK
	})
}

func (s *Service) modelStatus(w http.ResponseWriter, _ *http.Request) {
	s.serve(w, EndpointModelStatus, func() (map[string]any, int) {
		return modelStatus(), http.StatusOK
	})
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write stub response", "error", err)
	}
}
