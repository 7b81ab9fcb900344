// Package forecast talks to the external prediction service.
package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/logger"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/metrics"
	"github.com/ruhimadh/Azure-Based-Demand-Forecasting-Capacity-Optimization-System/internal/models"
)

const maxBodyBytes = 4 << 20

// Source provides raw responses for every endpoint the dashboard reads.
type Source interface {
	Forecast(ctx context.Context, days int, region string) (models.RawResponse, error)
	Report(ctx context.Context, capacity, mape float64) (models.RawResponse, error)
	Monitoring(ctx context.Context, mape *float64) (models.RawResponse, error)
	MultiRegion(ctx context.Context, regions []string) (models.RawResponse, error)
	Optimization(ctx context.Context, req OptimizationRequest) (models.RawResponse, error)
	CapacityPlanning(ctx context.Context, req CapacityRequest) (models.RawResponse, error)
	ModelStatus(ctx context.Context) (models.RawResponse, error)
}

// CapacityRequest is the body of a capacity planning call.
type CapacityRequest struct {
	Capacity     float64 `json:"capacity"`
	ForecastDays int     `json:"forecast_days"`
}

// OptimizationRequest is the body of an optimization call.
type OptimizationRequest struct {
	Capacity     float64 `json:"capacity"`
	ForecastDays int     `json:"forecast_days"`
	Region       string  `json:"region"`
}

// Client is the HTTP implementation of Source.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forecast fetches the CPU and storage forecast for a horizon of days.
func (c *Client) Forecast(ctx context.Context, days int, region string) (models.RawResponse, error) {
	q := url.Values{}
	if region != "" {
		q.Set("region", region)
	}
	return c.get(ctx, fmt.Sprintf("forecast_%d", days), q)
}

// Report fetches the comprehensive capacity report.
func (c *Client) Report(ctx context.Context, capacity, mape float64) (models.RawResponse, error) {
	q := url.Values{}
	q.Set("capacity", strconv.FormatFloat(capacity, 'f', -1, 64))
	q.Set("mape", strconv.FormatFloat(mape, 'f', -1, 64))
	return c.get(ctx, "report", q)
}

// Monitoring fetches model health. A nil mape lets the service compute it.
func (c *Client) Monitoring(ctx context.Context, mape *float64) (models.RawResponse, error) {
	q := url.Values{}
	if mape != nil {
		q.Set("mape", strconv.FormatFloat(*mape, 'f', -1, 64))
	}
	return c.get(ctx, "monitoring", q)
}

// MultiRegion fetches the per-region comparison.
func (c *Client) MultiRegion(ctx context.Context, regions []string) (models.RawResponse, error) {
	q := url.Values{}
	if len(regions) > 0 {
		q.Set("regions", strings.Join(regions, ","))
	}
	return c.get(ctx, "multi_region", q)
}

// Optimization asks for a scaling suggestion.
func (c *Client) Optimization(ctx context.Context, req OptimizationRequest) (models.RawResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode optimization request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "optimization", nil, body)
}

// CapacityPlanning analyzes the forecast against a capacity.
func (c *Client) CapacityPlanning(ctx context.Context, req CapacityRequest) (models.RawResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode capacity request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "capacity_planning", nil, body)
}

// ModelStatus fetches the load state of the service's models and dataset.
func (c *Client) ModelStatus(ctx context.Context) (models.RawResponse, error) {
	return c.get(ctx, "metrics", nil)
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) (models.RawResponse, error) {
	return c.do(ctx, http.MethodGet, endpoint, q, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, q url.Values, payload []byte) (raw models.RawResponse, err error) {
	defer func() { metrics.RecordRequest(endpoint, err) }()

	target := c.baseURL + "/api/" + endpoint
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed (status %d): %s", endpoint, resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s returned an empty body", endpoint)
	}

	logger.Debug("forecast service call", "endpoint", endpoint, "request_id", requestID, "bytes", len(body))
	return raw, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
