package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dashboard "github.com/goliatone/go-admin-dashboard/components/dashboard"
)

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to a remote BI service via REST endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client capable of hitting live analytics APIs.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchKPIs implements KPIClient by calling the remote KPI endpoint.
func (c *HTTPClient) FetchKPIs(ctx context.Context, codes []string) ([]dashboard.KPI, error) {
	var resp kpiResponse
	if err := c.do(ctx, http.MethodPost, "/kpis/query", kpiRequest{Codes: codes}, &resp); err != nil {
		return nil, err
	}
	return resp.toKPIs(), nil
}

// FetchRevenue implements RevenueClient via the revenue endpoint.
func (c *HTTPClient) FetchRevenue(ctx context.Context, metric, locale string) (dashboard.RevenueSeries, error) {
	var resp revenueResponse
	if err := c.do(ctx, http.MethodPost, "/revenue/query", revenueRequest{Metric: metric, Locale: locale}, &resp); err != nil {
		return dashboard.RevenueSeries{}, err
	}
	return resp.toSeries()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analytics: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

type kpiRequest struct {
	Codes []string `json:"codes,omitempty"`
}

type kpiMetric struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Value  string  `json:"value"`
	Change float64 `json:"change"`
}

type kpiResponse struct {
	Metrics []kpiMetric `json:"metrics"`
}

func (r kpiResponse) toKPIs() []dashboard.KPI {
	out := make([]dashboard.KPI, len(r.Metrics))
	for i, m := range r.Metrics {
		out[i] = dashboard.KPI{Code: m.Code, Label: m.Label, Value: m.Value, Change: m.Change}
	}
	return out
}

type revenueRequest struct {
	Metric string `json:"metric"`
	Locale string `json:"locale,omitempty"`
}

type revenueSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

type revenueResponse struct {
	Metric     string             `json:"metric"`
	Categories []string           `json:"categories"`
	Series     []revenueSeries    `json:"series"`
	Totals     map[string]float64 `json:"totals"`
}

func (r revenueResponse) toSeries() (dashboard.RevenueSeries, error) {
	out := dashboard.RevenueSeries{
		Metric:     r.Metric,
		Categories: r.Categories,
		Series:     make([]dashboard.ChartSeries, len(r.Series)),
		Totals:     r.Totals,
	}
	for i, s := range r.Series {
		if len(r.Categories) > 0 && len(s.Values) != len(r.Categories) {
			return dashboard.RevenueSeries{}, fmt.Errorf("analytics: series %q has %d values for %d categories", s.Name, len(s.Values), len(r.Categories))
		}
		out.Series[i] = dashboard.ChartSeries{Name: s.Name, Values: s.Values}
	}
	return out, nil
}
