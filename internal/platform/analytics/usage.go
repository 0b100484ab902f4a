package analytics

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestMetric captures a single API request for usage analytics.
type RequestMetric struct {
	Timestamp  time.Time     `json:"timestamp"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	StatusCode int           `json:"status_code"`
	Duration   time.Duration `json:"duration"`
	UserID     string        `json:"user_id,omitempty"`
}

type endpointStats struct {
	Path          string
	TotalRequests int64
	TotalErrors   int64
	TotalDuration int64 // nanoseconds
	StatusCounts  map[int]int64
}

// EndpointSummary provides aggregated statistics for a single endpoint.
type EndpointSummary struct {
	Path            string        `json:"path"`
	TotalRequests   int64         `json:"total_requests"`
	ErrorRate       float64       `json:"error_rate"`
	AvgLatency      time.Duration `json:"avg_latency"`
	StatusBreakdown map[int]int64 `json:"status_breakdown"`
}

// UsageOverview is a high-level summary of API usage.
type UsageOverview struct {
	TotalRequests   int64              `json:"total_requests"`
	TotalErrors     int64              `json:"total_errors"`
	ErrorRate       float64            `json:"error_rate"`
	AvgLatency      time.Duration      `json:"avg_latency"`
	UniqueEndpoints int                `json:"unique_endpoints"`
	TopEndpoints    []*EndpointSummary `json:"top_endpoints"`
}

// UsageTracker is a thread-safe usage aggregator with a bounded ring buffer
// of recent requests plus per-endpoint counters.
type UsageTracker struct {
	mu         sync.RWMutex
	metrics    []*RequestMetric
	maxMetrics int
	writePos   int
	full       bool

	endpoints     map[string]*endpointStats
	totalRequests int64
	totalErrors   int64
	totalDuration int64 // nanoseconds
}

// NewUsageTracker creates a tracker retaining up to maxMetrics recent
// requests (older entries are overwritten).
func NewUsageTracker(maxMetrics int) *UsageTracker {
	if maxMetrics <= 0 {
		maxMetrics = 1024
	}
	return &UsageTracker{
		metrics:    make([]*RequestMetric, maxMetrics),
		maxMetrics: maxMetrics,
		endpoints:  make(map[string]*endpointStats),
	}
}

// Record adds one request to the tracker.
func (t *UsageTracker) Record(m RequestMetric) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics[t.writePos] = &m
	t.writePos++
	if t.writePos == t.maxMetrics {
		t.writePos = 0
		t.full = true
	}

	key := m.Method + " " + m.Path
	ep, ok := t.endpoints[key]
	if !ok {
		ep = &endpointStats{Path: key, StatusCounts: make(map[int]int64)}
		t.endpoints[key] = ep
	}
	ep.TotalRequests++
	ep.TotalDuration += int64(m.Duration)
	ep.StatusCounts[m.StatusCode]++
	if m.StatusCode >= 400 {
		ep.TotalErrors++
		t.totalErrors++
	}
	t.totalRequests++
	t.totalDuration += int64(m.Duration)
}

// Overview summarizes everything recorded so far, with the busiest endpoints
// first.
func (t *UsageTracker) Overview(topN int) *UsageOverview {
	t.mu.RLock()
	defer t.mu.RUnlock()

	o := &UsageOverview{
		TotalRequests:   t.totalRequests,
		TotalErrors:     t.totalErrors,
		UniqueEndpoints: len(t.endpoints),
	}
	if t.totalRequests > 0 {
		o.ErrorRate = float64(t.totalErrors) / float64(t.totalRequests)
		o.AvgLatency = time.Duration(t.totalDuration / t.totalRequests)
	}

	for _, ep := range t.endpoints {
		s := &EndpointSummary{
			Path:            ep.Path,
			TotalRequests:   ep.TotalRequests,
			StatusBreakdown: make(map[int]int64, len(ep.StatusCounts)),
		}
		for code, n := range ep.StatusCounts {
			s.StatusBreakdown[code] = n
		}
		if ep.TotalRequests > 0 {
			s.ErrorRate = float64(ep.TotalErrors) / float64(ep.TotalRequests)
			s.AvgLatency = time.Duration(ep.TotalDuration / ep.TotalRequests)
		}
		o.TopEndpoints = append(o.TopEndpoints, s)
	}
	sort.Slice(o.TopEndpoints, func(i, j int) bool {
		if o.TopEndpoints[i].TotalRequests != o.TopEndpoints[j].TotalRequests {
			return o.TopEndpoints[i].TotalRequests > o.TopEndpoints[j].TotalRequests
		}
		return o.TopEndpoints[i].Path < o.TopEndpoints[j].Path
	})
	if topN > 0 && len(o.TopEndpoints) > topN {
		o.TopEndpoints = o.TopEndpoints[:topN]
	}
	return o
}

// Recent returns up to n of the most recently recorded metrics, newest
// first.
func (t *UsageTracker) Recent(n int) []*RequestMetric {
	t.mu.RLock()
	defer t.mu.RUnlock()

	size := t.writePos
	if t.full {
		size = t.maxMetrics
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]*RequestMetric, 0, n)
	pos := t.writePos
	for i := 0; i < n; i++ {
		pos--
		if pos < 0 {
			pos = t.maxMetrics - 1
		}
		out = append(out, t.metrics[pos])
	}
	return out
}

// Middleware records every request passing through it.
func (t *UsageTracker) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			t.Record(RequestMetric{
				Timestamp:  start,
				Method:     c.Request().Method,
				Path:       c.Path(),
				StatusCode: status,
				Duration:   time.Since(start),
			})
			return err
		}
	}
}

// UsageHandler serves the usage overview.
func (t *UsageTracker) UsageHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, t.Overview(10))
}
