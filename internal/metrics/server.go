package metrics

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// UnmatchedRoute is the route name recorded for requests that matched no route.
const UnmatchedRoute = "unmatched"

// ServerMetrics aggregates request counts and latencies per route pattern.
type ServerMetrics struct {
	Requests     atomic.Uint64
	ClientErrors atomic.Uint64
	ServerErrors atomic.Uint64
	RateLimited  atomic.Uint64
	Reloads      atomic.Uint64

	all *Histogram

	mu     sync.RWMutex
	routes map[string]*Histogram

	startTime time.Time
}

// NewServerMetrics creates an empty collector.
func NewServerMetrics() *ServerMetrics {
	return &ServerMetrics{
		all:       NewHistogram(0),
		routes:    make(map[string]*Histogram),
		startTime: time.Now(),
	}
}

// Observe records one finished request. route is the matched pattern, such as
// "/api/magias/{lang}/{uniqueName}", so path parameters don't explode the route set.
func (m *ServerMetrics) Observe(route string, status int, d time.Duration) {
	m.Requests.Add(1)
	switch {
	case status == 429:
		m.RateLimited.Add(1)
		m.ClientErrors.Add(1)
	case status >= 500:
		m.ServerErrors.Add(1)
	case status >= 400:
		m.ClientErrors.Add(1)
	}

	m.all.Record(d)
	m.route(route).Record(d)
}

func (m *ServerMetrics) route(name string) *Histogram {
	m.mu.RLock()
	h, ok := m.routes[name]
	m.mu.RUnlock()
	if ok {
		return h
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.routes[name]; ok {
		return h
	}
	h = NewHistogram(512)
	m.routes[name] = h
	return h
}

// RouteStats is the latency summary of one route.
type RouteStats struct {
	Route   string       `json:"route"`
	Latency LatencyStats `json:"latency"`
}

// Snapshot is a point-in-time view of the metrics.
type Snapshot struct {
	Requests     uint64       `json:"requests"`
	ClientErrors uint64       `json:"client_errors"`
	ServerErrors uint64       `json:"server_errors"`
	RateLimited  uint64       `json:"rate_limited"`
	Reloads      uint64       `json:"reloads"`
	SuccessRate  float64      `json:"success_rate"` // percentage
	Latency      LatencyStats `json:"latency"`
	Routes       []RouteStats `json:"routes"`
	Uptime       string       `json:"uptime"`
}

// Snapshot returns the current statistics. Routes are sorted by name.
func (m *ServerMetrics) Snapshot() *Snapshot {
	requests := m.Requests.Load()
	clientErrs := m.ClientErrors.Load()
	serverErrs := m.ServerErrors.Load()

	success := 0.0
	if requests > 0 {
		success = float64(requests-clientErrs-serverErrs) / float64(requests) * 100
	}

	m.mu.RLock()
	routes := make([]RouteStats, 0, len(m.routes))
	for name, h := range m.routes {
		routes = append(routes, RouteStats{Route: name, Latency: h.Stats()})
	}
	m.mu.RUnlock()
	slices.SortFunc(routes, func(a, b RouteStats) int { return strings.Compare(a.Route, b.Route) })

	return &Snapshot{
		Requests:     requests,
		ClientErrors: clientErrs,
		ServerErrors: serverErrs,
		RateLimited:  m.RateLimited.Load(),
		Reloads:      m.Reloads.Load(),
		SuccessRate:  success,
		Latency:      m.all.Stats(),
		Routes:       routes,
		Uptime:       time.Since(m.startTime).Round(time.Second).String(),
	}
}
