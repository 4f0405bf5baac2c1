// Package metrics keeps in-process request statistics for the API server.
package metrics

import (
	"math"
	"slices"
	"sync"
	"time"
)

const defaultHistogramSize = 4096

// Histogram keeps the most recent duration samples and derives percentiles.
// Samples live in a ring buffer, so memory stays fixed once it is full.
type Histogram struct {
	mu      sync.RWMutex
	samples []float64 // milliseconds
	next    int
	full    bool
}

// NewHistogram creates a histogram holding up to size samples.
func NewHistogram(size int) *Histogram {
	if size <= 0 {
		size = defaultHistogramSize
	}
	return &Histogram{samples: make([]float64, size)}
}

// Record adds a sample, overwriting the oldest one when the buffer is full.
func (h *Histogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples[h.next] = float64(d.Microseconds()) / 1000.0
	h.next++
	if h.next == len(h.samples) {
		h.next = 0
		h.full = true
	}
}

// Count returns the number of retained samples.
func (h *Histogram) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count()
}

func (h *Histogram) count() int {
	if h.full {
		return len(h.samples)
	}
	return h.next
}

// LatencyStats summarises a histogram in milliseconds.
type LatencyStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Stats computes a summary of the retained samples.
func (h *Histogram) Stats() LatencyStats {
	h.mu.RLock()
	sorted := slices.Clone(h.samples[:h.count()])
	h.mu.RUnlock()

	if len(sorted) == 0 {
		return LatencyStats{}
	}
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return LatencyStats{
		Count: len(sorted),
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
	}
}

// Reset drops all samples.
func (h *Histogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = 0
	h.full = false
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}
