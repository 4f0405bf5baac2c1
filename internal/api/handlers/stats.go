package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/ramonehamilton/grimorio/internal/api/response"
	"github.com/ramonehamilton/grimorio/internal/charts"
	"github.com/ramonehamilton/grimorio/internal/metrics"
)

// StatsHandler serves catalogue statistics and server metrics.
type StatsHandler struct {
	service SpellService
	metrics *metrics.ServerMetrics
	chart   charts.ChartConfig
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service SpellService, m *metrics.ServerMetrics) *StatsHandler {
	return &StatsHandler{service: service, metrics: m, chart: charts.DefaultChartConfig()}
}

// SchoolChart renders a bar chart of spells per school. With ?format=json the
// raw counts are returned instead.
func (h *StatsHandler) SchoolChart(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.SchoolCounts(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		response.OK(w, counts)
		return
	}

	var buf bytes.Buffer
	if err := charts.RenderBarChart(&buf, charts.SchoolPoints(counts), h.chart); err != nil {
		response.InternalError(w, err)
		return
	}

	response.HTML(w, buf.Bytes())
}

// Metrics returns request counters and latency percentiles.
func (h *StatsHandler) Metrics(w http.ResponseWriter, _ *http.Request) {
	if h.metrics == nil {
		response.ServiceUnavailable(w, errors.New("metrics are disabled"))
		return
	}
	response.OK(w, h.metrics.Snapshot())
}
