package handlers

import (
	"net/http"

	"github.com/ramonehamilton/grimorio/internal/api/response"
	"github.com/ramonehamilton/grimorio/internal/version"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Spells  int    `json:"spells"`
}

// SystemHandler handles service status requests.
type SystemHandler struct {
	service SpellService
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(service SpellService) *SystemHandler {
	return &SystemHandler{service: service}
}

// Health reports whether the catalogue can be read.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:  "healthy",
		Service: "grimorio-api",
		Version: version.GetVersion(),
	}

	count, err := h.service.Count(r.Context())
	if err != nil {
		status.Status = "degraded"
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}

	status.Spells = count
	response.OK(w, status)
}
