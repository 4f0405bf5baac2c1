package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ramonehamilton/grimorio/internal/api/response"
	"github.com/ramonehamilton/grimorio/internal/auth"
	"github.com/ramonehamilton/grimorio/internal/catalog"
)

// Reloader re-imports the spell seed.
type Reloader interface {
	ImportFile(ctx context.Context, path string) (*catalog.ImportResult, error)
}

// AdminConfig configures an AdminHandler.
type AdminConfig struct {
	Reloader Reloader

	// SeedPath is the seed file to import. Empty means the embedded seed.
	SeedPath string

	// TokenHash is the argon2id hash of the admin token. Empty disables the
	// admin routes.
	TokenHash string

	// OnReload is called after a successful import.
	OnReload func(*catalog.ImportResult)
}

// AdminHandler handles authenticated maintenance requests.
type AdminHandler struct {
	cfg AdminConfig
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	return &AdminHandler{cfg: cfg}
}

// Reload re-imports the seed file and returns the import result.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if h.cfg.TokenHash == "" || h.cfg.Reloader == nil {
		response.ServiceUnavailable(w, errors.New("admin token is not configured"))
		return
	}

	if !h.authorized(r) {
		response.Unauthorized(w, errors.New("invalid or missing bearer token"))
		return
	}

	result, err := h.cfg.Reloader.ImportFile(r.Context(), h.cfg.SeedPath)
	if err != nil {
		log.Printf("Admin reload failed: %v", err)
		response.InternalError(w, err)
		return
	}

	log.Printf("Admin reload imported %d spells (run %s)", result.Count, result.RunID)
	if h.cfg.OnReload != nil {
		h.cfg.OnReload(result)
	}

	response.OK(w, result)
}

func (h *AdminHandler) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}

	valid, err := auth.VerifyToken(token, h.cfg.TokenHash)
	if err != nil {
		log.Printf("Admin token hash is unusable: %v", err)
		return false
	}
	return valid
}
