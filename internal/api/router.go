package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/grimorio/internal/api/handlers"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	systemHandler := handlers.NewSystemHandler(s.deps.Catalog)
	s.router.Get("/health", systemHandler.Health)

	// WebSocket endpoint (no timeout or JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.timeoutMiddleware)
		r.Use(s.rateLimitMiddleware)
		r.Use(jsonContentTypeMiddleware)

		spellHandler := handlers.NewSpellHandler(s.deps.Catalog)
		r.Route("/magias/{lang}", func(r chi.Router) {
			r.Get("/", spellHandler.List)
			r.Get("/todas", spellHandler.All)
			r.Get("/{uniqueName}", spellHandler.Get)
		})
		r.Get("/filtros", spellHandler.Filters)

		statsHandler := handlers.NewStatsHandler(s.deps.Catalog, s.metrics)
		r.Get("/estatisticas/escolas", statsHandler.SchoolChart)
		r.Get("/sistema/metricas", statsHandler.Metrics)

		adminHandler := handlers.NewAdminHandler(handlers.AdminConfig{
			Reloader:  s.deps.Importer,
			SeedPath:  s.deps.SeedPath,
			TokenHash: s.deps.AdminTokenHash,
			OnReload:  s.NotifyReload,
		})
		r.Post("/admin/recarregar", adminHandler.Reload)
	})
}
