package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/storage"
)

// seededCatalog opens a temporary database, imports the embedded seed and
// returns the catalogue service and importer backed by it.
func seededCatalog(t *testing.T) (*catalog.Service, *catalog.Importer) {
	t.Helper()

	cfg := storage.DefaultConfig(filepath.Join(t.TempDir(), "grimorio.db"))
	cfg.AutoMigrate = true
	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	store := storage.NewService(db)
	t.Cleanup(func() { _ = store.Close() })

	importer := catalog.NewImporter(store)
	if _, err := importer.ImportFile(context.Background(), ""); err != nil {
		t.Fatalf("Failed to import seed: %v", err)
	}

	svc, err := catalog.NewService(&catalog.ServiceConfig{Repo: store.SpellRepo(), PageSize: 5})
	if err != nil {
		t.Fatalf("Failed to create catalog service: %v", err)
	}
	return svc, importer
}

func serve(router chi.Router, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}
