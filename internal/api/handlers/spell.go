package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/grimorio/internal/api/response"
	"github.com/ramonehamilton/grimorio/internal/catalog"
)

// SpellService is the catalogue surface the handlers need.
type SpellService interface {
	List(ctx context.Context, lang catalog.Language, q catalog.Query) (*catalog.Page, error)
	All(ctx context.Context, lang catalog.Language, sortKey string) ([]catalog.Spell, error)
	Get(ctx context.Context, lang catalog.Language, nameUnique string) (*catalog.Spell, error)
	Filters(ctx context.Context, lang catalog.Language) (*catalog.Filters, error)
	SchoolCounts(ctx context.Context) ([]catalog.SchoolCount, error)
	Count(ctx context.Context) (int, error)
}

// SpellHandler handles spell catalogue requests.
type SpellHandler struct {
	service SpellService
}

// NewSpellHandler creates a new SpellHandler.
func NewSpellHandler(service SpellService) *SpellHandler {
	return &SpellHandler{service: service}
}

// List returns one page of spells.
func (h *SpellHandler) List(w http.ResponseWriter, r *http.Request) {
	lang, err := catalog.ParseLanguage(chi.URLParam(r, "lang"))
	if err != nil {
		writeError(w, err)
		return
	}

	params := r.URL.Query()
	q := catalog.Query{
		Filter: catalog.Filter{
			School: params.Get("school"),
			Type:   params.Get("type"),
			Search: params.Get("q"),
		},
		Sort:     params.Get("sort"),
		Page:     intParam(params.Get("page"), 1),
		PageSize: intParam(params.Get("page_size"), 0),
	}

	page, err := h.service.List(r.Context(), lang, q)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, page)
}

// All returns the whole catalogue in one response.
func (h *SpellHandler) All(w http.ResponseWriter, r *http.Request) {
	lang, err := catalog.ParseLanguage(chi.URLParam(r, "lang"))
	if err != nil {
		writeError(w, err)
		return
	}

	spells, err := h.service.All(r.Context(), lang, r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, spells)
}

// Get returns a single spell by its unique name.
func (h *SpellHandler) Get(w http.ResponseWriter, r *http.Request) {
	lang, err := catalog.ParseLanguage(chi.URLParam(r, "lang"))
	if err != nil {
		writeError(w, err)
		return
	}

	nameUnique := chi.URLParam(r, "uniqueName")
	if nameUnique == "" {
		response.BadRequest(w, errors.New("spell name is required"))
		return
	}

	spell, err := h.service.Get(r.Context(), lang, nameUnique)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, spell)
}

// Filters returns the school and type menu values. lang defaults to pt.
func (h *SpellHandler) Filters(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("lang")
	if raw == "" {
		raw = string(catalog.LangPT)
	}

	lang, err := catalog.ParseLanguage(raw)
	if err != nil {
		writeError(w, err)
		return
	}

	filters, err := h.service.Filters(r.Context(), lang)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, filters)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		response.NotFound(w, err)
	case errors.Is(err, catalog.ErrInvalidLanguage):
		response.BadRequest(w, err)
	default:
		response.InternalError(w, err)
	}
}

// intParam parses a positive integer, returning def for anything else.
func intParam(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
