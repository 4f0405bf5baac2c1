package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ramonehamilton/grimorio/internal/cache"
	"github.com/ramonehamilton/grimorio/internal/storage/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Repository is the read side of spell storage.
type Repository interface {
	List(ctx context.Context) ([]*models.Spell, error)
	GetByUniqueName(ctx context.Context, nameUnique string) (*models.Spell, error)
	Count(ctx context.Context) (int, error)
	LatestImport(ctx context.Context) (*models.CatalogImport, error)
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Repo Repository

	// Cache stores list and filter responses. Nil disables caching.
	Cache cache.Cache

	// PageSize is the default page size. Zero means 20.
	PageSize int
}

// Service answers catalogue queries.
type Service struct {
	repo     Repository
	cache    cache.Cache
	pageSize int
}

// NewService creates a catalogue service.
func NewService(cfg *ServiceConfig) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Repo == nil {
		return nil, errors.New("repository cannot be nil")
	}

	c := cfg.Cache
	if c == nil {
		c = cache.Noop{}
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Service{repo: cfg.Repo, cache: c, pageSize: min(pageSize, maxPageSize)}, nil
}

// List returns one page of spells matching q, localised for lang.
func (s *Service) List(ctx context.Context, lang Language, q Query) (*Page, error) {
	q.Sort = NormalizeSort(q.Sort)
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	q.PageSize = min(q.PageSize, maxPageSize)

	key, err := s.cacheKey(ctx, "list", lang, url.Values{
		"sort":   {q.Sort},
		"page":   {strconv.Itoa(q.Page)},
		"size":   {strconv.Itoa(q.PageSize)},
		"school": {q.School},
		"type":   {q.Type},
		"q":      {q.Search},
	})
	if err != nil {
		return nil, err
	}

	var cached Page
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list spells: %w", err)
	}

	spells := Apply(LocalizeAll(recs, lang), q.Filter)
	Sort(spells, q.Sort, lang)
	items, pagination := Paginate(spells, q.Page, q.PageSize)

	page := &Page{Spells: items, Pagination: pagination}
	s.store(ctx, key, page)

	return page, nil
}

// All returns the whole catalogue localised for lang and sorted by sortKey.
func (s *Service) All(ctx context.Context, lang Language, sortKey string) ([]Spell, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list spells: %w", err)
	}

	spells := LocalizeAll(recs, lang)
	Sort(spells, sortKey, lang)
	return spells, nil
}

// Get returns a single spell by unique name.
func (s *Service) Get(ctx context.Context, lang Language, nameUnique string) (*Spell, error) {
	rec, err := s.repo.GetByUniqueName(ctx, nameUnique)
	if err != nil {
		return nil, fmt.Errorf("failed to get spell %s: %w", nameUnique, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, nameUnique)
	}

	names := make(map[string]string, len(rec.Prerequisites))
	for _, unique := range rec.Prerequisites {
		prereq, err := s.repo.GetByUniqueName(ctx, unique)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve prerequisite %s: %w", unique, err)
		}
		if prereq != nil {
			names[unique] = NameIndex([]*models.Spell{prereq}, lang)[unique]
		}
	}

	spell := Localize(rec, lang, names)
	return &spell, nil
}

// Filters returns the distinct schools and types in collated order.
func (s *Service) Filters(ctx context.Context, lang Language) (*Filters, error) {
	key, err := s.cacheKey(ctx, "filters", lang, nil)
	if err != nil {
		return nil, err
	}

	var cached Filters
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list spells: %w", err)
	}

	schools := map[string]struct{}{}
	types := map[string]struct{}{}
	for _, rec := range recs {
		for _, school := range rec.Schools {
			if school != "" {
				schools[school] = struct{}{}
			}
		}
		if rec.SpellType != "" {
			types[rec.SpellType] = struct{}{}
		}
	}

	filters := &Filters{
		Schools: sortedKeys(schools, lang),
		Types:   sortedKeys(types, lang),
	}
	s.store(ctx, key, filters)

	return filters, nil
}

// SchoolCounts returns the number of spells per school, largest first.
func (s *Service) SchoolCounts(ctx context.Context) ([]SchoolCount, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list spells: %w", err)
	}

	counts := map[string]int{}
	for _, rec := range recs {
		for _, school := range rec.Schools {
			counts[school]++
		}
	}

	out := make([]SchoolCount, 0, len(counts))
	for school, n := range counts {
		out = append(out, SchoolCount{School: school, Count: n})
	}
	slices.SortFunc(out, func(a, b SchoolCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if a.School < b.School {
			return -1
		}
		if a.School > b.School {
			return 1
		}
		return 0
	})

	return out, nil
}

// Count returns the number of spells in the catalogue.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Fingerprint identifies the current catalogue version. Empty before the first import.
func (s *Service) Fingerprint(ctx context.Context) (string, error) {
	imp, err := s.repo.LatestImport(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read latest import: %w", err)
	}
	if imp == nil {
		return "", nil
	}
	return imp.Fingerprint, nil
}

// cacheKey scopes keys by catalogue fingerprint so a reload invalidates them.
func (s *Service) cacheKey(ctx context.Context, kind string, lang Language, params url.Values) (string, error) {
	fp, err := s.Fingerprint(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s:%s", kind, fp, lang, params.Encode()), nil
}

func (s *Service) lookup(ctx context.Context, key string, dst any) bool {
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Printf("Cache read failed for %s: %v", key, err)
		return false
	}
	return found
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
}

func sortedKeys(set map[string]struct{}, lang Language) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	tag := language.English
	if lang == LangPT {
		tag = language.BrazilianPortuguese
	}
	collate.New(tag, collate.IgnoreCase).SortStrings(keys)

	return keys
}
