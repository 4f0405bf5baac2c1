package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/grimorio/internal/cache"
	"github.com/ramonehamilton/grimorio/internal/storage/models"
)

// memRepo is an in-memory Repository that counts List calls.
type memRepo struct {
	spells      []*models.Spell
	fingerprint string
	listCalls   int
	err         error
}

func (r *memRepo) List(context.Context) ([]*models.Spell, error) {
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	return r.spells, nil
}

func (r *memRepo) GetByUniqueName(_ context.Context, nameUnique string) (*models.Spell, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.spells {
		if s.NameUnique == nameUnique {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memRepo) Count(context.Context) (int, error) {
	return len(r.spells), r.err
}

func (r *memRepo) LatestImport(context.Context) (*models.CatalogImport, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.fingerprint == "" {
		return nil, nil
	}
	return &models.CatalogImport{Fingerprint: r.fingerprint}, nil
}

func seedRepo(t *testing.T) *memRepo {
	t.Helper()

	spells, err := Decode(defaultSeed)
	require.NoError(t, err)

	return &memRepo{spells: spells, fingerprint: Fingerprint(defaultSeed)}
}

func newTestService(t *testing.T, repo Repository, c cache.Cache) *Service {
	t.Helper()

	svc, err := NewService(&ServiceConfig{Repo: repo, Cache: c})
	require.NoError(t, err)
	return svc
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)

	_, err = NewService(&ServiceConfig{})
	assert.EqualError(t, err, "repository cannot be nil")
}

func TestService_ListDefaults(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	page, err := svc.List(context.Background(), LangPT, Query{})
	require.NoError(t, err)

	assert.Len(t, page.Spells, 20)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, 24, page.Pagination.TotalCount)
	assert.True(t, page.Pagination.HasNext)
	assert.Equal(t, "Detectar Magia", page.Spells[0].Name)
}

func TestService_ListFilters(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	page, err := svc.List(context.Background(), LangEN, Query{
		Filter: Filter{School: "Fire", Type: "Area"},
		Sort:   SortName,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Create Fire", "Shape Fire"}, names(page.Spells))
	assert.Equal(t, 1, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNext)
}

func TestService_ListSearchesLocalisedName(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	page, err := svc.List(context.Background(), LangPT, Query{Filter: Filter{Search: "água"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Procurar Água", "Purificar Água", "Criar Água"}, names(page.Spells))
}

func TestService_ListClampsPage(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	page, err := svc.List(context.Background(), LangEN, Query{Page: 50, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Pagination.Page)
	assert.Len(t, page.Spells, 4)
	assert.Equal(t, 10, page.Pagination.PageSize)
}

func TestService_ListRepositoryError(t *testing.T) {
	svc := newTestService(t, &memRepo{err: errors.New("disk on fire")}, nil)

	_, err := svc.List(context.Background(), LangEN, Query{})
	assert.ErrorContains(t, err, "disk on fire")
}

func TestService_ListUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := cache.NewClient(mr.Addr(), nil)
	require.NoError(t, err)
	c, err := cache.NewRedis(&cache.RedisConfig{Client: client, TTL: time.Minute})
	require.NoError(t, err)

	repo := seedRepo(t)
	svc := newTestService(t, repo, c)
	ctx := context.Background()

	first, err := svc.List(ctx, LangEN, Query{Filter: Filter{School: "Healing"}})
	require.NoError(t, err)
	second, err := svc.List(ctx, LangEN, Query{Filter: Filter{School: "Healing"}})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls)

	// A new catalogue version uses new keys.
	repo.fingerprint = "changed"
	_, err = svc.List(ctx, LangEN, Query{Filter: Filter{School: "Healing"}})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestService_Get(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	spell, err := svc.Get(context.Background(), LangPT, "fireball")
	require.NoError(t, err)

	assert.Equal(t, "Bola de Fogo", spell.Name)
	assert.Equal(t, []PrereqRef{
		{Name: "Criar Fogo", NameUnique: "create-fire"},
		{Name: "Moldar Fogo", NameUnique: "shape-fire"},
	}, spell.PrerequisitesObj)
}

func TestService_GetNotFound(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	_, err := svc.Get(context.Background(), LangEN, "wish")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Filters(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	filters, err := svc.Filters(context.Background(), LangEN)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Communication and Empathy", "Fire", "Healing", "Knowledge",
		"Light and Darkness", "Movement", "Protection and Warning", "Water",
	}, filters.Schools)
	assert.Equal(t, []string{"Area", "Blocking", "Information", "Missile", "Regular"}, filters.Types)
}

func TestService_All(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	spells, err := svc.All(context.Background(), LangEN, SortCost)
	require.NoError(t, err)

	require.Len(t, spells, 24)
	assert.Equal(t, "Ignite Fire", spells[0].Name)
}

func TestService_SchoolCounts(t *testing.T) {
	svc := newTestService(t, seedRepo(t), nil)

	counts, err := svc.SchoolCounts(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, counts)
	assert.Equal(t, SchoolCount{School: "Fire", Count: 4}, counts[0])
	assert.Equal(t, SchoolCount{School: "Healing", Count: 4}, counts[1])
}

func TestService_Fingerprint(t *testing.T) {
	svc := newTestService(t, &memRepo{}, nil)

	fp, err := svc.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fp)
}
