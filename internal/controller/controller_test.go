package controller_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/client"
	"github.com/ramonehamilton/grimorio/internal/controller"
	controllermock "github.com/ramonehamilton/grimorio/internal/controller/mock"
)

var (
	fireball = catalog.Spell{
		ID: 6, NameUnique: "fireball", Name: "Fireball", Schools: []string{"Fire"}, Type: "Missile",
		Description: "Throws a ball of fire.", CostText: "Any", CastingTime: "1 to 3 seconds",
		PrerequisitesObj: []catalog.PrereqRef{
			{Name: "Create Fire", NameUnique: "create-fire"},
			{Name: "Shape Fire", NameUnique: "shape-fire"},
		},
		Reference: "B247",
	}
	createFire = catalog.Spell{ID: 4, NameUnique: "create-fire", Name: "Create Fire", Schools: []string{"Fire"}, Type: "Area"}
	shapeFire  = catalog.Spell{ID: 5, NameUnique: "shape-fire", Name: "Shape Fire", Schools: []string{"Fire"}, Type: "Area"}
	light      = catalog.Spell{ID: 10, NameUnique: "light", Name: "Light", Schools: []string{"Light and Darkness"}, Type: "Regular"}
)

func pageOf(page, totalPages int, spells ...catalog.Spell) *catalog.Page {
	return &catalog.Page{
		Spells: spells,
		Pagination: catalog.Pagination{
			Page:       page,
			TotalPages: totalPages,
			HasPrev:    page > 1,
			HasNext:    page < totalPages,
			TotalCount: len(spells),
			PageSize:   20,
		},
	}
}

var defaultFilters = &catalog.Filters{
	Schools: []string{"Fire", "Light and Darkness"},
	Types:   []string{"Area", "Missile", "Regular"},
}

type ControllerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	mockAPI *controllermock.MockSpellAPI
	c       *controller.Controller
	ctx     context.Context
}

func (s *ControllerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAPI = controllermock.NewMockSpellAPI(s.ctrl)
	s.c = controller.New(s.mockAPI)
	s.ctx = context.Background()
}

func (s *ControllerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// run executes req and applies the result, returning Apply's verdict.
func (s *ControllerTestSuite) run(req controller.Request) bool {
	return s.c.Apply(s.c.Execute(s.ctx, req))
}

// load performs Init with a three-spell first page out of two.
func (s *ControllerTestSuite) load() {
	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 1, Sort: catalog.SortBook}).
		Return(pageOf(1, 2, createFire, shapeFire, fireball), nil)
	s.mockAPI.EXPECT().
		GetFilters(gomock.Any(), catalog.LangPT).
		Return(defaultFilters, nil)

	s.Require().True(s.run(s.c.Init()))
}

func (s *ControllerTestSuite) TestInit() {
	req := s.c.Init()
	s.NotNil(req.List)
	s.True(req.Filters)
	s.Equal(catalog.LangPT, req.Language)
	s.True(s.c.View().Loading)

	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 1, Sort: catalog.SortBook}).
		Return(pageOf(1, 2, createFire, shapeFire, fireball), nil)
	s.mockAPI.EXPECT().
		GetFilters(gomock.Any(), catalog.LangPT).
		Return(defaultFilters, nil)

	s.True(s.run(req))

	view := s.c.View()
	s.False(view.Loading)
	s.Len(view.Items, 3)
	s.Empty(view.Message)
	s.Nil(view.Detail)
	s.Require().NotNil(view.Pagination)
	s.Equal("Pág. 1 de 2", view.Pagination.Label)
	s.False(view.Pagination.PrevEnabled)
	s.True(view.Pagination.NextEnabled)

	s.Equal([]controller.MenuOption{
		{Label: "Todas"},
		{Label: "Fire", Value: "Fire"},
		{Label: "Light and Darkness", Value: "Light and Darkness"},
	}, view.SchoolOptions)
	s.Equal(controller.MenuOption{Label: "Todos"}, view.TypeOptions[0])
}

func (s *ControllerTestSuite) TestSelectSpell() {
	s.load()

	s.True(s.c.SelectSpell("shape-fire"))

	view := s.c.View()
	s.Require().NotNil(view.Detail)
	s.Equal("Shape Fire", view.Detail.Title)

	active := 0
	for _, item := range view.Items {
		if item.Active {
			active++
			s.Equal("shape-fire", item.NameUnique)
		}
	}
	s.Equal(1, active)

	s.False(s.c.SelectSpell("wish"))
	s.Equal("Shape Fire", s.c.View().Detail.Title)
}

func (s *ControllerTestSuite) TestRefetchResetsDetail() {
	s.load()
	s.Require().True(s.c.SelectSpell("fireball"))

	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 1, Sort: catalog.SortName}).
		Return(pageOf(1, 1, createFire, fireball, shapeFire), nil)

	s.True(s.run(s.c.ChangeSort(catalog.SortName)))

	view := s.c.View()
	s.Nil(view.Detail)
	for _, item := range view.Items {
		s.False(item.Active)
	}
}

func (s *ControllerTestSuite) TestFilterChangesResetPage() {
	s.load()
	req, ok := s.c.NextPage()
	s.Require().True(ok)
	s.Equal(2, req.List.Page)

	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 2, Sort: catalog.SortBook}).
		Return(pageOf(2, 2, light), nil)
	s.Require().True(s.run(req))
	s.Equal(2, s.c.State().Page)

	req = s.c.ChangeSchool("Fire")
	s.Equal(client.Query{Page: 1, Sort: catalog.SortBook, School: "Fire"}, *req.List)
	s.False(req.Filters)

	req = s.c.ChangeType("Area")
	s.Equal(client.Query{Page: 1, Sort: catalog.SortBook, School: "Fire", Type: "Area"}, *req.List)

	req = s.c.Search("fogo")
	s.Equal(client.Query{Page: 1, Sort: catalog.SortBook, School: "Fire", Type: "Area", Search: "fogo"}, *req.List)
}

func (s *ControllerTestSuite) TestResetFiltersMatchesFreshLoad() {
	fresh := *controller.New(s.mockAPI).Init().List

	s.c.ChangeFilters(controller.Filters{School: "Fire", Type: "Area", Search: "bola"})
	s.c.ChangeSort(catalog.SortBook)
	req := s.c.ResetFilters()

	s.Equal(fresh, *req.List)
	s.Equal(controller.Filters{}, s.c.State().Filters)
}

func (s *ControllerTestSuite) TestToggleLanguage() {
	s.load()

	req := s.c.ToggleLanguage()
	s.Equal(catalog.LangEN, req.Language)
	s.True(req.Filters)

	// The Portuguese list must not linger while English loads.
	view := s.c.View()
	s.True(view.Loading)
	s.Empty(view.Items)
	s.Empty(view.Message)
	s.Nil(view.Pagination)

	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangEN, client.Query{Page: 1, Sort: catalog.SortBook}).
		Return(pageOf(1, 1, light), nil)
	s.mockAPI.EXPECT().
		GetFilters(gomock.Any(), catalog.LangEN).
		Return(defaultFilters, nil)

	s.True(s.run(req))

	view = s.c.View()
	s.Equal("Light", view.Items[0].Label)
	s.Equal("All", view.SchoolOptions[0].Label)
	s.Nil(view.Pagination)

	s.Equal(catalog.LangPT, s.c.ToggleLanguage().Language)
}

func (s *ControllerTestSuite) TestFailedFetch() {
	s.load()
	s.Require().True(s.c.SelectSpell("fireball"))

	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangPT, gomock.Any()).
		Return(nil, errors.New("connection refused"))

	s.True(s.run(s.c.ChangeType("Missile")))

	view := s.c.View()
	s.False(view.Loading)
	s.Equal("Não foi possível carregar as magias.", view.Message)
	s.Empty(view.Items)
	s.Nil(view.Pagination)

	// The detail panel is left as it was.
	s.Require().NotNil(view.Detail)
	s.Equal("Fireball", view.Detail.Title)
}

func (s *ControllerTestSuite) TestEmptyResult() {
	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangPT, gomock.Any()).
		Return(&catalog.Page{Pagination: catalog.Pagination{Page: 1, TotalPages: 1}}, nil)

	s.True(s.run(s.c.Search("xyz")))

	view := s.c.View()
	s.Equal("Nenhuma magia encontrada com os filtros selecionados.", view.Message)
	s.Empty(view.Items)
	s.Nil(view.Pagination)
}

func (s *ControllerTestSuite) TestStaleResultsDiscarded() {
	older := s.c.ChangeSchool("Fire")
	newer := s.c.ChangeSchool("Light and Darkness")

	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangPT, *newer.List).
		Return(pageOf(1, 1, light), nil)
	s.mockAPI.EXPECT().
		ListSpells(gomock.Any(), catalog.LangPT, *older.List).
		Return(pageOf(1, 1, fireball), nil)

	newerRes := s.c.Execute(s.ctx, newer)
	olderRes := s.c.Execute(s.ctx, older)

	s.True(s.c.Apply(newerRes))
	s.False(s.c.Apply(olderRes))

	view := s.c.View()
	s.Require().Len(view.Items, 1)
	s.Equal("light", view.Items[0].NameUnique)
}

func (s *ControllerTestSuite) TestLoadingClearsOnlyForLatest() {
	older := s.c.ChangeSort(catalog.SortCost)
	newer := s.c.ChangeSort(catalog.SortName)

	s.mockAPI.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, *older.List).Return(pageOf(1, 1, fireball), nil)
	s.False(s.run(older))
	s.True(s.c.View().Loading)

	s.mockAPI.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, *newer.List).Return(pageOf(1, 1, fireball), nil)
	s.True(s.run(newer))
	s.False(s.c.View().Loading)
}

func (s *ControllerTestSuite) TestPagination() {
	s.Run("hidden for a single page", func() {
		s.mockAPI.EXPECT().ListSpells(gomock.Any(), gomock.Any(), gomock.Any()).Return(pageOf(1, 1, light), nil)
		s.run(s.c.RequestPage(1))

		s.Nil(s.c.View().Pagination)
		_, ok := s.c.NextPage()
		s.False(ok)
		_, ok = s.c.PrevPage()
		s.False(ok)
	})

	s.Run("server clamps the requested page", func() {
		s.mockAPI.EXPECT().ListSpells(gomock.Any(), gomock.Any(), gomock.Any()).Return(pageOf(3, 3, light), nil)
		s.run(s.c.RequestPage(99))

		view := s.c.View()
		s.Require().NotNil(view.Pagination)
		s.Equal("Pág. 3 de 3", view.Pagination.Label)
		s.True(view.Pagination.PrevEnabled)
		s.False(view.Pagination.NextEnabled)
		s.Equal(3, s.c.State().Page)

		_, ok := s.c.NextPage()
		s.False(ok)

		req, ok := s.c.PrevPage()
		s.True(ok)
		s.Equal(2, req.List.Page)
	})
}

func (s *ControllerTestSuite) TestFollowPrerequisiteInList() {
	s.load()
	s.Require().True(s.c.SelectSpell("fireball"))

	req, ok := s.c.FollowPrerequisite("create-fire")
	s.False(ok)
	s.True(req.Empty())
	s.Equal("Create Fire", s.c.View().Detail.Title)
}

func (s *ControllerTestSuite) TestFollowPrerequisiteFetches() {
	s.load()
	igniteFire := catalog.Spell{ID: 3, NameUnique: "ignite-fire", Name: "Acender Fogo", Schools: []string{"Fire"}, Type: "Regular"}

	req, ok := s.c.FollowPrerequisite("ignite-fire")
	s.Require().True(ok)
	s.Nil(req.List)
	s.True(s.c.View().DetailLoading)

	s.mockAPI.EXPECT().GetSpell(gomock.Any(), catalog.LangPT, "ignite-fire").Return(&igniteFire, nil)
	s.True(s.run(req))

	view := s.c.View()
	s.False(view.DetailLoading)
	s.Require().NotNil(view.Detail)
	s.Equal("Acender Fogo", view.Detail.Title)
	s.Len(view.Items, 3)
	for _, item := range view.Items {
		s.False(item.Active)
	}
}

func (s *ControllerTestSuite) TestFollowPrerequisiteFailureKeepsDetail() {
	s.load()
	s.Require().True(s.c.SelectSpell("fireball"))

	req, ok := s.c.FollowPrerequisite("ignite-fire")
	s.Require().True(ok)

	s.mockAPI.EXPECT().GetSpell(gomock.Any(), catalog.LangPT, "ignite-fire").Return(nil, errors.New("404"))
	s.True(s.run(req))

	s.Equal("Fireball", s.c.View().Detail.Title)
	s.False(s.c.View().DetailLoading)
}

func (s *ControllerTestSuite) TestFollowPrerequisiteMissingSpell() {
	s.load()
	s.Require().True(s.c.SelectSpell("fireball"))

	var logs bytes.Buffer
	log.SetOutput(&logs)
	s.T().Cleanup(func() { log.SetOutput(os.Stderr) })

	req, ok := s.c.FollowPrerequisite("ignite-fire")
	s.Require().True(ok)

	notFound := &client.APIError{StatusCode: http.StatusNotFound, Status: "Not Found", Message: "spell not found"}
	s.mockAPI.EXPECT().GetSpell(gomock.Any(), catalog.LangPT, "ignite-fire").Return(nil, notFound)
	s.True(s.run(req))

	s.Equal("Fireball", s.c.View().Detail.Title)
	s.False(s.c.View().DetailLoading)
	s.Contains(logs.String(), "Prerequisite ignite-fire is not in the catalogue")
}

func (s *ControllerTestSuite) TestFollowPrerequisiteStaleAfterRefetch() {
	s.load()

	spellReq, ok := s.c.FollowPrerequisite("ignite-fire")
	s.Require().True(ok)
	listReq := s.c.ChangeSort(catalog.SortCost)

	s.mockAPI.EXPECT().GetSpell(gomock.Any(), catalog.LangPT, "ignite-fire").Return(&createFire, nil)
	s.mockAPI.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, *listReq.List).Return(pageOf(1, 1, light), nil)

	s.True(s.run(listReq))
	s.False(s.run(spellReq))
	s.Nil(s.c.View().Detail)
}

func (s *ControllerTestSuite) TestFiltersFailureIsSilent() {
	s.load()

	s.mockAPI.EXPECT().ListSpells(gomock.Any(), catalog.LangEN, gomock.Any()).Return(pageOf(1, 1, light), nil)
	s.mockAPI.EXPECT().GetFilters(gomock.Any(), catalog.LangEN).Return(nil, errors.New("timeout"))

	s.True(s.run(s.c.ToggleLanguage()))

	view := s.c.View()
	s.Empty(view.Message)
	s.Len(view.SchoolOptions, 3)
	s.Len(view.Items, 1)
}

func (s *ControllerTestSuite) TestVanishedFilterValueIsCleared() {
	s.load()
	s.mockAPI.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, gomock.Any()).Return(pageOf(1, 1, createFire), nil)
	s.Require().True(s.run(s.c.ChangeType("Area")))

	_, ok := s.c.TakeFollowUp()
	s.False(ok)

	s.mockAPI.EXPECT().ListSpells(gomock.Any(), catalog.LangEN, gomock.Any()).Return(pageOf(1, 1), nil)
	s.mockAPI.EXPECT().GetFilters(gomock.Any(), catalog.LangEN).Return(&catalog.Filters{
		Schools: []string{"Fire"},
		Types:   []string{"Zone"},
	}, nil)
	s.True(s.run(s.c.ToggleLanguage()))

	s.Empty(s.c.State().Filters.Type)
	s.True(s.c.View().Loading)

	follow, ok := s.c.TakeFollowUp()
	s.Require().True(ok)
	s.Equal(client.Query{Page: 1, Sort: catalog.SortBook}, *follow.List)
	s.Equal(catalog.LangEN, follow.Language)

	_, ok = s.c.TakeFollowUp()
	s.False(ok)
}

func (s *ControllerTestSuite) TestDetailFallbacks() {
	bare := catalog.Spell{NameUnique: "mystery", Name: "Mystery", Type: "Regular"}
	s.mockAPI.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, gomock.Any()).Return(pageOf(1, 1, bare, fireball), nil)
	s.Require().True(s.run(s.c.RequestPage(1)))

	s.Require().True(s.c.SelectSpell("mystery"))
	d := s.c.View().Detail
	s.Equal("Nenhuma (Regular)", d.Subtitle)
	for _, row := range d.Rows {
		s.Equal("N/A", row.Value, row.Label)
	}
	s.Nil(d.PrerequisiteLinks)
	s.Equal("Nenhum", d.PrerequisiteText)
	s.Equal("Informação não disponível.", d.Item)
	s.Equal("Referência: N/A", d.Reference)

	s.Require().True(s.c.SelectSpell("fireball"))
	d = s.c.View().Detail
	s.Equal("Fire (Missile)", d.Subtitle)
	s.Equal([]controller.Row{
		{Label: "Custo", Value: "Any"},
		{Label: "Manutenção", Value: "N/A"},
		{Label: "Tempo de Execução", Value: "1 to 3 seconds"},
		{Label: "Duração", Value: "N/A"},
	}, d.Rows)
	s.Len(d.PrerequisiteLinks, 2)
	s.Empty(d.PrerequisiteText)
	s.Equal("Referência: B247", d.Reference)
}

func (s *ControllerTestSuite) TestPlainPrerequisiteText() {
	withText := catalog.Spell{NameUnique: "haste", Name: "Haste", PrerequisitesText: "Magery 1"}
	s.mockAPI.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, gomock.Any()).Return(pageOf(1, 1, withText), nil)
	s.Require().True(s.run(s.c.RequestPage(1)))
	s.Require().True(s.c.SelectSpell("haste"))

	s.Equal("Magery 1", s.c.View().Detail.PrerequisiteText)
}

func (s *ControllerTestSuite) TestOptions() {
	c := controller.New(s.mockAPI, controller.WithLanguage(catalog.LangEN), controller.WithSort("custo"))
	req := c.Init()

	s.Equal(catalog.LangEN, req.Language)
	s.Equal(catalog.SortCost, req.List.Sort)
	s.Equal("Cost", c.View().SortOptions[2].Label)
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}
