package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/client"
	"github.com/ramonehamilton/grimorio/internal/controller"
	controllermock "github.com/ramonehamilton/grimorio/internal/controller/mock"
)

var (
	createFire = catalog.Spell{ID: 4, NameUnique: "create-fire", Name: "Criar Fogo", Schools: []string{"Fire"}, Type: "Area"}
	fireball   = catalog.Spell{
		ID: 6, NameUnique: "fireball", Name: "Bola de Fogo", Schools: []string{"Fire"}, Type: "Missile",
		Description:      "Arremessa uma bola de fogo.",
		PrerequisitesObj: []catalog.PrereqRef{{Name: "Criar Fogo", NameUnique: "create-fire"}, {Name: "Moldar Fogo", NameUnique: "shape-fire"}},
	}
	shapeFire = catalog.Spell{ID: 5, NameUnique: "shape-fire", Name: "Moldar Fogo", Schools: []string{"Fire"}, Type: "Area"}
	light     = catalog.Spell{ID: 10, NameUnique: "light", Name: "Light", Schools: []string{"Light and Darkness"}, Type: "Regular"}
)

func page(n, total int, spells ...catalog.Spell) *catalog.Page {
	return &catalog.Page{Spells: spells, Pagination: catalog.Pagination{
		Page: n, TotalPages: total, HasPrev: n > 1, HasNext: n < total, TotalCount: len(spells), PageSize: 20,
	}}
}

var filters = &catalog.Filters{Schools: []string{"Fire", "Light and Darkness"}, Types: []string{"Area", "Missile"}}

// drain runs cmd and feeds every fetch result back into the model. Spinner
// ticks are dropped so the test never sleeps.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case resultMsg:
		next, follow := m.Update(msg)
		m = drain(t, next.(Model), follow)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()

	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, cmd := m.Update(msg)
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func setup(t *testing.T) (Model, *controllermock.MockSpellAPI) {
	t.Helper()

	api := controllermock.NewMockSpellAPI(gomock.NewController(t))
	api.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 1, Sort: catalog.SortBook}).
		Return(page(1, 2, createFire, fireball), nil)
	api.EXPECT().GetFilters(gomock.Any(), catalog.LangPT).Return(filters, nil)

	m := New(context.Background(), controller.New(api))
	m = drain(t, m, m.Init())
	return m, api
}

func TestInitLoadsList(t *testing.T) {
	m, _ := setup(t)

	out := m.View()
	assert.Contains(t, out, "Criar Fogo")
	assert.Contains(t, out, "Bola de Fogo")
	assert.Contains(t, out, "Selecione uma magia")
	assert.Contains(t, out, "Pág. 1 de 2")
	assert.False(t, m.ctrl.State().Loading)
}

func TestSelectWithCursor(t *testing.T) {
	m, _ := setup(t)

	m = press(t, m, "down", "enter")

	view := m.ctrl.View()
	require.NotNil(t, view.Detail)
	assert.Equal(t, "fireball", view.Detail.NameUnique)
	assert.True(t, view.Items[1].Active)
	assert.False(t, view.Items[0].Active)
	assert.Contains(t, m.View(), "Arremessa uma bola de fogo.")
}

func TestCursorStaysInBounds(t *testing.T) {
	m, _ := setup(t)

	m = press(t, m, "up", "down", "down", "down")
	assert.Equal(t, 1, m.cursor)
}

func TestFollowPrerequisite(t *testing.T) {
	m, api := setup(t)
	m = press(t, m, "down", "enter")

	// On the current page: selected without a request.
	m = press(t, m, "1")
	assert.Equal(t, "create-fire", m.ctrl.State().Selected.NameUnique)
	assert.Equal(t, 0, m.cursor)

	m = press(t, m, "down", "enter")
	api.EXPECT().GetSpell(gomock.Any(), catalog.LangPT, "shape-fire").Return(&shapeFire, nil)
	m = press(t, m, "2")
	assert.Equal(t, "shape-fire", m.ctrl.State().Selected.NameUnique)
}

func TestSchoolCycleRefetches(t *testing.T) {
	m, api := setup(t)

	api.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 1, Sort: catalog.SortBook, School: "Fire"}).
		Return(page(1, 1, createFire, fireball), nil)
	m = press(t, m, "e")

	assert.Equal(t, "Fire", m.ctrl.State().Filters.School)
	assert.Nil(t, m.ctrl.View().Pagination)
}

func TestSortCycle(t *testing.T) {
	m, api := setup(t)

	api.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 1, Sort: catalog.SortName}).
		Return(page(1, 2, fireball, createFire), nil)
	m = press(t, m, "s")

	assert.Equal(t, catalog.SortName, m.ctrl.State().Sort)
	assert.Contains(t, m.View(), "Nome")
}

func TestSearch(t *testing.T) {
	m, api := setup(t)

	api.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 1, Sort: catalog.SortBook, Search: "bola"}).
		Return(page(1, 1, fireball), nil)
	m = press(t, m, "/", "b", "o", "l", "a", "enter")

	assert.False(t, m.searching)
	assert.Equal(t, "bola", m.ctrl.State().Filters.Search)
	assert.Len(t, m.ctrl.View().Items, 1)
}

func TestSearchEscapeCancels(t *testing.T) {
	m, _ := setup(t)

	m = press(t, m, "/", "x", "esc")

	assert.False(t, m.searching)
	assert.Empty(t, m.ctrl.State().Filters.Search)
	assert.Empty(t, m.search.Value())
}

func TestToggleLanguageRefetchesMenus(t *testing.T) {
	m, api := setup(t)

	api.EXPECT().ListSpells(gomock.Any(), catalog.LangEN, client.Query{Page: 1, Sort: catalog.SortBook}).
		Return(page(1, 1, light), nil)
	api.EXPECT().GetFilters(gomock.Any(), catalog.LangEN).Return(filters, nil)
	m = press(t, m, "l")

	assert.Equal(t, catalog.LangEN, m.ctrl.State().Language)
	out := m.View()
	assert.Contains(t, out, "Light")
	assert.Contains(t, out, "Select a spell")
	assert.NotContains(t, out, "Criar Fogo")
}

func TestNextPage(t *testing.T) {
	m, api := setup(t)

	api.EXPECT().ListSpells(gomock.Any(), catalog.LangPT, client.Query{Page: 2, Sort: catalog.SortBook}).
		Return(page(2, 2, shapeFire), nil)
	m = press(t, m, "n")
	assert.Equal(t, 2, m.ctrl.State().Page)

	// Last page: no request is made.
	m = press(t, m, "n")
	assert.Equal(t, 2, m.ctrl.State().Page)
}

func TestQuit(t *testing.T) {
	m, _ := setup(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestNext(t *testing.T) {
	opts := []controller.MenuOption{{Label: "All"}, {Label: "Fire", Value: "Fire"}, {Label: "Water", Value: "Water"}}

	assert.Equal(t, "Fire", next(opts, ""))
	assert.Equal(t, "", next(opts, "Water"))
	assert.Equal(t, "", next(opts, "Gone"))
	assert.Equal(t, "", next(nil, "x"))
}

func TestViewWrapsHelp(t *testing.T) {
	m, _ := setup(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	out := next.(Model).View()

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "enter") {
			assert.LessOrEqual(t, len([]rune(line)), 80)
		}
	}
}
