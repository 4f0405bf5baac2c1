// Package tui is the terminal front end of the spell browser.
package tui

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ramonehamilton/grimorio/internal/controller"
)

// resultMsg carries a finished fetch back to the UI loop.
type resultMsg controller.Result

// Model is the bubbletea model. All controller state changes happen in Update.
type Model struct {
	ctx  context.Context
	ctrl *controller.Controller

	cursor    int
	searching bool
	search    textinput.Model
	spinner   spinner.Model

	width  int
	height int
}

// New creates a model driving ctrl.
func New(ctx context.Context, ctrl *controller.Controller) Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30
	ti.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		search:  ti,
		spinner: sp,
		width:   100,
		height:  30,
	}
}

// Options configures Run.
type Options struct {
	// DebugLog is a file receiving log output. When empty, logs are discarded
	// so they don't corrupt the screen.
	DebugLog string
}

// Run starts the terminal UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *controller.Controller, opts Options) error {
	if opts.DebugLog != "" {
		f, err := tea.LogToFile(opts.DebugLog, "grimorio")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads the first page and the filter menus.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.ctrl.Init()))
}

func (m Model) fetch(req controller.Request) tea.Cmd {
	if req.Empty() {
		return nil
	}
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return resultMsg(ctrl.Execute(ctx, req))
	}
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case resultMsg:
		if !m.ctrl.Apply(controller.Result(msg)) {
			return m, nil
		}
		m.clampCursor()
		if req, ok := m.ctrl.TakeFollowUp(); ok {
			return m, m.fetch(req)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, m.fetch(m.ctrl.Search(strings.TrimSpace(m.search.Value())))
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.ctrl.State().Filters.Search)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	screen := m.ctrl.View()

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(screen.Items)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(screen.Items) {
			m.ctrl.SelectSpell(screen.Items[m.cursor].NameUnique)
		}

	case "l":
		m.cursor = 0
		return m, m.fetch(m.ctrl.ToggleLanguage())
	case "s":
		return m, m.fetch(m.ctrl.ChangeSort(next(screen.SortOptions, screen.Sort)))
	case "e":
		return m, m.fetch(m.ctrl.ChangeSchool(next(screen.SchoolOptions, screen.School)))
	case "t":
		return m, m.fetch(m.ctrl.ChangeType(next(screen.TypeOptions, screen.Type)))
	case "r":
		m.search.SetValue("")
		return m, m.fetch(m.ctrl.ResetFilters())
	case "/":
		m.searching = true
		m.search.SetValue(screen.Search)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd

	case "n":
		if req, ok := m.ctrl.NextPage(); ok {
			m.cursor = 0
			return m, m.fetch(req)
		}
	case "p":
		if req, ok := m.ctrl.PrevPage(); ok {
			m.cursor = 0
			return m, m.fetch(req)
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(key[0] - '1')
		if d := screen.Detail; d != nil && n < len(d.PrerequisiteLinks) {
			target := d.PrerequisiteLinks[n].NameUnique
			if req, ok := m.ctrl.FollowPrerequisite(target); ok {
				return m, m.fetch(req)
			}
			m.cursorTo(target)
		}
	}

	return m, nil
}

// next returns the value after current in opts, wrapping around.
func next(opts []controller.MenuOption, current string) string {
	for i, o := range opts {
		if o.Value == current {
			return opts[(i+1)%len(opts)].Value
		}
	}
	if len(opts) == 0 {
		return ""
	}
	return opts[0].Value
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.View().Items)
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) cursorTo(nameUnique string) {
	for i, item := range m.ctrl.View().Items {
		if item.NameUnique == nameUnique {
			m.cursor = i
			return
		}
	}
}
