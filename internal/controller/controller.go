// Package controller is the headless state machine behind the spell browser.
//
// Front ends call a transition in response to user input, run the returned
// Request with Execute off the UI thread, then hand the Result back to Apply on
// the UI thread. Every request carries a token; results for anything but the
// latest request of their kind are discarded, so a slow response can never
// overwrite a newer one.
package controller

//go:generate mockgen -destination=mock/mock_spell_api.go -package=controllermock github.com/ramonehamilton/grimorio/internal/controller SpellAPI

import (
	"context"
	"log"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/client"
)

// SpellAPI is the remote data source.
type SpellAPI interface {
	ListSpells(ctx context.Context, lang catalog.Language, q client.Query) (*catalog.Page, error)
	GetSpell(ctx context.Context, lang catalog.Language, nameUnique string) (*catalog.Spell, error)
	GetFilters(ctx context.Context, lang catalog.Language) (*catalog.Filters, error)
}

// Request is the network work a transition needs. The zero value does nothing.
type Request struct {
	Token    uint64
	Language catalog.Language

	// List, when set, fetches a page of spells.
	List *client.Query

	// Filters refreshes the school and type menus.
	Filters bool

	// Spell fetches a single spell into the detail panel.
	Spell string
}

// Empty reports whether the request has no work.
func (r Request) Empty() bool {
	return r.List == nil && !r.Filters && r.Spell == ""
}

// Result is the outcome of executing a Request.
type Result struct {
	Request Request

	Page    *catalog.Page
	ListErr error

	Filters    *catalog.Filters
	FiltersErr error

	Spell    *catalog.Spell
	SpellErr error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLanguage sets the initial language. The default is Portuguese.
func WithLanguage(lang catalog.Language) Option {
	return func(c *Controller) {
		c.state.Language = lang
	}
}

// WithSort sets the initial sort key. The default is book order.
func WithSort(key string) Option {
	return func(c *Controller) {
		c.state.Sort = catalog.NormalizeSort(key)
	}
}

// Controller owns the browser state. It is not safe for concurrent use except
// for Execute, which only reads the request it is given.
type Controller struct {
	api   SpellAPI
	state State

	seq          uint64
	listToken    uint64
	filtersToken uint64
	spellToken   uint64

	followUp *Request
}

// New creates a controller backed by api.
func New(api SpellAPI, opts ...Option) *Controller {
	c := &Controller{
		api: api,
		state: State{
			Language: catalog.LangPT,
			Page:     1,
			Sort:     catalog.SortBook,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state.clone()
}

// Init loads the first page and the filter menus.
func (c *Controller) Init() Request {
	return c.refetch(true)
}

// ToggleLanguage switches between Portuguese and English.
func (c *Controller) ToggleLanguage() Request {
	if c.state.Language == catalog.LangEN {
		return c.SetLanguage(catalog.LangPT)
	}
	return c.SetLanguage(catalog.LangEN)
}

// SetLanguage switches language, keeping page, sort and filters. The old
// language's list is dropped straight away.
func (c *Controller) SetLanguage(lang catalog.Language) Request {
	c.state.Language = lang
	c.state.Spells = nil
	c.state.Pagination = nil
	c.state.ListError = ""
	return c.refetch(true)
}

// ChangeSort sets the sort key and returns to the first page.
func (c *Controller) ChangeSort(key string) Request {
	c.state.Sort = catalog.NormalizeSort(key)
	c.state.Page = 1
	return c.refetch(false)
}

// ChangeSchool sets the school filter and returns to the first page.
func (c *Controller) ChangeSchool(school string) Request {
	c.state.Filters.School = school
	c.state.Page = 1
	return c.refetch(false)
}

// ChangeType sets the type filter and returns to the first page.
func (c *Controller) ChangeType(spellType string) Request {
	c.state.Filters.Type = spellType
	c.state.Page = 1
	return c.refetch(false)
}

// ChangeFilters replaces all filters at once and returns to the first page.
func (c *Controller) ChangeFilters(f Filters) Request {
	c.state.Filters = f
	c.state.Page = 1
	return c.refetch(false)
}

// ResetFilters clears school, type and search.
func (c *Controller) ResetFilters() Request {
	return c.ChangeFilters(Filters{})
}

// Search sets the name filter and returns to the first page.
func (c *Controller) Search(text string) Request {
	c.state.Filters.Search = text
	c.state.Page = 1
	return c.refetch(false)
}

// RequestPage asks for page. The server clamps out-of-range pages.
func (c *Controller) RequestPage(page int) Request {
	c.state.Page = page
	return c.refetch(false)
}

// NextPage moves forward when the server reported a next page.
func (c *Controller) NextPage() (Request, bool) {
	p := c.state.Pagination
	if p == nil || !p.HasNext {
		return Request{}, false
	}
	return c.RequestPage(p.Page + 1), true
}

// PrevPage moves back when the server reported a previous page.
func (c *Controller) PrevPage() (Request, bool) {
	p := c.state.Pagination
	if p == nil || !p.HasPrev {
		return Request{}, false
	}
	return c.RequestPage(p.Page - 1), true
}

// SelectSpell shows a spell from the loaded list in the detail panel. It
// reports false when the spell is not in the list.
func (c *Controller) SelectSpell(nameUnique string) bool {
	spell, ok := c.state.find(nameUnique)
	if !ok {
		return false
	}
	c.state.Selected = &spell
	c.state.DetailLoading = false
	c.spellToken = 0
	return true
}

// FollowPrerequisite selects a referenced spell. Spells on the current page are
// selected immediately; others are fetched, leaving the list as it is.
func (c *Controller) FollowPrerequisite(nameUnique string) (Request, bool) {
	if nameUnique == "" || c.SelectSpell(nameUnique) {
		return Request{}, false
	}

	c.seq++
	c.spellToken = c.seq
	c.state.DetailLoading = true

	return Request{Token: c.seq, Language: c.state.Language, Spell: nameUnique}, true
}

// TakeFollowUp returns a request that applying a result made necessary, such
// as refetching after a filter value vanished from the menus.
func (c *Controller) TakeFollowUp() (Request, bool) {
	if c.followUp == nil {
		return Request{}, false
	}
	req := *c.followUp
	c.followUp = nil
	return req, true
}

func (c *Controller) refetch(withFilters bool) Request {
	c.seq++
	c.listToken = c.seq
	if withFilters {
		c.filtersToken = c.seq
	}

	c.state.Loading = true
	c.state.DetailLoading = false
	c.followUp = nil

	q := client.Query{
		Page:   c.state.Page,
		Sort:   c.state.Sort,
		School: c.state.Filters.School,
		Type:   c.state.Filters.Type,
		Search: c.state.Filters.Search,
	}

	return Request{
		Token:    c.seq,
		Language: c.state.Language,
		List:     &q,
		Filters:  withFilters,
	}
}

// Execute performs the network calls of req. It does not touch controller
// state and may run on any goroutine.
func (c *Controller) Execute(ctx context.Context, req Request) Result {
	res := Result{Request: req}

	var g errgroup.Group
	if req.List != nil {
		g.Go(func() error {
			res.Page, res.ListErr = c.api.ListSpells(ctx, req.Language, *req.List)
			return nil
		})
	}
	if req.Filters {
		g.Go(func() error {
			res.Filters, res.FiltersErr = c.api.GetFilters(ctx, req.Language)
			return nil
		})
	}
	if req.Spell != "" {
		g.Go(func() error {
			res.Spell, res.SpellErr = c.api.GetSpell(ctx, req.Language, req.Spell)
			return nil
		})
	}
	_ = g.Wait()

	return res
}

// Apply folds a result into the state. It reports false when every part of
// the result was stale and nothing changed.
func (c *Controller) Apply(res Result) bool {
	req := res.Request
	applied := false

	if req.List != nil && req.Token == c.listToken {
		c.applyList(res)
		applied = true
	}
	if req.Filters && req.Token == c.filtersToken {
		c.applyFilters(res)
		applied = true
	}
	if req.Spell != "" && req.Token == c.spellToken && req.Token > c.listToken {
		c.applySpell(res)
		applied = true
	}

	if !applied {
		log.Printf("Discarding stale result for request %d", req.Token)
	}
	return applied
}

func (c *Controller) applyList(res Result) {
	c.state.Loading = false

	if res.ListErr != nil || res.Page == nil {
		log.Printf("Failed to load spells: %v", res.ListErr)
		c.state.Spells = nil
		c.state.Pagination = nil
		c.state.ListError = labelsFor(c.state.Language).LoadError
		return
	}

	spells := res.Page.Spells
	if spells == nil {
		spells = []catalog.Spell{}
	}
	pagination := res.Page.Pagination

	c.state.Spells = spells
	c.state.Pagination = &pagination
	c.state.Page = pagination.Page
	c.state.ListError = ""
	c.state.Selected = nil
}

func (c *Controller) applyFilters(res Result) {
	if res.FiltersErr != nil || res.Filters == nil {
		log.Printf("Failed to load filter options: %v", res.FiltersErr)
		return
	}

	c.state.Schools = slices.Clone(res.Filters.Schools)
	c.state.Types = slices.Clone(res.Filters.Types)

	cleared := false
	if f := c.state.Filters.School; f != "" && !slices.Contains(c.state.Schools, f) {
		c.state.Filters.School = ""
		cleared = true
	}
	if f := c.state.Filters.Type; f != "" && !slices.Contains(c.state.Types, f) {
		c.state.Filters.Type = ""
		cleared = true
	}

	if cleared {
		c.state.Page = 1
		req := c.refetch(false)
		c.followUp = &req
	}
}

func (c *Controller) applySpell(res Result) {
	c.state.DetailLoading = false
	c.spellToken = 0

	if client.IsNotFound(res.SpellErr) {
		log.Printf("Prerequisite %s is not in the catalogue", res.Request.Spell)
		return
	}
	if res.SpellErr != nil || res.Spell == nil {
		log.Printf("Failed to load spell %s: %v", res.Request.Spell, res.SpellErr)
		return
	}

	spell := *res.Spell
	c.state.Selected = &spell
}
