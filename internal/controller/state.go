package controller

import (
	"slices"

	"github.com/ramonehamilton/grimorio/internal/catalog"
)

// Filters are the active list constraints. Empty values don't constrain.
type Filters struct {
	School string
	Type   string
	Search string
}

// State is everything the controller knows about the screen.
type State struct {
	Language catalog.Language
	Page     int
	Sort     string
	Filters  Filters

	// Spells is nil until the first list arrives and while a language switch loads.
	Spells   []catalog.Spell
	Selected *catalog.Spell

	Loading       bool
	DetailLoading bool

	// ListError replaces the list after a failed fetch.
	ListError string

	// Pagination is nil when unknown or after a failed fetch.
	Pagination *catalog.Pagination

	Schools []string
	Types   []string
}

func (s *State) find(nameUnique string) (catalog.Spell, bool) {
	i := slices.IndexFunc(s.Spells, func(sp catalog.Spell) bool { return sp.NameUnique == nameUnique })
	if i < 0 {
		return catalog.Spell{}, false
	}
	return s.Spells[i], true
}

func (s *State) clone() State {
	out := *s
	out.Spells = slices.Clone(s.Spells)
	out.Schools = slices.Clone(s.Schools)
	out.Types = slices.Clone(s.Types)
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	if s.Pagination != nil {
		p := *s.Pagination
		out.Pagination = &p
	}
	return out
}
