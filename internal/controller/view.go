package controller

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/grimorio/internal/catalog"
)

// MenuOption is one entry of a select control. An empty Value means "all".
type MenuOption struct {
	Label string
	Value string
}

// ListItem is one pressable entry of the spell list.
type ListItem struct {
	NameUnique string
	Label      string
	Active     bool
}

// Row is a labelled value of the detail panel.
type Row struct {
	Label string
	Value string
}

// Detail is the render model of the selected spell.
type Detail struct {
	NameUnique  string
	Title       string
	Subtitle    string
	Description string
	Rows        []Row

	// PrerequisiteLinks is set when the spell has structured prerequisites;
	// otherwise PrerequisiteText holds the plain text or the "none" fallback.
	PrerequisiteLinks []catalog.PrereqRef
	PrerequisiteText  string

	Item      string
	Reference string
}

// PageControls is the pagination bar. It is nil when there is a single page.
type PageControls struct {
	Label       string
	PrevEnabled bool
	NextEnabled bool
}

// Screen is everything a front end needs to draw.
type Screen struct {
	Language catalog.Language
	Labels   Labels

	Loading       bool
	DetailLoading bool

	// Items is empty when Message is set.
	Items   []ListItem
	Message string

	// Detail is nil when the placeholder should be shown.
	Detail *Detail

	Pagination *PageControls

	Sort          string
	SortOptions   []MenuOption
	School        string
	SchoolOptions []MenuOption
	Type          string
	TypeOptions   []MenuOption
	Search        string
}

// View renders the current state.
func (c *Controller) View() Screen {
	st := &c.state
	l := labelsFor(st.Language)

	sc := Screen{
		Language:      st.Language,
		Labels:        l,
		Loading:       st.Loading,
		DetailLoading: st.DetailLoading,
		Sort:          st.Sort,
		SortOptions: []MenuOption{
			{Label: l.SortBook, Value: catalog.SortBook},
			{Label: l.SortName, Value: catalog.SortName},
			{Label: l.SortCost, Value: catalog.SortCost},
		},
		School:        st.Filters.School,
		SchoolOptions: menu(l.AllSchools, st.Schools),
		Type:          st.Filters.Type,
		TypeOptions:   menu(l.AllTypes, st.Types),
		Search:        st.Filters.Search,
	}

	switch {
	case st.ListError != "":
		sc.Message = st.ListError
	case st.Spells != nil && len(st.Spells) == 0:
		sc.Message = l.NoSpells
	default:
		sc.Items = make([]ListItem, len(st.Spells))
		for i, s := range st.Spells {
			sc.Items[i] = ListItem{
				NameUnique: s.NameUnique,
				Label:      s.Name,
				Active:     st.Selected != nil && st.Selected.NameUnique == s.NameUnique,
			}
		}
	}

	if st.Selected != nil {
		sc.Detail = renderDetail(st.Selected, l)
	}

	if p := st.Pagination; p != nil && p.TotalPages > 1 {
		sc.Pagination = &PageControls{
			Label:       fmt.Sprintf(l.PageFormat, p.Page, p.TotalPages),
			PrevEnabled: p.HasPrev,
			NextEnabled: p.HasNext,
		}
	}

	return sc
}

func menu(all string, values []string) []MenuOption {
	opts := make([]MenuOption, 0, len(values)+1)
	opts = append(opts, MenuOption{Label: all})
	for _, v := range values {
		opts = append(opts, MenuOption{Label: v, Value: v})
	}
	return opts
}

func renderDetail(s *catalog.Spell, l Labels) *Detail {
	schools := strings.Join(s.Schools, ", ")
	if schools == "" {
		schools = l.NoSchool
	}

	d := &Detail{
		NameUnique:  s.NameUnique,
		Title:       s.Name,
		Subtitle:    fmt.Sprintf("%s (%s)", schools, s.Type),
		Description: s.Description,
		Rows: []Row{
			{Label: l.Cost, Value: orDefault(s.CostText, l.NotAvailable)},
			{Label: l.Maintenance, Value: orDefault(s.MaintenanceCostText, l.NotAvailable)},
			{Label: l.CastingTime, Value: orDefault(s.CastingTime, l.NotAvailable)},
			{Label: l.Duration, Value: orDefault(s.Duration, l.NotAvailable)},
		},
		Item:      orDefault(s.ItemDescription, l.ItemUnavailable),
		Reference: fmt.Sprintf("%s: %s", l.Reference, orDefault(s.Reference, l.NotAvailable)),
	}

	if len(s.PrerequisitesObj) > 0 {
		d.PrerequisiteLinks = append([]catalog.PrereqRef(nil), s.PrerequisitesObj...)
	} else {
		d.PrerequisiteText = orDefault(s.PrerequisitesText, l.NoPrerequisites)
	}

	return d
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
