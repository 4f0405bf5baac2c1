package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ramonehamilton/grimorio/internal/controller"
)

var (
	accent = lipgloss.Color("99")
	muted  = lipgloss.Color("244")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle    = lipgloss.NewStyle().Foreground(muted)
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(accent)
	cursorStyle   = lipgloss.NewStyle().Foreground(accent)
	messageStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("203"))
	helpStyle     = lipgloss.NewStyle().Foreground(muted)
	spinnerStyle  = lipgloss.NewStyle().Foreground(accent)
	linkStyle     = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("117"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
)

const (
	listWidth     = 32
	minTextWidth  = 20
	panelOverhead = 4 // border and padding of one panel
)

// View renders the screen.
func (m Model) View() string {
	sc := m.ctrl.View()
	l := sc.Labels

	var b strings.Builder

	title := titleStyle.Render(l.Title) + labelStyle.Render(fmt.Sprintf("  [%s]", sc.Language))
	if sc.Loading || sc.DetailLoading {
		title += "  " + m.spinner.View() + " " + labelStyle.Render(l.Loading)
	}
	b.WriteString(title + "\n")
	b.WriteString(m.filterLine(sc) + "\n\n")

	list := panelStyle.Width(listWidth).Render(m.listView(sc))
	detailWidth := max(m.width-listWidth-2*panelOverhead, minTextWidth)
	detail := panelStyle.Width(detailWidth).Render(detailView(sc, detailWidth-2))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, detail) + "\n")

	if p := sc.Pagination; p != nil {
		prev, nxt := labelStyle.Render("‹ "+l.Previous), labelStyle.Render(l.Next+" ›")
		if p.PrevEnabled {
			prev = headerStyle.Render("‹ " + l.Previous)
		}
		if p.NextEnabled {
			nxt = headerStyle.Render(l.Next + " ›")
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s\n", prev, p.Label, nxt))
	}

	b.WriteString(helpStyle.Render(wordwrap.String(l.KeyHelp, max(m.width, minTextWidth))))
	return b.String()
}

func (m Model) filterLine(sc controller.Screen) string {
	l := sc.Labels

	search := sc.Search
	if m.searching {
		search = m.search.View()
	} else if search == "" {
		search = labelStyle.Render(l.Search)
	}

	return strings.Join([]string{
		labelStyle.Render(l.Sort+":") + " " + optionLabel(sc.SortOptions, sc.Sort),
		labelStyle.Render(l.School+":") + " " + optionLabel(sc.SchoolOptions, sc.School),
		labelStyle.Render(l.Type+":") + " " + optionLabel(sc.TypeOptions, sc.Type),
		search,
	}, "   ")
}

func optionLabel(opts []controller.MenuOption, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func (m Model) listView(sc controller.Screen) string {
	if sc.Message != "" {
		return messageStyle.Render(wordwrap.String(sc.Message, listWidth-2))
	}

	var b strings.Builder
	for i, item := range sc.Items {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("▸ ")
		}
		label := item.Label
		if item.Active {
			label = activeStyle.Render(label)
		}
		b.WriteString(prefix + label + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func detailView(sc controller.Screen, width int) string {
	l := sc.Labels
	d := sc.Detail
	if d == nil {
		return headerStyle.Render(l.PlaceholderTitle) + "\n" + labelStyle.Render(wordwrap.String(l.PlaceholderHint, width))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Title) + "\n")
	b.WriteString(labelStyle.Render(d.Subtitle) + "\n\n")
	if d.Description != "" {
		b.WriteString(wordwrap.String(d.Description, width) + "\n\n")
	}

	b.WriteString(headerStyle.Render(l.Details) + "\n")
	for _, row := range d.Rows {
		b.WriteString(labelStyle.Render(row.Label+": ") + row.Value + "\n")
	}

	b.WriteString(labelStyle.Render(l.Prerequisites+": "))
	if len(d.PrerequisiteLinks) > 0 {
		links := make([]string, len(d.PrerequisiteLinks))
		for i, p := range d.PrerequisiteLinks {
			links[i] = fmt.Sprintf("[%d] %s", i+1, linkStyle.Render(p.Name))
		}
		b.WriteString(strings.Join(links, ", "))
	} else {
		b.WriteString(d.PrerequisiteText)
	}
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(l.Item) + "\n")
	b.WriteString(wordwrap.String(d.Item, width) + "\n\n")
	b.WriteString(labelStyle.Render(d.Reference))

	return b.String()
}
