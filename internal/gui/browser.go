package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/controller"
)

type widgets struct {
	sidebar  *fyne.Container
	progress *widget.ProgressBarInfinite

	language  *widget.Check
	sortLabel *widget.Label
	sort      *optionSelect
	school    *optionSelect
	spellType *optionSelect
	search    *widget.Entry
	reset     *widget.Button

	list   *fyne.Container
	detail *fyne.Container

	pager     *fyne.Container
	pageLabel *widget.Label
	prev      *widget.Button
	next      *widget.Button

	lastSearch string
}

// optionSelect is a Select whose labels map to controller values.
type optionSelect struct {
	label  *widget.Label
	sel    *widget.Select
	values []string
}

func newOptionSelect(onChange func(value string)) *optionSelect {
	o := &optionSelect{label: widget.NewLabel("")}
	o.sel = widget.NewSelect(nil, func(string) {
		if i := o.sel.SelectedIndex(); i >= 0 && i < len(o.values) {
			onChange(o.values[i])
		}
	})
	return o
}

func (o *optionSelect) set(title string, opts []controller.MenuOption, current string) {
	o.label.SetText(title)

	labels := make([]string, len(opts))
	o.values = make([]string, len(opts))
	selected := 0
	for i, opt := range opts {
		labels[i] = opt.Label
		o.values[i] = opt.Value
		if opt.Value == current {
			selected = i
		}
	}
	o.sel.Options = labels
	o.sel.SetSelectedIndex(selected)
	o.sel.Refresh()
}

func (a *App) buildWidgets() *widgets {
	w := &widgets{
		progress:  widget.NewProgressBarInfinite(),
		sortLabel: widget.NewLabel(""),
		list:      container.NewVBox(),
		detail:    container.NewVBox(),
		pageLabel: widget.NewLabel(""),
	}
	w.progress.Hide()

	w.language = widget.NewCheck("", func(checked bool) {
		if a.rendering {
			return
		}
		lang := catalog.LangPT
		if checked {
			lang = catalog.LangEN
		}
		a.dispatch(a.ctrl.SetLanguage(lang))
	})

	w.sort = newOptionSelect(func(v string) { a.onMenu(a.ctrl.ChangeSort, v) })
	w.school = newOptionSelect(func(v string) { a.onMenu(a.ctrl.ChangeSchool, v) })
	w.spellType = newOptionSelect(func(v string) { a.onMenu(a.ctrl.ChangeType, v) })

	w.search = widget.NewEntry()
	w.search.OnSubmitted = func(text string) {
		w.lastSearch = text
		a.dispatch(a.ctrl.Search(text))
	}

	w.reset = widget.NewButton("", func() {
		// Unsubmitted text would otherwise survive the reset.
		w.search.SetText("")
		w.lastSearch = ""
		a.dispatch(a.ctrl.ResetFilters())
	})

	w.sidebar = container.NewVBox(
		w.language,
		w.sort.label, w.sort.sel,
		w.school.label, w.school.sel,
		w.spellType.label, w.spellType.sel,
		w.search,
		w.reset,
	)

	w.prev = widget.NewButton("", func() {
		if req, ok := a.ctrl.PrevPage(); ok {
			a.dispatch(req)
		}
	})
	w.next = widget.NewButton("", func() {
		if req, ok := a.ctrl.NextPage(); ok {
			a.dispatch(req)
		}
	})
	w.pager = container.NewHBox(w.prev, w.pageLabel, w.next)
	w.pager.Hide()

	return w
}

func (a *App) onMenu(change func(string) controller.Request, value string) {
	if a.rendering {
		return
	}
	a.dispatch(change(value))
}

func (a *App) selectSpell(nameUnique string) {
	if a.ctrl.SelectSpell(nameUnique) {
		a.render()
	}
}

func (a *App) followPrerequisite(nameUnique string) {
	if req, ok := a.ctrl.FollowPrerequisite(nameUnique); ok {
		a.dispatch(req)
		return
	}
	a.render()
}

// render copies the controller's screen into the widgets. Widget callbacks
// fired while rendering are ignored.
func (a *App) render() {
	a.rendering = true
	defer func() { a.rendering = false }()

	sc := a.ctrl.View()
	l := sc.Labels
	w := a.w

	if a.window != nil {
		a.window.SetTitle(l.Title)
	}

	if sc.Loading {
		w.progress.Show()
	} else {
		w.progress.Hide()
	}

	w.language.Text = l.Language
	w.language.SetChecked(sc.Language == catalog.LangEN)
	w.sort.set(l.Sort, sc.SortOptions, sc.Sort)
	w.school.set(l.School, sc.SchoolOptions, sc.School)
	w.spellType.set(l.Type, sc.TypeOptions, sc.Type)
	w.search.SetPlaceHolder(l.Search)
	if sc.Search != w.lastSearch {
		w.search.SetText(sc.Search)
		w.lastSearch = sc.Search
	}
	w.reset.SetText(l.Reset)

	w.list.Objects = listObjects(sc, a.selectSpell)
	w.list.Refresh()

	w.detail.Objects = detailObjects(sc, a.followPrerequisite)
	w.detail.Refresh()

	if p := sc.Pagination; p != nil {
		w.pageLabel.SetText(p.Label)
		w.prev.SetText(l.Previous)
		w.next.SetText(l.Next)
		setEnabled(w.prev, p.PrevEnabled)
		setEnabled(w.next, p.NextEnabled)
		w.pager.Show()
	} else {
		w.pager.Hide()
	}
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func listObjects(sc controller.Screen, onSelect func(string)) []fyne.CanvasObject {
	if sc.Message != "" {
		msg := widget.NewLabel(sc.Message)
		msg.Wrapping = fyne.TextWrapWord
		return []fyne.CanvasObject{msg}
	}
	if sc.Loading && len(sc.Items) == 0 {
		return []fyne.CanvasObject{loadingIndicator(sc.Labels.Loading)}
	}

	objs := make([]fyne.CanvasObject, 0, len(sc.Items))
	for _, item := range sc.Items {
		name := item.NameUnique
		btn := widget.NewButton(item.Label, func() { onSelect(name) })
		btn.Alignment = widget.ButtonAlignLeading
		if item.Active {
			btn.Importance = widget.HighImportance
		}
		objs = append(objs, btn)
	}
	return objs
}

func detailObjects(sc controller.Screen, onPrerequisite func(string)) []fyne.CanvasObject {
	l := sc.Labels
	d := sc.Detail

	if d == nil {
		hint := widget.NewLabel(l.PlaceholderHint)
		hint.Wrapping = fyne.TextWrapWord
		return []fyne.CanvasObject{
			widget.NewLabelWithStyle(l.PlaceholderTitle, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			hint,
		}
	}

	objs := []fyne.CanvasObject{
		widget.NewLabelWithStyle(d.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle(d.Subtitle, fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
	}
	if sc.DetailLoading {
		objs = append(objs, loadingIndicator(l.Loading))
	}

	desc := widget.NewLabel(d.Description)
	desc.Wrapping = fyne.TextWrapWord
	objs = append(objs, desc, widget.NewSeparator(),
		widget.NewLabelWithStyle(l.Details, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))

	form := container.NewGridWithColumns(2)
	for _, row := range d.Rows {
		form.Add(widget.NewLabelWithStyle(row.Label, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		form.Add(widget.NewLabel(row.Value))
	}
	objs = append(objs, form)

	prereqs := container.NewHBox(widget.NewLabelWithStyle(l.Prerequisites+":", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	if len(d.PrerequisiteLinks) > 0 {
		for _, p := range d.PrerequisiteLinks {
			target := p.NameUnique
			btn := widget.NewButton(p.Name, func() { onPrerequisite(target) })
			btn.Importance = widget.LowImportance
			prereqs.Add(btn)
		}
	} else {
		prereqs.Add(widget.NewLabel(d.PrerequisiteText))
	}
	objs = append(objs, prereqs)

	item := widget.NewLabel(d.Item)
	item.Wrapping = fyne.TextWrapWord
	objs = append(objs,
		widget.NewSeparator(),
		widget.NewLabelWithStyle(l.Item, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		item,
		widget.NewLabelWithStyle(d.Reference, fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
	)

	return objs
}
