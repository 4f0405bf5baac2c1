// Package gui is the fyne desktop front end of the spell browser.
package gui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"github.com/ramonehamilton/grimorio/internal/controller"
)

// App represents the GUI application.
type App struct {
	app    fyne.App
	window fyne.Window
	ctx    context.Context
	ctrl   *controller.Controller

	// spawn runs a fetch off the UI goroutine; do brings its result back.
	spawn func(func())
	do    func(func())

	w         *widgets
	rendering bool
}

// NewApp creates a new GUI application driving ctrl.
func NewApp(ctx context.Context, ctrl *controller.Controller) *App {
	return newApp(app.NewWithID("io.grimorio.desktop"), ctx, ctrl)
}

func newApp(fa fyne.App, ctx context.Context, ctrl *controller.Controller) *App {
	a := &App{
		app:   fa,
		ctx:   ctx,
		ctrl:  ctrl,
		spawn: func(f func()) { go f() },
		do:    fyne.Do,
	}
	a.w = a.buildWidgets()
	return a
}

// Run opens the main window, starts the first load and blocks until the
// window is closed.
func (a *App) Run() {
	a.window = a.app.NewWindow(a.ctrl.View().Labels.Title)
	a.window.Resize(fyne.NewSize(1100, 700))
	a.window.SetContent(a.content())

	a.dispatch(a.ctrl.Init())
	a.window.ShowAndRun()
}

func (a *App) content() fyne.CanvasObject {
	w := a.w

	lists := container.NewHSplit(
		container.NewBorder(nil, w.pager, nil, nil, container.NewVScroll(w.list)),
		container.NewVScroll(w.detail),
	)
	lists.SetOffset(0.35)

	return container.NewBorder(w.progress, nil, w.sidebar, nil, lists)
}

// dispatch runs req in the background and applies its result on the UI
// goroutine.
func (a *App) dispatch(req controller.Request) {
	a.render()
	if req.Empty() {
		return
	}

	a.spawn(func() {
		res := a.ctrl.Execute(a.ctx, req)
		a.do(func() { a.apply(res) })
	})
}

func (a *App) apply(res controller.Result) {
	if !a.ctrl.Apply(res) {
		return
	}
	a.render()

	if req, ok := a.ctrl.TakeFollowUp(); ok {
		a.dispatch(req)
	}
}
