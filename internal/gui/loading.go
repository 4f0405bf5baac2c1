package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// loadingIndicator is a spinner row shown in place of content that is still
// being fetched.
func loadingIndicator(message string) fyne.CanvasObject {
	label := widget.NewLabelWithStyle(message, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	return container.NewVBox(container.NewPadded(widget.NewProgressBarInfinite()), label)
}
