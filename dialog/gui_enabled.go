//go:build gui

package dialog

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynedialog "fyne.io/fyne/v2/dialog"
)

// App owns the Fyne event loop and shows error dialogs parented to a small
// hidden window.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
}

func NewApp() *App {
	a := app.NewWithID("io.waykeys.bridge")
	w := a.NewWindow("waykeys")
	w.Resize(fyne.NewSize(380, 120))
	return &App{fyneApp: a, window: w}
}

// Run starts the Fyne event loop on the calling goroutine and invokes
// onReady in a goroutine once the loop is up.
func (a *App) Run(onReady func()) {
	go onReady()
	a.fyneApp.Run()
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		a.fyneApp.Quit()
	}
}

func (a *App) Error(title, text string) {
	fyne.Do(func() {
		a.window.SetTitle(title)
		d := fynedialog.NewError(errors.New(text), a.window)
		d.SetOnClosed(func() { a.window.Hide() })
		a.window.Show()
		d.Show()
	})
}
