//go:build gui

package main

import (
	"runtime"

	"waykeys/dialog"
)

var guiApp *dialog.App

func initGUI() {
	runtime.LockOSThread()
	guiApp = dialog.NewApp()
	notify = guiApp
	guiApp.Run(func() {
		run()
		guiApp.Quit()
	})
}
