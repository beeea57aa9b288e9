//go:build !gui

package main

func initGUI() {
	panic("waykeys: built without GUI support (rebuild with -tags gui)")
}
