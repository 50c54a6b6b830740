// Package menu is the interactive front end. It is a small state machine
// over a main menu and an extract submenu; the work behind each entry is
// delegated to an Actions implementation so the flow can be driven by
// scripted input in tests.
package menu
