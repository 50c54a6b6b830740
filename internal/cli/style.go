package cli

import (
	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	styleHeading = color.New(color.FgBlue, color.Bold).SprintFunc()
	styleInfo    = color.New(color.FgBlue).SprintFunc()
	styleSuccess = color.New(color.FgGreen).SprintFunc()
	styleOK      = color.New(color.FgGreen, color.Bold).SprintFunc()
	styleError   = color.New(color.FgRed).SprintFunc()
	styleFailed  = color.New(color.FgRed, color.Bold).SprintFunc()
	styleWarn    = color.New(color.FgYellow).SprintFunc()
	styleMuted   = color.New(color.FgHiBlack).SprintFunc()
)

// printer formats counts and tallies.
var printer = message.NewPrinter(language.English)
