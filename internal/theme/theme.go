// Package theme holds named sets of tcell styles for the canvas and the status
// bar, built in or loaded from TOML files.
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/blox/internal/logger"
)

// Style names looked up by the canvas and the status bar.
const (
	StyleDefault           = "Default"
	StyleGuide             = "Guide"
	StyleContainer         = "Container"
	StyleContent           = "Content"
	StylePlaceholder       = "Placeholder"
	StyleSelected          = "Selected"
	StyleHighlighted       = "Highlighted"
	StyleStyleTarget       = "StyleTarget"
	StyleDragging          = "Dragging"
	StyleIndicator         = "Indicator"
	StyleEditing           = "Editing"
	StyleStatusBar         = "StatusBar"
	StyleStatusBarModified = "StatusBar.Modified"
	StyleStatusBarMessage  = "StatusBar.Message"
	StyleStatusBarFrozen   = "StatusBar.Frozen"
)

type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part before the first
// dot and then to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}
	if dot := strings.Index(name, "."); dot != -1 {
		if style, ok := t.Styles[name[:dot]]; ok {
			return style
		}
	}
	if def, ok := t.Styles[StyleDefault]; ok {
		return def
	}
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// Dark is the built-in default theme.
var Dark = func() *Theme {
	base := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	bar := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue)
	return &Theme{
		Name:   "Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:     base,
			StyleGuide:       base.Foreground(tcell.ColorGray),
			StyleContainer:   base.Foreground(tcell.ColorAqua).Bold(true),
			StyleContent:     base.Foreground(tcell.ColorWhite),
			StylePlaceholder: base.Foreground(tcell.ColorGray).Italic(true),
			StyleSelected:    base.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal),
			StyleHighlighted: base.Background(tcell.ColorNavy),
			StyleStyleTarget: base.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
			StyleDragging:    base.Foreground(tcell.ColorGray).Dim(true),
			StyleIndicator:   base.Foreground(tcell.ColorFuchsia).Bold(true),
			StyleEditing:     base.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon),

			StyleStatusBar:         bar,
			StyleStatusBarModified: bar.Foreground(tcell.ColorYellow).Bold(true),
			StyleStatusBarMessage:  bar.Foreground(tcell.ColorWhite).Bold(true),
			StyleStatusBarFrozen:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true),
		},
	}
}()

// Light suits terminals with a light background.
var Light = func() *Theme {
	base := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	bar := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkBlue)
	return &Theme{
		Name: "Light",
		Styles: map[string]tcell.Style{
			StyleDefault:     base,
			StyleGuide:       base.Foreground(tcell.ColorGray),
			StyleContainer:   base.Foreground(tcell.ColorDarkCyan).Bold(true),
			StyleContent:     base.Foreground(tcell.ColorNavy),
			StylePlaceholder: base.Foreground(tcell.ColorGray).Italic(true),
			StyleSelected:    base.Foreground(tcell.ColorWhite).Background(tcell.ColorTeal),
			StyleHighlighted: base.Background(tcell.ColorLightCyan),
			StyleStyleTarget: base.Background(tcell.ColorYellow),
			StyleDragging:    base.Foreground(tcell.ColorSilver),
			StyleIndicator:   base.Foreground(tcell.ColorPurple).Bold(true),
			StyleEditing:     base.Foreground(tcell.ColorBlack).Background(tcell.ColorLightYellow),

			StyleStatusBar:         bar,
			StyleStatusBarModified: bar.Foreground(tcell.ColorYellow).Bold(true),
			StyleStatusBarMessage:  bar.Bold(true),
			StyleStatusBarFrozen:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed).Bold(true),
		},
	}
}()
