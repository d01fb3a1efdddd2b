package app

import (
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/theme"
	"github.com/bethropolis/blox/internal/tui"
)

// themeControl applies theme changes to the canvas and status bar styles.
type themeControl struct {
	app     *App
	manager *theme.Manager
}

func newThemeControl(a *App, themesDir, initial string) *themeControl {
	tc := &themeControl{app: a, manager: theme.NewManager(themesDir)}
	if initial != "" {
		if err := tc.manager.SetTheme(initial); err != nil {
			logger.Warnf("App: %v, using %s", err, tc.manager.Current().Name)
		}
	}
	tc.apply()
	return tc
}

func (tc *themeControl) CurrentTheme() string {
	return tc.manager.Current().Name
}

func (tc *themeControl) SetTheme(name string) error {
	if err := tc.manager.SetTheme(name); err != nil {
		return err
	}
	tc.apply()
	tc.app.requestRedraw()
	return nil
}

func (tc *themeControl) ListThemes() []string {
	return tc.manager.ListThemes()
}

func (tc *themeControl) apply() {
	current := tc.manager.Current()
	tc.app.styles = tui.StylesFromTheme(current)
	tc.app.statusBar.SetTheme(current)
}
