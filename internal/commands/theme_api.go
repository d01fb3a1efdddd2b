package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/plugin"
)

// ThemeAPI is the theme control the ':theme' commands need.
type ThemeAPI interface {
	CurrentTheme() string
	SetTheme(name string) error
	ListThemes() []string
}

// RegisterThemeCommands registers ':theme [name]' and ':themes'.
func RegisterThemeCommands(api plugin.EditorAPI, themes ThemeAPI) error {
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			api.SetStatusMessage("Current theme: %s", themes.CurrentTheme())
			return nil
		}
		name := strings.Join(args, " ") // Allow theme names with spaces
		if err := themes.SetTheme(name); err != nil {
			return fmt.Errorf("theme '%s' not found. Available: %s", name, strings.Join(themes.ListThemes(), ", "))
		}
		api.SetStatusMessage("Theme set to: %s", themes.CurrentTheme())
		return nil
	}
	themeListCmdFunc := func(args []string) error {
		api.SetStatusMessage("Available themes: %s", strings.Join(themes.ListThemes(), ", "))
		return nil
	}

	if err := api.RegisterCommand("theme", themeCmdFunc); err != nil {
		logger.Warnf("Failed to register ':theme' command: %v", err)
		return err
	}
	if err := api.RegisterCommand("themes", themeListCmdFunc); err != nil {
		logger.Warnf("Failed to register ':themes' command: %v", err)
		return err
	}
	return nil
}
