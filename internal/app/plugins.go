package app

import (
	"fmt"

	"github.com/bethropolis/blox/internal/commands"
	"github.com/bethropolis/blox/internal/config"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/plugin"
	"github.com/bethropolis/blox/plugins/autosave"
	"github.com/bethropolis/blox/plugins/blockcount"
)

// registerPlugins registers the built-in plugins with the manager.
func registerPlugins(pm *plugin.Manager, cfg *config.Config) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	plugins := []plugin.Plugin{
		autosave.New(cfg.Editor.AutosaveDelay.Duration),
		blockcount.New(),
	}

	var finalErr error
	for _, p := range plugins {
		logger.Debugf("Registering plugin: %s", p.Name())
		if err := pm.Register(p); err != nil {
			wrappedErr := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrappedErr)
			if finalErr == nil {
				finalErr = wrappedErr
			}
		}
	}
	return finalErr
}

// registerAppCommands registers built-in commands plus ':help'.
func registerAppCommands(a *App) error {
	if err := commands.RegisterAppCommands(a.editorAPI, a.editor, a); err != nil {
		return err
	}
	if err := commands.RegisterThemeCommands(a.editorAPI, a.themes); err != nil {
		return err
	}
	return a.editorAPI.RegisterCommand("help", func(args []string) error {
		a.statusBar.SetTemporaryMessage("Commands: %v", a.modeHandler.Commands())
		return nil
	})
}
