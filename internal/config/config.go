package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/blox/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config `toml:"logger"`
	Editor  EditorConfig  `toml:"editor"`
	History HistoryConfig `toml:"history"`
	DnD     DnDConfig     `toml:"dnd"`
	Canvas  CanvasConfig  `toml:"canvas"`
}

// EditorConfig holds document and session settings.
type EditorConfig struct {
	SystemClipboard bool     `toml:"system_clipboard"`
	DatabasePath    string   `toml:"database_path"`
	PageID          string   `toml:"page_id"`
	AutosaveDelay   Duration `toml:"autosave_delay"`
}

type HistoryConfig struct {
	MaxEntries     int      `toml:"max_entries"`
	CoalesceWindow Duration `toml:"coalesce_window"`
}

type DnDConfig struct {
	ThrottleInterval   Duration `toml:"throttle_interval"`
	IndicatorThickness int      `toml:"indicator_thickness"`
}

type CanvasConfig struct {
	HoverThrottle  Duration `toml:"hover_throttle"`
	InlineEditable []string `toml:"inline_editable"`
	Theme          string   `toml:"theme"`
	ThemesDir      string   `toml:"themes_dir"`
}

// Duration is a time.Duration written as a Go duration string ("200ms", "1s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			SystemClipboard: SystemClipboard,
			PageID:          DefaultPageID,
			AutosaveDelay:   Duration{DefaultAutosaveDelay},
		},
		History: HistoryConfig{
			MaxEntries:     DefaultMaxEntries,
			CoalesceWindow: Duration{DefaultCoalesceWindow},
		},
		DnD: DnDConfig{
			ThrottleInterval:   Duration{DefaultThrottleInterval},
			IndicatorThickness: DefaultIndicatorThickness,
		},
		Canvas: CanvasConfig{
			HoverThrottle: Duration{DefaultHoverThrottle},
			Theme:         DefaultTheme,
		},
	}
}

// DefaultConfigPath is ~/.config/blox/config.toml, or "" if the config dir is unknown.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// DefaultThemesDir is ~/.config/blox/themes, or "" if the config dir is unknown.
func DefaultThemesDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "themes")
}

// DefaultDatabasePath places the database next to the config file.
func DefaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultDatabaseFileName
	}
	return filepath.Join(dir, AppName, DefaultDatabaseFileName)
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
func loadFromFile(cfg *Config, filePath string) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.WarnTagf("config", "Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	return nil
}

// validate resets invalid values to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if strings.TrimSpace(c.Editor.PageID) == "" {
		c.Editor.PageID = defaults.Editor.PageID
	}
	if c.Editor.DatabasePath == "" {
		c.Editor.DatabasePath = DefaultDatabasePath()
	}
	if c.Editor.AutosaveDelay.Duration <= 0 {
		c.Editor.AutosaveDelay = defaults.Editor.AutosaveDelay
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}
	// A negative window disables coalescing by time; zero means the default.
	if c.History.CoalesceWindow.Duration == 0 {
		c.History.CoalesceWindow = defaults.History.CoalesceWindow
	}
	if c.DnD.ThrottleInterval.Duration < 0 {
		c.DnD.ThrottleInterval = defaults.DnD.ThrottleInterval
	}
	if c.DnD.IndicatorThickness <= 0 {
		c.DnD.IndicatorThickness = defaults.DnD.IndicatorThickness
	}
	if strings.TrimSpace(c.Canvas.Theme) == "" {
		c.Canvas.Theme = defaults.Canvas.Theme
	}
	if c.Canvas.ThemesDir == "" {
		c.Canvas.ThemesDir = DefaultThemesDir()
	}
	if c.Canvas.HoverThrottle.Duration < 0 {
		c.Canvas.HoverThrottle = defaults.Canvas.HoverThrottle
	}
}

// Load builds a configuration from defaults, the file at configFilePath
// (the default location when empty), flag overrides and validation.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	path := configFilePath
	if path == "" {
		path = DefaultConfigPath()
	}
	var err error
	if path != "" {
		err = loadFromFile(cfg, path)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig loads the process-wide configuration once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
