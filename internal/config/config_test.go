package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Equal(t, DefaultPageID, cfg.Editor.PageID)
	assert.Equal(t, DefaultMaxEntries, cfg.History.MaxEntries)
	assert.Equal(t, time.Second, cfg.History.CoalesceWindow.Duration)
	assert.Equal(t, 200*time.Millisecond, cfg.DnD.ThrottleInterval.Duration)
	assert.Equal(t, 20*time.Millisecond, cfg.Canvas.HoverThrottle.Duration)
	assert.NotEmpty(t, cfg.Editor.DatabasePath)
	assert.Equal(t, DefaultTheme, cfg.Canvas.Theme)
}

func TestLoadFileSections(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "debug"
enabled_tags = ["dnd"]

[editor]
system_clipboard = false
database_path = "/tmp/pages.db"
page_id = "landing"

[history]
max_entries = 20
coalesce_window = "-1s"

[dnd]
throttle_interval = "50ms"
indicator_thickness = 2

[canvas]
hover_throttle = "0s"
inline_editable = ["Heading"]
theme = "Light"
themes_dir = "/tmp/themes"
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"dnd"}, cfg.Logger.EnabledTags)
	assert.False(t, cfg.Editor.SystemClipboard)
	assert.Equal(t, "/tmp/pages.db", cfg.Editor.DatabasePath)
	assert.Equal(t, "landing", cfg.Editor.PageID)
	assert.Equal(t, 20, cfg.History.MaxEntries)
	assert.Equal(t, -time.Second, cfg.History.CoalesceWindow.Duration)
	assert.Equal(t, 50*time.Millisecond, cfg.DnD.ThrottleInterval.Duration)
	assert.Equal(t, 2, cfg.DnD.IndicatorThickness)
	assert.Equal(t, time.Duration(0), cfg.Canvas.HoverThrottle.Duration)
	assert.Equal(t, []string{"Heading"}, cfg.Canvas.InlineEditable)
	assert.Equal(t, "Light", cfg.Canvas.Theme)
	assert.Equal(t, "/tmp/themes", cfg.Canvas.ThemesDir)
}

func TestLoadInvalidValuesResetToDefaults(t *testing.T) {
	path := writeConfig(t, `
[editor]
page_id = "  "
[history]
max_entries = -3
[dnd]
indicator_thickness = 0
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageID, cfg.Editor.PageID)
	assert.Equal(t, DefaultMaxEntries, cfg.History.MaxEntries)
	assert.Equal(t, DefaultIndicatorThickness, cfg.DnD.IndicatorThickness)
}

func TestLoadBadDurationReportsError(t *testing.T) {
	path := writeConfig(t, `
[history]
coalesce_window = "soon"
`)
	cfg, err := Load(path, nil)
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultCoalesceWindow, cfg.History.CoalesceWindow.Duration)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
[editor]
page_id = "landing"
`)
	var flags Flags
	rest, err := flags.ParseFlags("blox", []string{
		"-page", "about",
		"-db", "/tmp/x.db",
		"-coalesce", "-1ns",
		"-drag-throttle", "0s",
		"-log-tags", "dnd, history ,",
		"-theme", "Paper",
		"extra",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"extra"}, rest)

	cfg, err := Load(path, &flags)
	require.NoError(t, err)
	assert.Equal(t, "about", cfg.Editor.PageID)
	assert.Equal(t, "/tmp/x.db", cfg.Editor.DatabasePath)
	assert.Equal(t, -time.Nanosecond, cfg.History.CoalesceWindow.Duration)
	assert.Equal(t, time.Duration(0), cfg.DnD.ThrottleInterval.Duration)
	assert.Equal(t, []string{"dnd", "history"}, cfg.Logger.EnabledTags)
	assert.Equal(t, "Paper", cfg.Canvas.Theme)
}

func TestUnsetFlagsLeaveFileValues(t *testing.T) {
	path := writeConfig(t, `
[dnd]
throttle_interval = "75ms"
`)
	var flags Flags
	_, err := flags.ParseFlags("blox", nil)
	require.NoError(t, err)

	cfg, err := Load(path, &flags)
	require.NoError(t, err)
	assert.Equal(t, 75*time.Millisecond, cfg.DnD.ThrottleInterval.Duration)
}
