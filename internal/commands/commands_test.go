package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/blox/internal/core"
	"github.com/bethropolis/blox/internal/core/clipboard"
	"github.com/bethropolis/blox/internal/plugin/plugintest"
	"github.com/bethropolis/blox/internal/storage"
)

type fakeHost struct {
	saves   int
	opened  []string
	deleted []string
	quits   []bool
	pages   []storage.Page
	dirty   bool
}

func (h *fakeHost) Save() error {
	h.saves++
	h.dirty = false
	return nil
}

func (h *fakeHost) Open(pageID string) error {
	h.opened = append(h.opened, pageID)
	return nil
}

func (h *fakeHost) Pages(ctx context.Context) ([]storage.Page, error) {
	return h.pages, nil
}

func (h *fakeHost) DeletePage(ctx context.Context, pageID string) error {
	h.deleted = append(h.deleted, pageID)
	return nil
}

func (h *fakeHost) Quit(force bool) error {
	if h.dirty && !force {
		return ErrUnsaved
	}
	h.quits = append(h.quits, force)
	return nil
}

func setup(t *testing.T) (*plugintest.API, *fakeHost) {
	t.Helper()
	ed := core.NewEditor(core.Options{Clipboard: &clipboard.Register{}})
	t.Cleanup(ed.Close)
	api := plugintest.New(ed, "home")
	host := &fakeHost{}
	require.NoError(t, RegisterAppCommands(api, ed, host))
	return api, host
}

func TestPageCommands(t *testing.T) {
	api, host := setup(t)
	host.dirty = true

	assert.ErrorIs(t, api.Run("q"), ErrUnsaved)
	require.NoError(t, api.Run("wq"))
	assert.Equal(t, 1, host.saves)
	assert.Equal(t, []bool{true}, host.quits)

	require.NoError(t, api.Run("e", "about"))
	assert.Equal(t, []string{"about"}, host.opened)
	assert.Error(t, api.Run("open"))

	host.pages = []storage.Page{{ID: "home", Blocks: 3}, {ID: "about", Blocks: 0}}
	require.NoError(t, api.Run("pages"))
	assert.Equal(t, "Pages: home(3)*, about(0)", api.LastMessage())

	assert.Error(t, api.Run("delpage", "home"))
	require.NoError(t, api.Run("delpage", "about"))
	assert.Equal(t, []string{"about"}, host.deleted)
}

func TestAddChecksRegisteredTypes(t *testing.T) {
	api, _ := setup(t)

	require.NoError(t, api.Run("add", "Box"))
	require.NoError(t, api.Run("add", "Text"))
	assert.Error(t, api.Run("add", "Carousel"))

	roots := api.Editor.Reader().Children("")
	require.Len(t, roots, 1)
	assert.Equal(t, "Box", roots[0].Type)
	inner := api.Editor.Reader().Children(roots[0].ID)
	require.Len(t, inner, 1, "new block goes inside the selected container")
	assert.Equal(t, "Text", inner[0].Type)
}

func TestPropertyCommands(t *testing.T) {
	api, _ := setup(t)
	assert.Error(t, api.Run("set", "color", "red"), "nothing selected")

	require.NoError(t, api.Run("add", "Text"))
	id := api.Selected()[0]

	require.NoError(t, api.Run("set", "level", "2"))
	require.NoError(t, api.Run("set", "color", "dark", "red"))
	require.NoError(t, api.Run("name", "Intro", "text"))
	assert.Error(t, api.Run("set", "_type", "Box"))

	b, err := api.Editor.Reader().Get(id)
	require.NoError(t, err)
	assert.Equal(t, float64(2), b.Properties["level"])
	assert.Equal(t, "dark red", b.Properties["color"])
	assert.Equal(t, "Intro text", b.Name)

	require.NoError(t, api.Run("unset", "color"))
	require.NoError(t, api.Run("name"))
	b, _ = api.Editor.Reader().Get(id)
	assert.NotContains(t, b.Properties, "color")
	assert.Empty(t, b.Name)

	// Each command is its own history entry.
	require.NoError(t, api.Editor.Undo())
	b, _ = api.Editor.Reader().Get(id)
	assert.Equal(t, "Intro text", b.Name)
	assert.NotContains(t, b.Properties, "color")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, float64(1.5), ParseValue("1.5"))
	assert.Equal(t, []any{"a"}, ParseValue(`["a"]`))
	assert.Equal(t, "hello", ParseValue("hello"))
	assert.Equal(t, "null", ParseValue("null"))
}

type fakeThemes struct {
	current string
	names   []string
}

func (f *fakeThemes) CurrentTheme() string { return f.current }

func (f *fakeThemes) SetTheme(name string) error {
	for _, n := range f.names {
		if strings.EqualFold(n, name) {
			f.current = n
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeThemes) ListThemes() []string { return f.names }

func TestThemeCommands(t *testing.T) {
	api, _ := setup(t)
	themes := &fakeThemes{current: "Dark", names: []string{"Dark", "Light"}}
	require.NoError(t, RegisterThemeCommands(api, themes))

	require.NoError(t, api.Run("theme"))
	assert.Equal(t, "Current theme: Dark", api.LastMessage())

	require.NoError(t, api.Run("theme", "light"))
	assert.Equal(t, "Light", themes.current)
	assert.Equal(t, "Theme set to: Light", api.LastMessage())

	err := api.Run("theme", "Neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available: Dark, Light")

	require.NoError(t, api.Run("themes"))
	assert.Equal(t, "Available themes: Dark, Light", api.LastMessage())
}
