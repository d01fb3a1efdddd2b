package modehandler

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core"
	"github.com/bethropolis/blox/internal/core/clipboard"
	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/input"
	"github.com/bethropolis/blox/internal/layout"
	"github.com/bethropolis/blox/internal/statusbar"
)

type fakeHost struct {
	ed       *core.Editor
	modified bool
	saves    int
	scroll   int
}

func (h *fakeHost) Layout() *layout.Layout {
	return layout.Build(h.ed.Projection(), h.ed.Registry(), dnd.Rect{W: 40, H: 20})
}

func (h *fakeHost) Scroll(delta int) { h.scroll += delta }

func (h *fakeHost) Save() error {
	h.saves++
	h.modified = false
	return nil
}

func (h *fakeHost) Modified() bool { return h.modified }

func parent(id string) *string { return &id }

func setup(t *testing.T) (*ModeHandler, *fakeHost, chan struct{}) {
	t.Helper()
	ed := core.NewEditor(core.Options{Clipboard: &clipboard.Register{}})
	t.Cleanup(ed.Close)
	require.NoError(t, ed.Load([]block.Record{
		{ID: "body", Type: "Body"},
		{ID: "a", ParentID: parent("body"), Type: "Text", Properties: map[string]any{"content": "A"}},
	}))
	host := &fakeHost{ed: ed}
	quit := make(chan struct{}, 1)
	mh := New(Config{
		Editor:         ed,
		InputProcessor: input.NewInputProcessor(),
		StatusBar:      statusbar.New(statusbar.DefaultConfig()),
		Host:           host,
		QuitSignal:     quit,
	})
	return mh, host, quit
}

func press(mh *ModeHandler, k tcell.Key) bool {
	return mh.HandleKeyEvent(tcell.NewEventKey(k, 0, tcell.ModNone))
}

func typeRunes(mh *ModeHandler, s string) {
	for _, r := range s {
		mh.HandleKeyEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func message(mh *ModeHandler) string {
	left, _ := mh.statusBar.Text()
	return left
}

func quitSent(quit chan struct{}) bool {
	select {
	case <-quit:
		return true
	default:
		return false
	}
}

func TestAddBlockAfterSelectionAndUndo(t *testing.T) {
	mh, _, _ := setup(t)
	ed := mh.editor
	ed.Selection().Select("a")

	typeRunes(mh, "t")
	kids := ed.Reader().ChildIDs("body")
	require.Len(t, kids, 2)
	assert.Equal(t, "a", kids[0])
	added, err := ed.Reader().Get(kids[1])
	require.NoError(t, err)
	assert.Equal(t, "Text", added.Type)
	assert.Equal(t, []string{added.ID}, ed.Selection().Selected())

	press(mh, tcell.KeyCtrlZ)
	assert.Equal(t, []string{"a"}, ed.Reader().ChildIDs("body"))

	typeRunes(mh, "u")
	assert.Equal(t, "Nothing to undo", message(mh))
}

func TestDeleteProtectedBodyIsReported(t *testing.T) {
	mh, _, _ := setup(t)
	mh.editor.Selection().Select("body")

	press(mh, tcell.KeyDelete)
	assert.Equal(t, "Delete: not allowed for this block", message(mh))
	assert.Len(t, mh.editor.Reader().ChildIDs("body"), 1)
}

func TestCommandModeRunsRegisteredCommand(t *testing.T) {
	mh, _, _ := setup(t)
	var got []string
	require.NoError(t, mh.RegisterCommand("hello", func(args []string) error {
		got = args
		return nil
	}))
	assert.Error(t, mh.RegisterCommand("hello", func([]string) error { return nil }))

	typeRunes(mh, ":")
	assert.Equal(t, ModeCommand, mh.GetCurrentMode())
	typeRunes(mh, "hello x")
	assert.Equal(t, "hello x", mh.GetCommandBuffer())
	press(mh, tcell.KeyEnter)

	assert.Equal(t, ModeNormal, mh.GetCurrentMode())
	assert.Equal(t, []string{"x"}, got)
	assert.Equal(t, []string{"hello"}, mh.Commands())
}

func TestCommandModeUnknownAndBackspace(t *testing.T) {
	mh, _, _ := setup(t)

	typeRunes(mh, ":nope")
	press(mh, tcell.KeyEnter)
	assert.Equal(t, "unknown command: nope", message(mh))

	typeRunes(mh, ":a")
	press(mh, tcell.KeyBackspace2)
	assert.Equal(t, ModeCommand, mh.GetCurrentMode())
	press(mh, tcell.KeyBackspace2)
	assert.Equal(t, ModeNormal, mh.GetCurrentMode())

	assert.EqualError(t, mh.ExecuteCommand("nope"), "unknown command: nope")
	assert.NoError(t, mh.ExecuteCommand("  "))
}

func TestInlineEditCommitsText(t *testing.T) {
	mh, _, _ := setup(t)
	ed := mh.editor
	ed.Selection().Select("a")

	press(mh, tcell.KeyEnter)
	require.Equal(t, ModeEdit, mh.GetCurrentMode())

	typeRunes(mh, "!")
	id, text, cursor, ok := mh.EditState()
	require.True(t, ok)
	assert.Equal(t, "a", id)
	assert.Equal(t, "A!", text)
	assert.Equal(t, 2, cursor)

	press(mh, tcell.KeyEnter)
	assert.Equal(t, ModeNormal, mh.GetCurrentMode())
	b, err := ed.Reader().Get("a")
	require.NoError(t, err)
	assert.Equal(t, "A!", b.Content())

	require.NoError(t, ed.Undo())
	b, _ = ed.Reader().Get("a")
	assert.Equal(t, "A", b.Content())
}

func TestInlineEditOnContainerIsRefused(t *testing.T) {
	mh, _, _ := setup(t)
	mh.editor.Selection().Select("body")

	press(mh, tcell.KeyEnter)
	assert.Equal(t, ModeNormal, mh.GetCurrentMode())
	assert.Equal(t, "This block has no inline text", message(mh))
}

func TestQuitWithUnsavedChangesNeedsSecondPress(t *testing.T) {
	mh, host, quit := setup(t)
	host.modified = true

	typeRunes(mh, "q")
	assert.False(t, quitSent(quit))

	// Any other key disarms the pending quit.
	press(mh, tcell.KeyDown)
	typeRunes(mh, "q")
	assert.False(t, quitSent(quit))

	typeRunes(mh, "q")
	assert.True(t, quitSent(quit))
}

func TestQuitWhenSavedIsImmediate(t *testing.T) {
	mh, host, quit := setup(t)

	press(mh, tcell.KeyCtrlS)
	assert.Equal(t, 1, host.saves)

	press(mh, tcell.KeyCtrlQ)
	assert.True(t, quitSent(quit))
}

func TestNavigationAndScroll(t *testing.T) {
	mh, host, _ := setup(t)
	sel := mh.editor.Selection()

	press(mh, tcell.KeyDown)
	assert.Equal(t, []string{"body"}, sel.Selected())
	press(mh, tcell.KeyDown)
	assert.Equal(t, []string{"a"}, sel.Selected())
	press(mh, tcell.KeyDown)
	assert.Equal(t, []string{"a"}, sel.Selected())

	press(mh, tcell.KeyLeft)
	assert.Equal(t, []string{"body"}, sel.Selected())

	press(mh, tcell.KeyPgDn)
	press(mh, tcell.KeyPgDn)
	press(mh, tcell.KeyPgUp)
	assert.Equal(t, scrollStep, host.scroll)
}
