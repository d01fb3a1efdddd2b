package app

import (
	"github.com/bethropolis/blox/internal/config"
	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/layout"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/modehandler"
	"github.com/bethropolis/blox/internal/statusbar"
	"github.com/bethropolis/blox/internal/tui"
)

// viewHeight is the number of canvas rows above the status bar.
func (a *App) viewHeight() int {
	_, height := a.tuiManager.Size()
	return max(height-config.StatusBarHeight, 0)
}

// relayout places the document for the current screen width and installs the
// result as the drag engine's geometry.
func (a *App) relayout() {
	width, _ := a.tuiManager.Size()
	area := dnd.Rect{W: float64(width), H: float64(a.viewHeight())}
	l := layout.Build(a.editor.Projection(), a.editor.Registry(), area)
	// Keep a free row below the last block so the top level stays droppable.
	if l.Height() >= area.H {
		area.H = l.Height() + 1
		l = layout.Build(a.editor.Projection(), a.editor.Registry(), area)
	}
	a.layout = l
	a.clampScroll()

	if s := a.editor.DnD().Active(); s != nil && s.Payload().BlockID != "" {
		a.editor.SetHitTester(l.Excluding(s.Payload().BlockID))
	} else {
		a.editor.SetHitTester(l)
	}
	logger.DebugTagf("draw", "App: Layout %vx%v, %d boxes", area.W, l.Height(), len(l.Boxes()))
}

// Layout implements modehandler.Host.
func (a *App) Layout() *layout.Layout {
	return a.layout
}

// Scroll implements modehandler.Host.
func (a *App) Scroll(delta int) {
	a.scrollY += delta
	a.clampScroll()
}

func (a *App) clampScroll() {
	if a.layout == nil {
		a.scrollY = 0
		return
	}
	maxScroll := max(int(a.layout.Height())-a.viewHeight()+1, 0)
	a.scrollY = max(0, min(a.scrollY, maxScroll))
}

// view collects everything the canvas draws this frame.
func (a *App) view() tui.View {
	sel := a.editor.Selection()
	v := tui.View{
		Layout:      a.layout,
		Selected:    make(map[string]bool),
		Highlighted: sel.Highlighted(),
		ScrollY:     a.scrollY,
		Height:      a.viewHeight(),
	}
	for _, id := range sel.Selected() {
		v.Selected[id] = true
	}
	if t, ok := sel.StyleTarget(); ok {
		v.StyleTarget = &t
	}
	if s := a.editor.DnD().Active(); s != nil {
		v.Dragging = s.Payload().BlockID
		v.Indicator = s.Indicator()
	}
	if id, text, cursor, ok := a.modeHandler.EditState(); ok {
		v.Edit = &tui.EditView{BlockID: id, Text: text, Cursor: cursor}
	}
	return v
}

// drawEditor clears screen and redraws all components.
func (a *App) drawEditor() {
	a.updateStatusBarContent()

	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()

	a.tuiManager.Clear()
	tui.DrawCanvas(a.tuiManager, a.view(), a.styles)
	a.statusBar.Draw(screen, width, height)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes current editor state to the status bar component.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetPageInfo(a.pageID, a.modified)
	a.statusBar.SetBlockCount(a.editor.Reader().Len())
	a.statusBar.SetMode(a.modeHandler.GetCurrentMode().String())

	crumbs := a.editor.Breadcrumb()
	labels := make([]string, len(crumbs))
	for i, c := range crumbs {
		labels[i] = c.Label
	}
	a.statusBar.SetBreadcrumb(labels)

	hist := a.editor.GetHistoryManager()
	a.statusBar.SetHistory(statusbar.History{
		CanUndo: hist.CanUndo(),
		CanRedo: hist.CanRedo(),
		Frozen:  hist.Frozen(),
	})

	if a.modeHandler.GetCurrentMode() == modehandler.ModeCommand {
		a.statusBar.SetTemporaryMessage(":%s", a.modeHandler.GetCommandBuffer())
	}
}
