package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/blox/internal/block"
	"github.com/bethropolis/blox/internal/core/dnd"
	"github.com/bethropolis/blox/internal/layout"
	"github.com/bethropolis/blox/internal/theme"
)

// Styles used by the canvas.
type Styles struct {
	Default     tcell.Style
	Guide       tcell.Style
	Container   tcell.Style
	Content     tcell.Style
	Placeholder tcell.Style
	Selected    tcell.Style
	Highlighted tcell.Style
	StyleTarget tcell.Style
	Dragging    tcell.Style
	Indicator   tcell.Style
	Editing     tcell.Style
}

// DefaultStyles are the styles of the built-in dark theme.
func DefaultStyles() Styles {
	return StylesFromTheme(theme.Dark)
}

// StylesFromTheme resolves the canvas styles of t.
func StylesFromTheme(t *theme.Theme) Styles {
	return Styles{
		Default:     t.GetStyle(theme.StyleDefault),
		Guide:       t.GetStyle(theme.StyleGuide),
		Container:   t.GetStyle(theme.StyleContainer),
		Content:     t.GetStyle(theme.StyleContent),
		Placeholder: t.GetStyle(theme.StylePlaceholder),
		Selected:    t.GetStyle(theme.StyleSelected),
		Highlighted: t.GetStyle(theme.StyleHighlighted),
		StyleTarget: t.GetStyle(theme.StyleStyleTarget),
		Dragging:    t.GetStyle(theme.StyleDragging),
		Indicator:   t.GetStyle(theme.StyleIndicator),
		Editing:     t.GetStyle(theme.StyleEditing),
	}
}

// EditView is an inline edit drawn in place of a block's content.
type EditView struct {
	BlockID string
	Text    string
	Cursor  int // rune index
}

// View is everything the canvas needs for one frame.
type View struct {
	Layout      *layout.Layout
	Selected    map[string]bool
	Highlighted string
	StyleTarget *block.StyleTarget
	Dragging    string
	Indicator   dnd.Indicator
	Edit        *EditView
	ScrollY     int
	Height      int // rows available to the canvas
}

// calculateVisualColumn returns the display width of the first runeIndex runes.
func calculateVisualColumn(s string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	visualWidth := 0
	currentRuneIndex := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		if currentRuneIndex >= runeIndex {
			break
		}
		visualWidth += gr.Width()
		currentRuneIndex += len(gr.Runes())
	}
	return visualWidth
}

// drawText draws s from x on row y, clipped at maxX, and returns the next column.
func drawText(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if x+w > maxX {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		for cw := 1; cw < w; cw++ {
			screen.SetContent(x+cw, y, ' ', nil, style)
		}
		x += w
	}
	return x
}

func fill(screen tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// DrawCanvas draws the block tree and the drop indicator, and places the
// cursor during an inline edit.
func DrawCanvas(t *TUI, v View, st Styles) {
	screen := t.screen
	width, _ := t.Size()
	height := v.Height
	if height <= 0 || width <= 0 || v.Layout == nil {
		return
	}
	for y := 0; y < height; y++ {
		fill(screen, 0, y, width, st.Default)
	}
	screen.HideCursor()

	row := func(docY float64) (int, bool) {
		y := int(docY) - v.ScrollY
		return y, y >= 0 && y < height
	}

	for _, b := range v.Layout.Boxes() {
		y, visible := row(b.Rect.Y)
		x := int(b.Rect.X)
		maxX := min(int(b.Rect.X+b.Rect.W), width)

		if b.Container {
			for gy := 1; gy < int(b.Rect.H); gy++ {
				if sy, ok := row(b.Rect.Y + float64(gy)); ok {
					screen.SetContent(x, sy, '│', nil, st.Guide)
				}
			}
			if len(b.Children) == 0 {
				if sy, ok := row(b.Rect.Y + 1); ok {
					drawText(screen, x+layout.Indent, sy, maxX, "(empty)", st.Placeholder)
				}
			}
		}
		if !visible {
			continue
		}

		labelStyle := st.Default
		if b.Container {
			labelStyle = st.Container
		}
		contentStyle := st.Content
		switch {
		case b.ID == v.Dragging:
			labelStyle, contentStyle = st.Dragging, st.Dragging
		case v.Selected[b.ID]:
			fill(screen, x, y, maxX, st.Selected)
			labelStyle, contentStyle = st.Selected, st.Selected
		case b.ID == v.Highlighted:
			fill(screen, x, y, maxX, st.Highlighted)
			labelStyle, contentStyle = st.Highlighted, st.Highlighted
		}
		if v.StyleTarget != nil && v.StyleTarget.BlockID == b.ID && v.StyleTarget.Prop == block.ContentKey {
			contentStyle = st.StyleTarget
		}

		glyph := "• "
		if b.Container {
			glyph = "▾ "
		}
		next := drawText(screen, x, y, maxX, glyph, labelStyle)
		drawText(screen, next, y, maxX, b.Label, labelStyle)

		cx := int(b.ContentX)
		if v.Edit != nil && v.Edit.BlockID == b.ID {
			fill(screen, cx, y, maxX, st.Editing)
			drawText(screen, cx, y, maxX, v.Edit.Text, st.Editing)
			if cursorX := cx + calculateVisualColumn(v.Edit.Text, v.Edit.Cursor); cursorX < maxX {
				screen.ShowCursor(cursorX, y)
			}
			continue
		}
		if b.Content != "" {
			drawText(screen, cx, y, maxX, b.Content, contentStyle)
		}
	}

	drawIndicator(screen, v, width, st.Indicator)
}

func drawIndicator(screen tcell.Screen, v View, width int, style tcell.Style) {
	ind := v.Indicator
	if !ind.Visible {
		return
	}
	x0 := int(ind.X)
	y0 := int(ind.Y) - v.ScrollY
	if ind.Orientation == dnd.Horizontal {
		for y := y0; y < y0+int(ind.H); y++ {
			if y >= 0 && y < v.Height && x0 < width {
				screen.SetContent(x0, y, '┃', nil, style)
			}
		}
		return
	}
	if y0 < 0 || y0 >= v.Height {
		return
	}
	for x := x0; x < min(x0+int(ind.W), width); x++ {
		screen.SetContent(x, y0, '━', nil, style)
	}
}
