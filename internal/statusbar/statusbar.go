// Package statusbar draws the bottom line: page, breadcrumb, history state and
// temporary messages.
package statusbar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/blox/internal/theme"
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleModified  tcell.Style
	StyleMessage   tcell.Style
	StyleFrozen    tcell.Style
	MessageTimeout time.Duration
	Now            func() time.Time
}

func DefaultConfig() Config {
	cfg := Config{MessageTimeout: 4 * time.Second, Now: time.Now}
	cfg.applyTheme(theme.Dark)
	return cfg
}

func (c *Config) applyTheme(t *theme.Theme) {
	c.StyleDefault = t.GetStyle(theme.StyleStatusBar)
	c.StyleModified = t.GetStyle(theme.StyleStatusBarModified)
	c.StyleMessage = t.GetStyle(theme.StyleStatusBarMessage)
	c.StyleFrozen = t.GetStyle(theme.StyleStatusBarFrozen)
}

// History is the undo state shown on the right.
type History struct {
	CanUndo bool
	CanRedo bool
	Frozen  bool
}

// StatusBar is updated from the event loop and drawn each frame.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	pageID     string
	modified   bool
	breadcrumb []string
	blocks     int
	mode       string
	history    History

	tempMessage     string
	tempMessageTime time.Time
}

func New(config Config) *StatusBar {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &StatusBar{config: config}
}

// SetTheme switches the bar to the status bar styles of t.
func (sb *StatusBar) SetTheme(t *theme.Theme) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.config.applyTheme(t)
}

// SetPageInfo updates the page id and unsaved-changes flag.
func (sb *StatusBar) SetPageInfo(pageID string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.pageID = pageID
	sb.modified = modified
}

// SetBreadcrumb sets the labels from the root to the selected block.
func (sb *StatusBar) SetBreadcrumb(labels []string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.breadcrumb = append([]string(nil), labels...)
}

func (sb *StatusBar) SetBlockCount(n int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.blocks = n
}

// SetMode shows a mode such as "EDIT" or "DRAG"; empty hides it.
func (sb *StatusBar) SetMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.mode = mode
}

func (sb *StatusBar) SetHistory(h History) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.history = h
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...any) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.config.Now()
}

func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// left builds the page and breadcrumb part. Callers hold the lock.
func (sb *StatusBar) left() string {
	page := sb.pageID
	if page == "" {
		page = "[No Page]"
	}
	var b strings.Builder
	b.WriteString(page)
	if sb.modified {
		b.WriteString(" [+]")
	}
	if sb.mode != "" {
		fmt.Fprintf(&b, " -- %s", sb.mode)
	}
	if len(sb.breadcrumb) > 0 {
		b.WriteString(" | ")
		b.WriteString(strings.Join(sb.breadcrumb, " › "))
	}
	return b.String()
}

// right builds the block count and history part. Callers hold the lock.
func (sb *StatusBar) right() string {
	undo, redo := "-", "-"
	if sb.history.CanUndo {
		undo = "u"
	}
	if sb.history.CanRedo {
		redo = "r"
	}
	s := fmt.Sprintf("%d blocks [%s%s]", sb.blocks, undo, redo)
	if sb.history.Frozen {
		s = "HISTORY FROZEN " + s
	}
	return s
}

// Text returns the line the next Draw would render, without styling.
func (sb *StatusBar) Text() (left, right string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if sb.messageActive() {
		return sb.tempMessage, ""
	}
	return sb.left(), sb.right()
}

// messageActive clears an expired message. Callers hold the write lock.
func (sb *StatusBar) messageActive() bool {
	if sb.tempMessageTime.IsZero() {
		return false
	}
	if sb.config.Now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout {
		return true
	}
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
	return false
}

// Draw renders the status bar on the last screen row.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	style := sb.config.StyleDefault
	var left, right string
	if sb.messageActive() {
		style = sb.config.StyleMessage
		left = sb.tempMessage
	} else {
		left, right = sb.left(), sb.right()
		if sb.modified {
			style = sb.config.StyleModified
		}
		if sb.history.Frozen {
			style = sb.config.StyleFrozen
		}
	}
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
	rightX := width - uniseg.StringWidth(right)
	end := drawString(screen, 0, y, width, left, style)
	if right != "" && rightX > end {
		drawString(screen, rightX, y, width, right, style)
	}
}

func drawString(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		w := gr.Width()
		if x+w > maxX {
			break
		}
		runes := gr.Runes()
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}
