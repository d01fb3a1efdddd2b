// Package modehandler routes key events to editor operations according to the
// current input mode: normal, command line, or inline edit.
package modehandler

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/blox/internal/core"
	"github.com/bethropolis/blox/internal/core/interaction"
	"github.com/bethropolis/blox/internal/input"
	"github.com/bethropolis/blox/internal/layout"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/plugin"
	"github.com/bethropolis/blox/internal/statusbar"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
	ModeEdit
)

func (m InputMode) String() string {
	switch m {
	case ModeCommand:
		return "COMMAND"
	case ModeEdit:
		return "EDIT"
	default:
		return ""
	}
}

// Host is the part of the application the handler drives besides the editor.
type Host interface {
	Layout() *layout.Layout
	Scroll(delta int)
	Save() error
	Modified() bool
}

// ModeHandler manages input modes, command execution and the inline edit
// surface.
type ModeHandler struct {
	editor         *core.Editor
	inputProcessor *input.InputProcessor
	statusBar      *statusbar.StatusBar
	host           Host
	quitSignal     chan<- struct{}

	currentMode      InputMode
	cmdBuffer        string
	commands         map[string]plugin.CommandFunc
	forceQuitPending bool

	editText   string
	editCursor int
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Editor         *core.Editor
	InputProcessor *input.InputProcessor
	StatusBar      *statusbar.StatusBar
	Host           Host
	QuitSignal     chan<- struct{}
}

var _ interaction.Surface = (*ModeHandler)(nil)

func New(cfg Config) *ModeHandler {
	if cfg.Editor == nil || cfg.InputProcessor == nil || cfg.StatusBar == nil || cfg.Host == nil || cfg.QuitSignal == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	return &ModeHandler{
		editor:         cfg.Editor,
		inputProcessor: cfg.InputProcessor,
		statusBar:      cfg.StatusBar,
		host:           cfg.Host,
		quitSignal:     cfg.QuitSignal,
		currentMode:    ModeNormal,
		commands:       make(map[string]plugin.CommandFunc),
	}
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event requires a redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	textEntry := mh.currentMode != ModeNormal
	actionEvent := mh.inputProcessor.ProcessEvent(ev, textEntry)

	if actionEvent.Action != input.ActionQuit {
		mh.forceQuitPending = false
	}

	switch mh.currentMode {
	case ModeNormal:
		return mh.handleActionNormal(actionEvent)
	case ModeCommand:
		return mh.handleActionCommand(actionEvent)
	case ModeEdit:
		return mh.handleActionEdit(actionEvent)
	default:
		logger.Debugf("ModeHandler: Unknown input mode: %v", mh.currentMode)
		return false
	}
}

// RegisterCommand adds a ':' command. Names must be unique.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" || cmdFunc == nil {
		return fmt.Errorf("command registration failed: empty name or nil function")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.Debugf("ModeHandler: Registered command ':%s'", name)
	return nil
}

func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

func (mh *ModeHandler) GetCommandBuffer() string {
	return mh.cmdBuffer
}

// EditState returns the text and rune cursor of the running inline edit.
func (mh *ModeHandler) EditState() (blockID, text string, cursor int, ok bool) {
	edit := mh.editor.Interaction().Editing()
	if mh.currentMode != ModeEdit || edit == nil {
		return "", "", 0, false
	}
	return edit.BlockID(), mh.editText, mh.editCursor, true
}

func (mh *ModeHandler) quit() {
	select {
	case mh.quitSignal <- struct{}{}:
	default:
	}
}
