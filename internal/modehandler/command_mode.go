package modehandler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/blox/internal/input"
	"github.com/bethropolis/blox/internal/logger"
	"github.com/bethropolis/blox/internal/utils"
)

// handleActionCommand handles actions when in ModeCommand.
func (mh *ModeHandler) handleActionCommand(ae input.ActionEvent) bool {
	switch ae.Action {
	case input.ActionInsertRune:
		mh.cmdBuffer += string(ae.Rune)

	case input.ActionDeleteCharBackward:
		if mh.cmdBuffer == "" {
			mh.currentMode = ModeNormal
			mh.statusBar.ResetTemporaryMessage()
			return true
		}
		n := len([]rune(mh.cmdBuffer))
		mh.cmdBuffer, _ = utils.DeleteRuneBefore(mh.cmdBuffer, n)

	case input.ActionSubmit:
		mh.currentMode = ModeNormal
		mh.executeCommand()
		return true

	case input.ActionCancel:
		mh.currentMode = ModeNormal
		mh.cmdBuffer = ""
		mh.statusBar.ResetTemporaryMessage()
		logger.Debugf("ModeHandler: Canceled Command Mode via Escape")
		return true

	case input.ActionQuit:
		mh.currentMode = ModeNormal
		mh.cmdBuffer = ""
		return mh.handleActionNormal(ae)

	default:
		return false
	}
	mh.statusBar.SetTemporaryMessage(":%s", mh.cmdBuffer)
	return true
}

// executeCommand parses and runs the command in cmdBuffer.
func (mh *ModeHandler) executeCommand() {
	cmdStr := strings.TrimSpace(mh.cmdBuffer)
	mh.cmdBuffer = ""
	if cmdStr == "" {
		mh.statusBar.ResetTemporaryMessage()
		return
	}
	mh.statusBar.ResetTemporaryMessage()
	if err := mh.ExecuteCommand(cmdStr); err != nil {
		mh.statusBar.SetTemporaryMessage("%v", err)
	}
}

// ExecuteCommand runs a command line such as "theme Light".
func (mh *ModeHandler) ExecuteCommand(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmdName, args := parts[0], parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	logger.Debugf("ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		return fmt.Errorf("command '%s': %w", cmdName, err)
	}
	return nil
}

// Commands lists the registered command names.
func (mh *ModeHandler) Commands() []string {
	names := make([]string, 0, len(mh.commands))
	for name := range mh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
