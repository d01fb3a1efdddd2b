package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys to actions.
type Keymap map[tcell.Key]Action

// RuneKeymap maps plain runes to actions outside of an inline edit.
type RuneKeymap map[rune]Action

// InputProcessor translates tcell key events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	textKeymap Keymap
	runeKeymap RuneKeymap
	addKeys    map[rune]string // rune -> block type created by ActionAddBlock
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		textKeymap: make(Keymap),
		runeKeymap: make(RuneKeymap),
		addKeys:    make(map[rune]string),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyCtrlQ] = ActionQuit
	p.keymap[tcell.KeyCtrlC] = ActionQuit
	p.keymap[tcell.KeyCtrlS] = ActionSave
	p.keymap[tcell.KeyCtrlZ] = ActionUndo
	p.keymap[tcell.KeyCtrlY] = ActionRedo
	p.keymap[tcell.KeyCtrlD] = ActionDuplicate
	p.keymap[tcell.KeyCtrlX] = ActionCopy
	p.keymap[tcell.KeyCtrlV] = ActionPaste
	p.keymap[tcell.KeyCtrlU] = ActionUnlink
	p.keymap[tcell.KeyEscape] = ActionCancel
	p.keymap[tcell.KeyDelete] = ActionDelete
	p.keymap[tcell.KeyBackspace] = ActionDelete
	p.keymap[tcell.KeyBackspace2] = ActionDelete
	p.keymap[tcell.KeyEnter] = ActionEditInline
	p.keymap[tcell.KeyUp] = ActionSelectPrev
	p.keymap[tcell.KeyDown] = ActionSelectNext
	p.keymap[tcell.KeyLeft] = ActionSelectParent
	p.keymap[tcell.KeyPgUp] = ActionScrollUp
	p.keymap[tcell.KeyPgDn] = ActionScrollDown

	p.textKeymap[tcell.KeyEnter] = ActionSubmit
	p.textKeymap[tcell.KeyEscape] = ActionCancel
	p.textKeymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.textKeymap[tcell.KeyBackspace2] = ActionDeleteCharBackward
	p.textKeymap[tcell.KeyLeft] = ActionCursorLeft
	p.textKeymap[tcell.KeyRight] = ActionCursorRight
	p.textKeymap[tcell.KeyCtrlQ] = ActionQuit

	p.runeKeymap['u'] = ActionUndo
	p.runeKeymap['r'] = ActionRedo
	p.runeKeymap['d'] = ActionDelete
	p.runeKeymap['y'] = ActionCopy
	p.runeKeymap['p'] = ActionPaste
	p.runeKeymap['K'] = ActionMoveUp
	p.runeKeymap['J'] = ActionMoveDown
	p.runeKeymap['k'] = ActionSelectPrev
	p.runeKeymap['j'] = ActionSelectNext
	p.runeKeymap['h'] = ActionSelectParent
	p.runeKeymap['e'] = ActionEditInline
	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap[':'] = ActionEnterCommandMode

	p.addKeys['t'] = "Text"
	p.addKeys['H'] = "Heading"
	p.addKeys['b'] = "Box"
	p.addKeys['R'] = "Row"
	p.addKeys['B'] = "Button"
	p.addKeys['i'] = "Image"
	p.addKeys['-'] = "Divider"
}

// ProcessEvent decodes a key event. During text entry (inline edit, command
// line) plain runes are text and only the text bindings apply.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey, textEntry bool) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	if textEntry {
		if action, ok := p.textKeymap[key]; ok {
			return ActionEvent{Action: action}
		}
		if key == tcell.KeyRune && mod&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
		}
		return ActionEvent{Action: ActionUnknown}
	}

	if action, ok := p.keymap[key]; ok {
		return ActionEvent{Action: action}
	}
	if key != tcell.KeyRune || mod&(tcell.ModCtrl|tcell.ModAlt) != 0 {
		return ActionEvent{Action: ActionUnknown}
	}
	r := ev.Rune()
	if action, ok := p.runeKeymap[r]; ok {
		return ActionEvent{Action: action, Rune: r}
	}
	if blockType, ok := p.addKeys[r]; ok {
		return ActionEvent{Action: ActionAddBlock, Rune: r, BlockType: blockType}
	}
	return ActionEvent{Action: ActionUnknown, Rune: r}
}

// AddKeys lists the rune bindings that create blocks, for help text.
func (p *InputProcessor) AddKeys() map[rune]string {
	out := make(map[rune]string, len(p.addKeys))
	for r, t := range p.addKeys {
		out[r] = t
	}
	return out
}
