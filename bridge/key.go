package bridge

import (
	"fmt"
	"strings"

	"vimbridge/engine"
)

// KeyCode represents non-character keys.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeySpace

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyDelete
)

// Modifiers represents modifier keys held during a keystroke.
type Modifiers uint8

const (
	ModNone Modifiers = 0
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
)

// KeyEvent is a keyboard input event as the host widget sees it, before any
// routing decision has been made.
type KeyEvent struct {
	Rune rune
	Code KeyCode
	Mods Modifiers
}

// specialKeyNames maps key codes to the engine's named-key notation.
// Special-key classification takes priority over plain-character forwarding.
var specialKeyNames = map[KeyCode]engine.SpecialKey{
	KeyEnter:     engine.KeyEnter,
	KeyTab:       engine.KeyTab,
	KeyBackspace: engine.KeyBackspace,
	KeyEscape:    engine.KeyEscape,
	KeyUp:        engine.KeyUp,
	KeyDown:      engine.KeyDown,
	KeyLeft:      engine.KeyLeft,
	KeyRight:     engine.KeyRight,
	KeyHome:      engine.KeyHome,
	KeyEnd:       engine.KeyEnd,
	KeyPageUp:    engine.KeyPageUp,
	KeyPageDown:  engine.KeyPageDown,
	KeyDelete:    engine.KeyDelete,
}

// engineKey classifies the event for engine injection: a named special key,
// a ctrl chord, an alt chord, or nothing (plain character, sent via SendChar).
func (k KeyEvent) engineKey() (engine.SpecialKey, bool) {
	if name, ok := specialKeyNames[k.Code]; ok {
		return name, true
	}
	if k.Rune != 0 && k.Mods&ModCtrl != 0 {
		return engine.CtrlKey(k.Rune), true
	}
	if k.Rune != 0 && k.Mods&ModAlt != 0 {
		return engine.AltKey(k.Rune), true
	}
	return "", false
}

// String returns a readable representation, for logs and test failures.
func (k KeyEvent) String() string {
	var parts []string

	if k.Mods&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if k.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if k.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}

	switch {
	case k.Rune != 0:
		parts = append(parts, string(k.Rune))
	default:
		switch k.Code {
		case KeyEnter:
			parts = append(parts, "Enter")
		case KeyTab:
			parts = append(parts, "Tab")
		case KeyBackspace:
			parts = append(parts, "Backspace")
		case KeyEscape:
			parts = append(parts, "Escape")
		case KeySpace:
			parts = append(parts, "Space")
		case KeyUp:
			parts = append(parts, "Up")
		case KeyDown:
			parts = append(parts, "Down")
		case KeyLeft:
			parts = append(parts, "Left")
		case KeyRight:
			parts = append(parts, "Right")
		case KeyHome:
			parts = append(parts, "Home")
		case KeyEnd:
			parts = append(parts, "End")
		case KeyPageUp:
			parts = append(parts, "PageUp")
		case KeyPageDown:
			parts = append(parts, "PageDown")
		case KeyDelete:
			parts = append(parts, "Delete")
		case KeyNone:
			parts = append(parts, "None")
		default:
			parts = append(parts, fmt.Sprintf("Key(%d)", k.Code))
		}
	}

	return strings.Join(parts, "+")
}

// Char builds a plain character event.
func Char(r rune) KeyEvent { return KeyEvent{Rune: r} }

// Ctrl builds a control-modified character event.
func Ctrl(r rune) KeyEvent { return KeyEvent{Rune: r, Mods: ModCtrl} }
