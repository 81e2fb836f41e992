package bubble_adapter

import (
	tea "github.com/charmbracelet/bubbletea"

	"vimbridge/bridge"
)

// Convert Bubbletea key to bridge.KeyEvent
func convertBubbleKey(msg tea.KeyMsg) bridge.KeyEvent {
	key := bridge.KeyEvent{}

	if len(msg.Runes) > 0 {
		key.Rune = msg.Runes[0]
	}

	if msg.Alt {
		key.Mods |= bridge.ModAlt
	}

	switch msg.Type {
	case tea.KeyEnter:
		key.Code = bridge.KeyEnter
	case tea.KeySpace:
		key.Code = bridge.KeySpace
		key.Rune = ' '
	case tea.KeyEsc:
		key.Code = bridge.KeyEscape
	case tea.KeyBackspace:
		key.Code = bridge.KeyBackspace
	case tea.KeyTab:
		key.Code = bridge.KeyTab
		key.Rune = '\t'
	case tea.KeyUp:
		key.Code = bridge.KeyUp
	case tea.KeyDown:
		key.Code = bridge.KeyDown
	case tea.KeyLeft:
		key.Code = bridge.KeyLeft
	case tea.KeyRight:
		key.Code = bridge.KeyRight
	case tea.KeyHome:
		key.Code = bridge.KeyHome
	case tea.KeyEnd:
		key.Code = bridge.KeyEnd
	case tea.KeyDelete:
		key.Code = bridge.KeyDelete
	case tea.KeyPgUp:
		key.Code = bridge.KeyPageUp
	case tea.KeyPgDown:
		key.Code = bridge.KeyPageDown
	default:
		// Control chords arrive as their own key types; fold them back into
		// rune + modifier so the bridge sees one shape.
		if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
			key.Rune = 'a' + rune(msg.Type-tea.KeyCtrlA)
			key.Mods |= bridge.ModCtrl
		}
	}

	return key
}
