package bridge

import "vimbridge/engine"

// Mode is the resolved editing mode. Exactly one is active at a time; the
// bridge derives it from engine-reported flags after every processed key and
// never infers it locally.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeVisual
	ModeVisualLine
	ModeVisualBlock
	ModeCommand
	ModeReplace
)

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeVisual:
		return "VISUAL"
	case ModeVisualLine:
		return "VISUAL LINE"
	case ModeVisualBlock:
		return "VISUAL BLOCK"
	case ModeCommand:
		return "COMMAND"
	case ModeReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// resolveMode collapses the engine flags into one mode. First match wins,
// mirroring the priority of simultaneous flags: replace beats insert, insert
// beats visual, visual beats command-line.
func resolveMode(f engine.ModeFlags) Mode {
	switch {
	case f.Insert && f.Replace:
		return ModeReplace
	case f.Insert:
		return ModeInsert
	case f.Visual || f.Select:
		switch f.Kind {
		case engine.VisualLine:
			return ModeVisualLine
		case engine.VisualBlock:
			return ModeVisualBlock
		default:
			return ModeVisual
		}
	case f.CommandLine:
		return ModeCommand
	default:
		return ModeNormal
	}
}

// modeTracker remembers the previously resolved mode so mode-changed events
// can be edge-triggered rather than fired on every key.
type modeTracker struct {
	current Mode
}

// update resolves the flags and reports whether the mode actually changed.
func (t *modeTracker) update(f engine.ModeFlags) (Mode, bool) {
	next := resolveMode(f)
	changed := next != t.current
	t.current = next
	return next, changed
}
