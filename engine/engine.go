// Package engine defines the contract between vimbridge and a modal editing
// engine. The engine owns the line-oriented buffer, the cursor, visual
// selections and the full command grammar; the bridge only queries and
// mutates it through this interface, so any engine that speaks it (libvim
// bindings, a pure-Go engine, the enginetest fake) can be plugged in.
package engine

import "fmt"

// Position is a location in the engine's buffer. Line is 1-indexed, Col is
// 0-indexed, matching the engine-side convention everywhere in this module.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// VisualKind identifies the granularity of a visual selection. The values are
// the literal mode characters the engine reports.
type VisualKind rune

const (
	VisualChar  VisualKind = 'v'
	VisualLine  VisualKind = 'V'
	VisualBlock VisualKind = 0x16 // Ctrl-V
)

// ModeFlags is the raw mode state reported by the engine after each
// processed key. The bridge resolves these into a single mode; it never
// infers mode from its own logic.
type ModeFlags struct {
	Insert      bool
	Replace     bool
	Visual      bool
	Select      bool
	CommandLine bool
	Kind        VisualKind // meaningful when Visual or Select is set
}

// SpecialKey is a named key in the engine's notation, e.g. "<esc>" or "<cr>".
type SpecialKey string

const (
	KeyEscape    SpecialKey = "<esc>"
	KeyEnter     SpecialKey = "<cr>"
	KeyBackspace SpecialKey = "<bs>"
	KeyTab       SpecialKey = "<tab>"
	KeyDelete    SpecialKey = "<del>"
	KeyUp        SpecialKey = "<up>"
	KeyDown      SpecialKey = "<down>"
	KeyLeft      SpecialKey = "<left>"
	KeyRight     SpecialKey = "<right>"
	KeyHome      SpecialKey = "<home>"
	KeyEnd       SpecialKey = "<end>"
	KeyPageUp    SpecialKey = "<pageup>"
	KeyPageDown  SpecialKey = "<pagedown>"
)

// CtrlKey returns the engine notation for a control-modified character.
func CtrlKey(r rune) SpecialKey {
	return SpecialKey(fmt.Sprintf("<C-%c>", r))
}

// AltKey returns the engine notation for an alt/option-modified character.
func AltKey(r rune) SpecialKey {
	return SpecialKey(fmt.Sprintf("<A-%c>", r))
}

// Engine is the modal-engine service. All calls are synchronous; the bridge
// treats every operation as a direct call-and-return on the UI thread.
//
// Initialize must be called once before any other method and establishes a
// default empty buffer. The behavior of the remaining methods is undefined
// until then; implementations should degrade to no-ops rather than panic.
type Engine interface {
	Initialize() error

	// Line-oriented buffer access. Line is a 1-based lookup; SetLines splices
	// the range [start, start+deleteCount) of 0-based line indices, inserting
	// lines in its place.
	LineCount() int
	Line(n int) string
	SetLines(start, deleteCount int, lines []string)

	// Cursor access, in Position convention (1-indexed line, 0-indexed col).
	// SetCursor clamps out-of-range positions.
	Cursor() Position
	SetCursor(Position)

	// Visual selection. VisualRange reports the two endpoints in the order
	// the engine tracks them, which may be reversed relative to buffer order.
	VisualActive() bool
	VisualRange() (start, end Position)
	Kind() VisualKind

	// Key injection. SendKey takes a named special key (or a <C-x>/<A-x>
	// chord), SendChar a literal character. Both report whether the engine
	// consumed the input.
	SendKey(SpecialKey) bool
	SendChar(rune) bool

	ModeFlags() ModeFlags

	// SetChangeCallback registers a notification the engine invokes when it
	// mutates the buffer outside of a direct call (autocommands, async
	// plumbing). Passing nil deregisters; the host must deregister before
	// releasing the bridge so the callback cannot outlive it.
	SetChangeCallback(func())
}
