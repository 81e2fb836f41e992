// Package enginetest provides an in-memory engine.Engine for tests and
// examples: a real line buffer with clamping cursor semantics, plus
// scriptable mode flags and key handling so bridge behavior can be exercised
// without a real modal engine.
package enginetest

import (
	"strings"

	"vimbridge/engine"
)

// Fake implements engine.Engine. The zero value is an uninitialized engine:
// every operation is a no-op (or zero) until Initialize is called, which is
// exactly the fail-open situation the bridge must tolerate.
type Fake struct {
	initialized bool
	lines       [][]rune
	cursor      engine.Position

	flags        engine.ModeFlags
	visualActive bool
	visualStart  engine.Position
	visualEnd    engine.Position
	kind         engine.VisualKind

	// OnKey and OnChar, when set, script the engine's response to injected
	// input. When unset, input is reported as consumed with no buffer effect
	// (except <esc>, which clears all mode flags) so routing tests can count
	// dispatches without scripting every key.
	OnKey  func(engine.SpecialKey) bool
	OnChar func(rune) bool

	keysSent  []engine.SpecialKey
	charsSent []rune
	setLines  int

	changed func()
}

var _ engine.Engine = (*Fake)(nil)

// New returns an initialized fake with an empty buffer.
func New() *Fake {
	f := &Fake{}
	_ = f.Initialize()
	return f
}

func (f *Fake) Initialize() error {
	f.initialized = true
	if f.lines == nil {
		f.lines = [][]rune{{}}
	}
	if f.cursor.Line == 0 {
		f.cursor = engine.Position{Line: 1, Col: 0}
	}
	return nil
}

// Initialized reports whether Initialize has run.
func (f *Fake) Initialized() bool { return f.initialized }

func (f *Fake) LineCount() int {
	if !f.initialized {
		return 0
	}
	return len(f.lines)
}

func (f *Fake) Line(n int) string {
	if !f.initialized || n < 1 || n > len(f.lines) {
		return ""
	}
	return string(f.lines[n-1])
}

// SetLines splices the 0-based range [start, start+deleteCount) and inserts
// the given lines in its place. Out-of-range bounds are clamped; the buffer
// always keeps at least one (possibly empty) line.
func (f *Fake) SetLines(start, deleteCount int, lines []string) {
	if !f.initialized {
		return
	}
	if start < 0 {
		start = 0
	}
	if start > len(f.lines) {
		start = len(f.lines)
	}
	end := start + deleteCount
	if end > len(f.lines) {
		end = len(f.lines)
	}

	inserted := make([][]rune, len(lines))
	for i, l := range lines {
		inserted[i] = []rune(l)
	}

	next := make([][]rune, 0, len(f.lines)-(end-start)+len(inserted))
	next = append(next, f.lines[:start]...)
	next = append(next, inserted...)
	next = append(next, f.lines[end:]...)
	if len(next) == 0 {
		next = [][]rune{{}}
	}
	f.lines = next
	f.setLines++
	f.SetCursor(f.cursor)
}

func (f *Fake) Cursor() engine.Position {
	if !f.initialized {
		return engine.Position{}
	}
	return f.cursor
}

// SetCursor clamps the position to the buffer, allowing the column to sit one
// past the end of the line.
func (f *Fake) SetCursor(p engine.Position) {
	if !f.initialized {
		return
	}
	if p.Line < 1 {
		p.Line = 1
	}
	if p.Line > len(f.lines) {
		p.Line = len(f.lines)
	}
	lineLen := len(f.lines[p.Line-1])
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col > lineLen {
		p.Col = lineLen
	}
	f.cursor = p
}

func (f *Fake) VisualActive() bool { return f.initialized && f.visualActive }

func (f *Fake) VisualRange() (start, end engine.Position) {
	return f.visualStart, f.visualEnd
}

func (f *Fake) Kind() engine.VisualKind { return f.kind }

func (f *Fake) SendKey(k engine.SpecialKey) bool {
	if !f.initialized {
		return false
	}
	f.keysSent = append(f.keysSent, k)
	if f.OnKey != nil {
		return f.OnKey(k)
	}
	if k == engine.KeyEscape {
		f.flags = engine.ModeFlags{}
		f.visualActive = false
	}
	return true
}

func (f *Fake) SendChar(r rune) bool {
	if !f.initialized {
		return false
	}
	f.charsSent = append(f.charsSent, r)
	if f.OnChar != nil {
		return f.OnChar(r)
	}
	return true
}

func (f *Fake) ModeFlags() engine.ModeFlags {
	if !f.initialized {
		return engine.ModeFlags{}
	}
	return f.flags
}

func (f *Fake) SetChangeCallback(fn func()) { f.changed = fn }

// --- scripting surface ---

// SetFlags scripts the mode flags the next ModeFlags call reports.
func (f *Fake) SetFlags(flags engine.ModeFlags) { f.flags = flags }

// SetVisual scripts an active visual range. The endpoints are stored as
// given; the bridge is responsible for ordering them.
func (f *Fake) SetVisual(start, end engine.Position, kind engine.VisualKind) {
	f.visualActive = true
	f.visualStart = start
	f.visualEnd = end
	f.kind = kind
	f.flags.Visual = true
	f.flags.Kind = kind
}

// ClearVisual deactivates any scripted visual range.
func (f *Fake) ClearVisual() {
	f.visualActive = false
	f.flags.Visual = false
	f.flags.Select = false
}

// SetText replaces the whole buffer, splitting on newlines.
func (f *Fake) SetText(text string) {
	f.SetLines(0, f.LineCount(), strings.Split(text, "\n"))
}

// Text joins the buffer back into a flat string.
func (f *Fake) Text() string {
	if !f.initialized {
		return ""
	}
	parts := make([]string, len(f.lines))
	for i, l := range f.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// FireChange invokes the registered buffer-changed callback, simulating an
// engine-side mutation outside a direct call.
func (f *Fake) FireChange() {
	if f.changed != nil {
		f.changed()
	}
}

// HasChangeCallback reports whether a callback is currently registered.
func (f *Fake) HasChangeCallback() bool { return f.changed != nil }

// KeysSent returns every special key injected so far.
func (f *Fake) KeysSent() []engine.SpecialKey { return f.keysSent }

// CharsSent returns every literal character injected so far.
func (f *Fake) CharsSent() []rune { return f.charsSent }

// SetLinesCalls returns how many times SetLines ran, which the sync tests use
// to verify idempotent pushes.
func (f *Fake) SetLinesCalls() int { return f.setLines }
